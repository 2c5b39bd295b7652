package model

import (
	"time"
)

// ServiceRequestStatus is the lifecycle state of a service ticket
type ServiceRequestStatus string

const (
	ServiceRequestNew        ServiceRequestStatus = "new"
	ServiceRequestInProgress ServiceRequestStatus = "in_progress"
	ServiceRequestResolved   ServiceRequestStatus = "resolved"
	ServiceRequestClosed     ServiceRequestStatus = "closed"
)

var serviceRequestFlow = []ServiceRequestStatus{
	ServiceRequestNew,
	ServiceRequestInProgress,
	ServiceRequestResolved,
	ServiceRequestClosed,
}

// Next returns the status that follows s, or false when s is closed or unknown.
func (s ServiceRequestStatus) Next() (ServiceRequestStatus, bool) {
	for i, status := range serviceRequestFlow {
		if status == s && i+1 < len(serviceRequestFlow) {
			return serviceRequestFlow[i+1], true
		}
	}
	return "", false
}

// Service request types and urgency levels
const (
	ServiceTypeMaintenance = "maintenance"
	ServiceTypeCleaning    = "cleaning"
	ServiceTypeMeeting     = "meeting"

	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// ServiceRequest is a ticket filed by a tenant
type ServiceRequest struct {
	ID           uint                 `json:"id" gorm:"primaryKey"`
	TenantID     uint                 `json:"tenant_id" gorm:"index;not null"`
	Type         string               `json:"type" gorm:"type:varchar(50);not null"`
	Description  string               `json:"description" gorm:"type:text;not null"`
	Urgency      string               `json:"urgency" gorm:"type:varchar(50)"`
	PhotoURL     string               `json:"photo_url,omitempty" gorm:"type:varchar(512)"`
	Status       ServiceRequestStatus `json:"status" gorm:"type:varchar(50);index;not null"`
	AssignedToID *uint                `json:"assigned_to_id"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`

	Tenant     *Tenant  `json:"-" gorm:"foreignKey:TenantID"`
	AssignedTo *Manager `json:"-" gorm:"foreignKey:AssignedToID"`
}
