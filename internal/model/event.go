package model

import (
	"time"
)

// RSVPStatus is a tenant's declared attendance for an event
type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
	RSVPMaybe        RSVPStatus = "maybe"
)

// Valid reports whether s is a known RSVP status
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPAttending, RSVPNotAttending, RSVPMaybe:
		return true
	}
	return false
}

// Event represents a building event created by a tenant
type Event struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	CreatorTenantID uint      `json:"creator_tenant_id" gorm:"index;not null"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null"`
	Description     string    `json:"description" gorm:"type:text"`
	EventDate       time.Time `json:"event_date" gorm:"type:date;index;not null"`
	EventTime       string    `json:"event_time" gorm:"type:varchar(8);not null"`
	Location        string    `json:"location" gorm:"type:varchar(255);not null"`
	ContactPerson   string    `json:"contact_person" gorm:"type:varchar(255)"`
	RequiresRSVP    bool      `json:"requires_rsvp" gorm:"column:requires_rsvp;not null"`
	CreatedAt       time.Time `json:"created_at"`

	Documents []EventDocument `json:"documents,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	RSVPs     []EventRSVP     `json:"rsvps,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Creator   *Tenant         `json:"-" gorm:"foreignKey:CreatorTenantID"`
}

// EventDocument is a file attached to an event
type EventDocument struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"event_id" gorm:"index;not null"`
	FileURL    string    `json:"file_url" gorm:"type:varchar(512);not null"`
	FileName   string    `json:"file_name" gorm:"type:varchar(255);not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// EventRSVP is a tenant's answer to an event. One row per event and tenant.
type EventRSVP struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	EventID  uint       `json:"event_id" gorm:"uniqueIndex:unique_event_rsvp;not null"`
	TenantID uint       `json:"tenant_id" gorm:"uniqueIndex:unique_event_rsvp;index;not null"`
	Status   RSVPStatus `json:"status" gorm:"type:varchar(50);not null"`
	RSVPedAt time.Time  `json:"rsvped_at" gorm:"column:rsvped_at"`
}

// TableName keeps the plural form used by the existing database
func (EventRSVP) TableName() string {
	return "event_rsvps"
}
