package model

import (
	"time"
)

// BookingStatus is the lifecycle state of a room booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// CanTransition reports whether a booking may move from s to next.
// Only pending bookings move; every other state is terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s != BookingPending {
		return false
	}
	switch next {
	case BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Room is a bookable space in the building
type Room struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	HourlyRate float64 `json:"hourly_rate" gorm:"type:decimal(10,2);not null"`
}

// Booking is a tenant's request to use a room for a time window
type Booking struct {
	ID                    uint          `json:"id" gorm:"primaryKey"`
	RoomID                uint          `json:"room_id" gorm:"index;not null"`
	TenantID              uint          `json:"tenant_id" gorm:"index;not null"`
	StartTime             time.Time     `json:"start_time" gorm:"index;not null"`
	EndTime               time.Time     `json:"end_time" gorm:"not null"`
	Purpose               string        `json:"purpose" gorm:"type:text;not null"`
	NumAttendees          int           `json:"num_attendees" gorm:"not null"`
	Status                BookingStatus `json:"status" gorm:"type:varchar(50);index;not null"`
	ManagerApprovalID     *uint         `json:"manager_approval_id"`
	CreatedAt             time.Time     `json:"created_at"`
	ApprovedAt            *time.Time    `json:"approved_at"`
	StripePaymentIntentID *string       `json:"-" gorm:"type:varchar(255);uniqueIndex"`

	Room     *Room    `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Tenant   *Tenant  `json:"-" gorm:"foreignKey:TenantID"`
	Approver *Manager `json:"-" gorm:"foreignKey:ManagerApprovalID"`
}

// Hours returns the booked duration in hours
func (b *Booking) Hours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}
