package model

import (
	"time"
)

// ContactInfo is the structured contact block of a tenant profile
type ContactInfo struct {
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Tenant represents the business leasing a suite in the building
type Tenant struct {
	ID                        uint        `json:"id" gorm:"primaryKey"`
	UserID                    *uint       `json:"user_id,omitempty" gorm:"uniqueIndex"`
	BusinessName              string      `json:"business_name" gorm:"type:varchar(255);not null"`
	SuiteNumber               string      `json:"suite_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	ContactInfo               ContactInfo `json:"contact_info" gorm:"type:jsonb;serializer:json"`
	EmailNotificationsEnabled bool        `json:"email_notifications_enabled" gorm:"not null"`
	StripeCustomerID          *string     `json:"-" gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt                 time.Time   `json:"created_at"`
	UpdatedAt                 time.Time   `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}
