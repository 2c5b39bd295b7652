package model

import (
	"time"
)

// Recipient scopes of a message board post
const (
	RecipientAll     = "all"
	RecipientTenant  = "tenant"
	RecipientManager = "manager"
)

// Message is a message board post
type Message struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	SenderID      uint       `json:"sender_id" gorm:"index;not null"`
	RecipientType string     `json:"recipient_type" gorm:"type:varchar(50);not null"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	IsUrgent      bool       `json:"is_urgent" gorm:"not null"`
	IsImportant   bool       `json:"is_important" gorm:"not null"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
	ExpiresAt     *time.Time `json:"expires_at"`

	Sender *User `json:"-" gorm:"foreignKey:SenderID"`
}
