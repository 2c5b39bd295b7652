package model

import (
	"time"
)

// Roles an account can hold. A role is fixed when the account is created.
const (
	RoleTenant  = "tenant"
	RoleManager = "manager"
)

// User represents an account that can sign in to the portal
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manager holds the property manager profile of a manager account
type Manager struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Name   string `json:"name" gorm:"type:varchar(255);not null"`
	Email  string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name used by the existing database
func (Manager) TableName() string {
	return "property_managers"
}
