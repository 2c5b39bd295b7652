package model

import (
	"time"
)

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentDue     PaymentStatus = "due"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentFailed  PaymentStatus = "failed"
)

var paymentStatuses = []PaymentStatus{PaymentDue, PaymentPaid, PaymentOverdue, PaymentFailed}

// Open reports whether the payment can still be settled or failed by the gateway
func (s PaymentStatus) Open() bool {
	return s == PaymentDue || s == PaymentOverdue
}

// OpenPaymentStatuses lists every status for which Open is true
func OpenPaymentStatuses() []PaymentStatus {
	var out []PaymentStatus
	for _, s := range paymentStatuses {
		if s.Open() {
			out = append(out, s)
		}
	}
	return out
}

// Payment represents a charge owed by a tenant
type Payment struct {
	ID                uint          `json:"id" gorm:"primaryKey"`
	TenantID          uint          `json:"tenant_id" gorm:"index;not null"`
	Amount            float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	DueDate           time.Time     `json:"due_date" gorm:"type:date;index;not null"`
	PaidDate          *time.Time    `json:"paid_date"`
	Status            PaymentStatus `json:"status" gorm:"type:varchar(50);index;not null"`
	StripeChargeID    *string       `json:"-" gorm:"type:varchar(255);uniqueIndex"`
	IsRecurring       bool          `json:"is_recurring" gorm:"not null"`
	PaymentMethodType string        `json:"payment_method_type,omitempty" gorm:"type:varchar(50)"`
	BookingID         *uint         `json:"booking_id,omitempty" gorm:"index"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
