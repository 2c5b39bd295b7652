package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/pkg/payment"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebhookOutcome describes what a verified gateway event did to the ledger
type WebhookOutcome string

const (
	WebhookApplied   WebhookOutcome = "applied"
	WebhookIgnored   WebhookOutcome = "ignored"
	WebhookUnmatched WebhookOutcome = "unmatched"
	WebhookDuplicate WebhookOutcome = "duplicate"
)

// PaymentService keeps the tenant payment ledger in step with the gateway
type PaymentService struct {
	db       *gorm.DB
	gateway  payment.Gateway
	currency string
	grace    time.Duration
	log      *zap.Logger
	Now      Clock
}

func NewPaymentService(db *gorm.DB, gateway payment.Gateway, currency string, grace time.Duration, log *zap.Logger) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{db: db, gateway: gateway, currency: currency, grace: grace, log: log}
}

// InitiateResult is handed back to the client to finish the charge
type InitiateResult struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    uint   `json:"payment_id"`
}

// ListPayments returns the payments of the caller's tenant, newest due date first
func (s *PaymentService) ListPayments(ctx context.Context, userID uint) ([]model.Payment, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var payments []model.Payment
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		return tx.Where("tenant_id = ?", tenant.ID).
			Order("due_date DESC").Order("id DESC").
			Find(&payments).Error
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// toMinor converts an amount to minor currency units, rejecting non positive values
func toMinor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperr.New(apperr.ErrValidation, "Amount must be a number")
	}
	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return 0, apperr.New(apperr.ErrValidation, "Amount must be greater than zero")
	}
	return minor, nil
}

// InitiatePayment creates a gateway intent and records a due payment that references it
func (s *PaymentService) InitiatePayment(ctx context.Context, userID uint, amount *float64) (*InitiateResult, error) {
	if amount == nil {
		return nil, apperr.New(apperr.ErrValidation, "Amount is required")
	}
	minor, err := toMinor(*amount)
	if err != nil {
		return nil, err
	}

	db := dbFor(ctx, s.db)
	tenant, err := tenantForUser(db, userID)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.IntentRequest{
		AmountMinor: minor,
		Currency:    s.currency,
		Metadata: map[string]string{
			"tenant_id":     strconv.FormatUint(uint64(tenant.ID), 10),
			"business_name": tenant.BusinessName,
		},
	})
	if err != nil {
		s.log.Error("Failed to create payment intent",
			zap.Uint("tenant_id", tenant.ID),
			zap.Error(err))
		prometheus.RecordPayment("gateway_error")
		return nil, apperr.New(apperr.ErrGateway, "payment processing failed")
	}

	now := s.Now.now()
	record := model.Payment{
		TenantID:          tenant.ID,
		Amount:            float64(minor) / 100,
		DueDate:           startOfDay(now),
		Status:            model.PaymentDue,
		StripeChargeID:    &intent.ID,
		PaymentMethodType: "card",
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordPayment("initiated")
	return &InitiateResult{ClientSecret: intent.ClientSecret, PaymentID: record.ID}, nil
}

// RecordPaymentInput is a manually entered charge
type RecordPaymentInput struct {
	TenantID    uint
	Amount      *float64
	DueDate     time.Time
	IsRecurring bool
}

// RecordPayment lets a manager put a due charge on a tenant's ledger
func (s *PaymentService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*model.Payment, error) {
	if in.Amount == nil {
		return nil, apperr.New(apperr.ErrValidation, "Amount is required")
	}
	minor, err := toMinor(*in.Amount)
	if err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, apperr.New(apperr.ErrValidation, "Due date is required")
	}

	record := model.Payment{
		TenantID:          in.TenantID,
		Amount:            float64(minor) / 100,
		DueDate:           startOfDay(in.DueDate),
		Status:            model.PaymentDue,
		IsRecurring:       in.IsRecurring,
		PaymentMethodType: "manual",
	}
	err = dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var tenant model.Tenant
		if err := findByID(tx, &tenant, in.TenantID, "Tenant"); err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordPayment("recorded")
	return &record, nil
}

// HandleGatewayEvent verifies a webhook and applies it to the matching payment.
// Repeated deliveries leave the ledger unchanged.
func (s *PaymentService) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error) {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.log.Warn("Webhook verification failed", zap.Error(err))
		prometheus.RecordWebhookEvent("unknown", "rejected")
		return "", apperr.New(apperr.ErrWebhookVerification, "Invalid webhook signature")
	}

	var next model.PaymentStatus
	switch event.Type {
	case payment.EventIntentSucceeded:
		next = model.PaymentPaid
	case payment.EventIntentFailed:
		next = model.PaymentFailed
	default:
		prometheus.RecordWebhookEvent(event.Type, string(WebhookIgnored))
		return WebhookIgnored, nil
	}

	outcome, err := s.applyEvent(ctx, event.IntentID, next)
	if err != nil {
		s.log.Error("Failed to apply webhook event",
			zap.String("event_id", event.ID),
			zap.String("intent_id", event.IntentID),
			zap.Error(err))
		return "", err
	}

	s.log.Info("Webhook event handled",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("intent_id", event.IntentID),
		zap.String("outcome", string(outcome)))
	prometheus.RecordWebhookEvent(event.Type, string(outcome))
	if outcome == WebhookApplied {
		prometheus.RecordPayment(string(next))
	}
	return outcome, nil
}

func (s *PaymentService) applyEvent(ctx context.Context, intentID string, next model.PaymentStatus) (WebhookOutcome, error) {
	if intentID == "" {
		return WebhookUnmatched, nil
	}

	var outcome WebhookOutcome
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": next}
		if next == model.PaymentPaid {
			updates["paid_date"] = s.Now.now()
		}

		// only open rows move, so a redelivered event is a no-op
		res := tx.Model(&model.Payment{}).
			Where("stripe_charge_id = ? AND status IN ?", intentID, model.OpenPaymentStatuses()).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			outcome = WebhookApplied
			return nil
		}

		var existing model.Payment
		err := tx.Where("stripe_charge_id = ?", intentID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = WebhookUnmatched
			return nil
		}
		if err != nil {
			return err
		}
		outcome = WebhookDuplicate
		return nil
	})
	return outcome, err
}

// InitiateBookingPayment charges an approved booking at the room's hourly rate
func (s *PaymentService) InitiateBookingPayment(ctx context.Context, userID, bookingID uint) (*InitiateResult, error) {
	db := dbFor(ctx, s.db)
	tenant, err := tenantForUser(db, userID)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := findByID(db.Preload("Room"), &booking, bookingID, "Booking"); err != nil {
		return nil, err
	}
	if booking.TenantID != tenant.ID {
		return nil, apperr.New(apperr.ErrForbidden, "Unauthorized access")
	}
	if booking.Status != model.BookingApproved {
		return nil, apperr.New(apperr.ErrInvalidTransition, "Only approved bookings can be paid")
	}
	if booking.StripePaymentIntentID != nil {
		return nil, apperr.New(apperr.ErrConflict, "Booking payment already initiated")
	}
	if booking.Room == nil {
		return nil, apperr.New(apperr.ErrNotFound, "Room not found")
	}

	minor, err := toMinor(booking.Room.HourlyRate * booking.Hours())
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.IntentRequest{
		AmountMinor: minor,
		Currency:    s.currency,
		Metadata: map[string]string{
			"tenant_id":     strconv.FormatUint(uint64(tenant.ID), 10),
			"business_name": tenant.BusinessName,
			"booking_id":    strconv.FormatUint(uint64(booking.ID), 10),
		},
	})
	if err != nil {
		s.log.Error("Failed to create booking payment intent",
			zap.Uint("booking_id", booking.ID),
			zap.Error(err))
		prometheus.RecordPayment("gateway_error")
		return nil, apperr.New(apperr.ErrGateway, "payment processing failed")
	}

	record := model.Payment{
		TenantID:          tenant.ID,
		Amount:            float64(minor) / 100,
		DueDate:           startOfDay(s.Now.now()),
		Status:            model.PaymentDue,
		StripeChargeID:    &intent.ID,
		PaymentMethodType: "card",
		BookingID:         &booking.ID,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND stripe_payment_intent_id IS NULL", booking.ID).
			Update("stripe_payment_intent_id", intent.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.ErrConflict, "Booking payment already initiated")
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordPayment("initiated")
	return &InitiateResult{ClientSecret: intent.ClientSecret, PaymentID: record.ID}, nil
}
