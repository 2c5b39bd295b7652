package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

// maximum accepted webhook body
const maxWebhookBytes = 64 << 10

type paymentResponse struct {
	ID                uint    `json:"id"`
	Amount            float64 `json:"amount"`
	DueDate           string  `json:"due_date"`
	PaidDate          *string `json:"paid_date"`
	Status            string  `json:"status"`
	IsRecurring       bool    `json:"is_recurring"`
	PaymentMethodType string  `json:"payment_method_type,omitempty"`
	BookingID         *uint   `json:"booking_id,omitempty"`
}

func newPaymentResponse(p model.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		Amount:            p.Amount,
		DueDate:           p.DueDate.UTC().Format(dateLayout),
		PaidDate:          formatTime(p.PaidDate),
		Status:            string(p.Status),
		IsRecurring:       p.IsRecurring,
		PaymentMethodType: p.PaymentMethodType,
		BookingID:         p.BookingID,
	}
}

func (h *Handler) ListPayments(c echo.Context) error {
	payments, err := h.Payments.ListPayments(c.Request().Context(), identity(c).UserID)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, newPaymentResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) InitiatePayment(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Amount *float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	res, err := h.Payments.InitiatePayment(c.Request().Context(), identity(c).UserID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Payment initiated", zap.Uint("payment_id", res.PaymentID))
	return c.JSON(http.StatusOK, res)
}

// PaymentWebhook receives gateway notifications. Verified events always get a
// 200 so the gateway stops retrying them.
func (h *Handler) PaymentWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
	if err != nil {
		return badRequest(c, err)
	}

	outcome, err := h.Payments.HandleGatewayEvent(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return respondError(c, err)
	}

	log.Debug("Webhook processed", zap.String("outcome", string(outcome)))
	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

func (h *Handler) RecordPayment(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TenantID    uint     `json:"tenant_id"`
		Amount      *float64 `json:"amount"`
		DueDate     string   `json:"due_date"`
		IsRecurring bool     `json:"is_recurring"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if req.TenantID == 0 || req.DueDate == "" {
		return respondError(c, apperr.New(apperr.ErrValidation, "Missing required fields"))
	}
	due, err := service.ParseDate(req.DueDate)
	if err != nil {
		return respondError(c, err)
	}

	p, err := h.Payments.RecordPayment(c.Request().Context(), service.RecordPaymentInput{
		TenantID:    req.TenantID,
		Amount:      req.Amount,
		DueDate:     due,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Payment recorded", zap.Uint("payment_id", p.ID), zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusCreated, newPaymentResponse(*p))
}

func (h *Handler) PayBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.Payments.InitiateBookingPayment(c.Request().Context(), identity(c).UserID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
