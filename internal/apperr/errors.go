// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrAuth                = errors.New("invalid email or password")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("unauthorized access")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrBookingOverlap      = errors.New("room already booked for that time")
	ErrGateway             = errors.New("payment provider error")
	ErrWebhookVerification = errors.New("webhook signature verification failed")
)

type detailed struct {
	kind error
	msg  string
}

func (e *detailed) Error() string { return e.msg }

func (e *detailed) Unwrap() error { return e.kind }

// New returns an error of the given kind whose message is shown to clients as is.
func New(kind error, format string, args ...interface{}) error {
	return &detailed{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the status code returned to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrWebhookVerification):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrBookingOverlap),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client facing message for err. Anything that maps to a
// 5xx status gets a generic message so provider and driver details stay in logs.
func Message(err error) string {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		if errors.Is(err, ErrGateway) {
			return "payment processing failed"
		}
		return "internal server error"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.Error()
	}
	return err.Error()
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers that do not implement error translation
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
