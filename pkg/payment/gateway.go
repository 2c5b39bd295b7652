// Package payment talks to the hosted payment provider.
package payment

import (
	"context"
	"errors"
)

// Event types the ledger reacts to
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// ErrInvalidSignature is returned when a webhook payload cannot be verified
var ErrInvalidSignature = errors.New("invalid webhook signature")

// IntentRequest describes a charge to create at the provider
type IntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

// Intent is the provider handle of an in-progress charge
type Intent struct {
	ID           string
	ClientSecret string
}

// Event is a verified webhook notification
type Event struct {
	ID       string
	Type     string
	IntentID string
}

// Gateway is the payment provider capability used by the ledger
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
