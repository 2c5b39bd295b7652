package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/suteetoe/tenantportal/pkg/config"
)

// StripeGateway implements Gateway on top of the Stripe API
type StripeGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
	currency      string
}

// NewStripeGateway creates a gateway using the configured secret key
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
	}
}

// CreateIntent creates a PaymentIntent for the amount in minor units
func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyWebhook checks the Stripe-Signature header and decodes the event.
// Verification fails closed when no webhook secret is configured.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	if g.webhookSecret == "" || signature == "" {
		return nil, ErrInvalidSignature
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if strings.HasPrefix(out.Type, "payment_intent.") && ev.Data != nil {
		if id, ok := ev.Data.Object["id"].(string); ok {
			out.IntentID = id
		}
	}
	return out, nil
}
