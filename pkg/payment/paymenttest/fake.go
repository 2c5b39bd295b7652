// Package paymenttest provides an in-memory payment gateway for tests.
package paymenttest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/suteetoe/tenantportal/pkg/payment"
)

// ValidSignature is the only signature the fake gateway accepts
const ValidSignature = "t=1,v1=valid"

// Gateway records created intents and accepts webhooks signed with ValidSignature
type Gateway struct {
	mu        sync.Mutex
	Requests  []payment.IntentRequest
	CreateErr error
	next      int
}

// CreateIntent returns sequential intent ids pi_test_1, pi_test_2, ...
func (g *Gateway) CreateIntent(_ context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.Requests = append(g.Requests, req)
	g.next++
	id := fmt.Sprintf("pi_test_%d", g.next)
	return &payment.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// VerifyWebhook decodes {"id","type","data":{"object":{"id"}}} payloads
func (g *Gateway) VerifyWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != ValidSignature {
		return nil, payment.ErrInvalidSignature
	}
	var body struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}
	return &payment.Event{ID: body.ID, Type: body.Type, IntentID: body.Data.Object.ID}, nil
}

// EventPayload builds a webhook body the fake gateway understands
func EventPayload(eventType, intentID string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_%s","type":%q,"data":{"object":{"id":%q}}}`, intentID, eventType, intentID))
}
