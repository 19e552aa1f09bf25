// Package webhook receives the results HARPA AI posts back and relays
// each payload, unchanged, as an output record.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPayload is returned when an inbound body is not JSON
var ErrInvalidPayload = errors.New("webhook: invalid payload")

// Record is one relayed webhook delivery. Payload is the inbound body,
// byte for byte.
type Record struct {
	ID         string          `json:"id"`
	WebhookID  string          `json:"webhookId"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Sink consumes relayed records
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// Relay checks that body is JSON and returns it unchanged. It does no
// schema validation and no transformation.
func Relay(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}
	payload := make(json.RawMessage, len(body))
	copy(payload, body)
	return payload, nil
}
