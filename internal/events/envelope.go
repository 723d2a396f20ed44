// Package events defines the wire envelope published for drained outbox
// records and the publisher contract the processor delivers through.
package events

import (
	"context"
	"encoding/json"
	"time"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Publisher delivers an envelope to downstream consumers. Delivery is
// at-least-once; consumers deduplicate on event_id.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
