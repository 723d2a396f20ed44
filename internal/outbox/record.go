// Package outbox implements the transactional outbox: domain events are
// persisted atomically with the state change that produced them and
// drained asynchronously by a background processor with bounded
// exponential-backoff retry.
package outbox

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Record is a durably queued domain event awaiting delivery.
//
// Once ProcessedAt is set the record is terminal and never retried.
// Once RetryCount exceeds MaxRetries the record is permanently abandoned
// and NextRetryAt is null.
type Record struct {
	ID            uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
	ProcessedAt   *time.Time
	LastError     sql.NullString
	RetryCount    int
	NextRetryAt   *time.Time
}

// MaxRetries is the delivery retry budget. A record failing its
// MaxRetries-th retry is never scheduled again.
const MaxRetries = 6

// NextRetryAt computes the backoff schedule for a failed attempt:
// now + 2^(retryCount-1) minutes for retryCount 1..MaxRetries, so
// 1, 2, 4, 8, 16, 32 minutes. Beyond the budget it returns nil,
// meaning the record is permanently abandoned.
func NextRetryAt(now time.Time, retryCount int) *time.Time {
	if retryCount < 1 || retryCount > MaxRetries {
		return nil
	}
	at := now.Add(time.Duration(1<<(retryCount-1)) * time.Minute)
	return &at
}
