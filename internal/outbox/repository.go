package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"chathub/internal/database"
	"chathub/internal/domain"
	apperrors "chathub/pkg/errors"
)

// Store is the persistence surface the processor drains records through.
type Store interface {
	GetDue(ctx context.Context, limit int) ([]Record, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryCount int, nextRetryAt *time.Time) error
	InsertDeadLetter(ctx context.Context, rec Record, reason string) error
}

type repository struct {
	db *sql.DB
}

// NewRepository creates the outbox repository. It satisfies both Store
// (processor side) and database.OutboxStore (commit side).
func NewRepository(db *sql.DB) *repository {
	return &repository{db: db}
}

// StageEvents serializes pending domain events into outbox rows. Writes
// go through database.GetTx so they join the transaction active on ctx;
// a rollback discards them together with the entity change.
func (r *repository) StageEvents(ctx context.Context, events []domain.Event) error {
	querier := database.GetTx(ctx, r.db)
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal outbox payload")
		}
		_, err = querier.ExecContext(ctx, `
        INSERT INTO outbox_events (id, event_type, aggregate_type, aggregate_id, payload, created_at, retry_count)
        VALUES ($1,$2,$3,$4,$5,$6,0)
    `, e.ID, e.Name, e.AggregateType, e.AggregateID, payload, e.OccurredAt)
		if err != nil {
			return apperrors.Wrap(err, "failed to insert outbox event")
		}
	}
	return nil
}

// GetDue selects unprocessed records that are due for a first or retried
// attempt, oldest first. Abandoned records (null next_retry_at after a
// failure) never match.
func (r *repository) GetDue(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, event_type, aggregate_type, aggregate_id, payload, created_at, processed_at, last_error, retry_count, next_retry_at
        FROM outbox_events
        WHERE processed_at IS NULL
          AND ((retry_count = 0 AND next_retry_at IS NULL) OR next_retry_at <= NOW())
        ORDER BY created_at ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to select due outbox events")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.EventType,
			&rec.AggregateType,
			&rec.AggregateID,
			&rec.Payload,
			&rec.CreatedAt,
			&rec.ProcessedAt,
			&rec.LastError,
			&rec.RetryCount,
			&rec.NextRetryAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox events")
	}
	return records, nil
}

// MarkProcessed stamps processed_at, making the record terminal. The
// guard keeps an already-processed record untouched.
func (r *repository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE outbox_events
        SET processed_at = NOW(), last_error = NULL
        WHERE id = $1 AND processed_at IS NULL
    `, id)
	return err
}

// MarkFailed records the failure and reschedules. A nil nextRetryAt
// abandons the record permanently.
func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryCount int, nextRetryAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE outbox_events
        SET retry_count = $1, last_error = $2, next_retry_at = $3
        WHERE id = $4 AND processed_at IS NULL
    `, retryCount, errMsg, nextRetryAt, id)
	return err
}

// InsertDeadLetter copies a permanently abandoned record into the
// dead-letter table for inspection and replay tooling.
func (r *repository) InsertDeadLetter(ctx context.Context, rec Record, reason string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO outbox_dead_letters (id, event_type, aggregate_type, aggregate_id, payload, created_at, retry_count, reason, dead_lettered_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        ON CONFLICT (id) DO NOTHING
    `, rec.ID, rec.EventType, rec.AggregateType, rec.AggregateID, rec.Payload, rec.CreatedAt, rec.RetryCount, reason)
	return err
}
