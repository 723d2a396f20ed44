package webhook

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chathub/internal/database"
	apperrors "chathub/pkg/errors"
)

type Repository interface {
	GetByKey(ctx context.Context, platform, externalEventID string, tenantID uuid.UUID) (Record, error)
	Insert(ctx context.Context, rec *Record) error
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByKey(ctx context.Context, platform, externalEventID string, tenantID uuid.UUID) (Record, error) {
	querier := database.GetTx(ctx, r.db)
	var rec Record
	err := querier.QueryRowContext(ctx, `
        SELECT id, platform, tenant_id, external_event_id, event_type, payload, received_at, processed_at, processing_error
        FROM webhook_events
        WHERE platform = $1 AND external_event_id = $2 AND tenant_id = $3
    `, platform, externalEventID, tenantID).Scan(
		&rec.ID,
		&rec.Platform,
		&rec.TenantID,
		&rec.ExternalEventID,
		&rec.EventType,
		&rec.Payload,
		&rec.ReceivedAt,
		&rec.ProcessedAt,
		&rec.ProcessingError,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperrors.ErrNotFound
		}
		return Record{}, apperrors.Wrap(err, "failed to get webhook event")
	}
	return rec, nil
}

// Insert persists a first-seen event. A unique-constraint rejection on
// (platform, external_event_id, tenant_id) is surfaced as
// ErrAlreadyExists so the ledger can resolve the race to "duplicate".
func (r *repository) Insert(ctx context.Context, rec *Record) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
        INSERT INTO webhook_events (id, platform, tenant_id, external_event_id, event_type, payload, received_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `,
		rec.ID,
		rec.Platform,
		rec.TenantID,
		rec.ExternalEventID,
		rec.EventType,
		rec.Payload,
		rec.ReceivedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(err, "failed to insert webhook event")
	}
	return nil
}

// MarkProcessed is an idempotent overwrite; calling it again on an
// already processed record is harmless.
func (r *repository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
        UPDATE webhook_events
        SET processed_at = NOW(), processing_error = NULL
        WHERE id = $1
    `, id)
	return err
}

// MarkFailed is an idempotent overwrite of the processing error.
func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
        UPDATE webhook_events
        SET processing_error = $1
        WHERE id = $2
    `, errMsg, id)
	return err
}
