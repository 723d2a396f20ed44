package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "chathub/pkg/errors"
)

// CheckResult reports whether an event was seen before. Record is the
// surviving ledger row either way.
type CheckResult struct {
	Duplicate bool
	Record    Record
}

// Ledger deduplicates inbound external events. It is race-safe without a
// distributed lock: check, then insert, then treat a unique-constraint
// rejection as "a concurrent duplicate won". The losing side pays one
// wasted insert attempt.
type Ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger *zap.Logger) *Ledger {
	return &Ledger{repo: repo, logger: logger}
}

// CheckIdempotency admits an event for processing on first sight and
// reports a duplicate otherwise.
func (l *Ledger) CheckIdempotency(ctx context.Context, platform, externalEventID string, tenantID uuid.UUID, eventType, payload string) (CheckResult, error) {
	existing, err := l.repo.GetByKey(ctx, platform, externalEventID, tenantID)
	if err == nil {
		return CheckResult{Duplicate: true, Record: existing}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return CheckResult{}, err
	}

	rec := Record{
		ID:              uuid.New(),
		Platform:        platform,
		TenantID:        tenantID,
		ExternalEventID: externalEventID,
		EventType:       eventType,
		Payload:         payload,
		ReceivedAt:      time.Now().UTC(),
	}
	err = l.repo.Insert(ctx, &rec)
	if err == nil {
		return CheckResult{Duplicate: false, Record: rec}, nil
	}
	if !errors.Is(err, apperrors.ErrAlreadyExists) {
		return CheckResult{}, err
	}

	// Lost a concurrent-insert race; the constraint guarantees exactly
	// one surviving row. Re-query and report it as the duplicate.
	l.logger.Debug("webhook: concurrent duplicate insert resolved",
		zap.String("platform", platform),
		zap.String("external_event_id", externalEventID))
	existing, err = l.repo.GetByKey(ctx, platform, externalEventID, tenantID)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Duplicate: true, Record: existing}, nil
}

// MarkProcessed stamps the ledger row after downstream processing.
func (l *Ledger) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return l.repo.MarkProcessed(ctx, id)
}

// MarkFailed records a downstream processing error on the ledger row.
func (l *Ledger) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return l.repo.MarkFailed(ctx, id, errMsg)
}
