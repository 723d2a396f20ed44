package outbox

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"chathub/internal/events"
)

// Processor drains due outbox records on a fixed period. Exactly one
// active instance is assumed; there is no claim step guarding against
// concurrent drainers.
type Processor struct {
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
	metrics   *Metrics
	clock     func() time.Time
	batchSize int
	interval  time.Duration
}

func NewProcessor(store Store, publisher events.Publisher, logger *zap.Logger, metrics *Metrics, batchSize int, interval time.Duration) *Processor {
	return &Processor{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     time.Now,
		batchSize: batchSize,
		interval:  interval,
	}
}

func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch drains one bounded batch. Each record fails or succeeds
// individually so a poisoned record cannot block the rest of the batch.
func (p *Processor) ProcessBatch(ctx context.Context) {
	batch, err := p.store.GetDue(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("outbox: failed to load due records", zap.Error(err))
		return
	}

	for _, rec := range batch {
		if err := p.deliver(ctx, rec); err != nil {
			p.fail(ctx, rec, err)
			continue
		}
		if err := p.store.MarkProcessed(ctx, rec.ID); err != nil {
			p.logger.Error("outbox: failed to mark record processed",
				zap.String("record_id", rec.ID.String()), zap.Error(err))
			continue
		}
		if p.metrics != nil {
			p.metrics.Processed.Inc()
		}
	}
}

func (p *Processor) deliver(ctx context.Context, rec Record) error {
	env := events.Envelope{
		EventID:       rec.ID.String(),
		EventType:     rec.EventType,
		AggregateType: rec.AggregateType,
		AggregateID:   rec.AggregateID.String(),
		OccurredAt:    rec.CreatedAt.UTC(),
		Payload:       json.RawMessage(rec.Payload),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, routeChannel(rec), payload)
}

// fail reschedules the record with backoff, or abandons it permanently
// once the retry budget is exhausted.
func (p *Processor) fail(ctx context.Context, rec Record, cause error) {
	retryCount := rec.RetryCount + 1
	nextRetryAt := NextRetryAt(p.clock(), retryCount)

	if err := p.store.MarkFailed(ctx, rec.ID, cause.Error(), retryCount, nextRetryAt); err != nil {
		p.logger.Error("outbox: failed to mark record failed",
			zap.String("record_id", rec.ID.String()), zap.Error(err))
		return
	}

	if nextRetryAt != nil {
		if p.metrics != nil {
			p.metrics.Retried.Inc()
		}
		p.logger.Warn("outbox: delivery failed, rescheduled",
			zap.String("record_id", rec.ID.String()),
			zap.Int("retry_count", retryCount),
			zap.Time("next_retry_at", *nextRetryAt),
			zap.Error(cause))
		return
	}

	rec.RetryCount = retryCount
	if err := p.store.InsertDeadLetter(ctx, rec, cause.Error()); err != nil {
		p.logger.Error("outbox: failed to dead-letter abandoned record",
			zap.String("record_id", rec.ID.String()), zap.Error(err))
	}
	if p.metrics != nil {
		p.metrics.Abandoned.Inc()
	}
	p.logger.Error("outbox: record abandoned after exhausting retries",
		zap.String("record_id", rec.ID.String()),
		zap.String("event_type", rec.EventType),
		zap.Error(cause))
}

func routeChannel(rec Record) string {
	switch rec.AggregateType {
	case "message":
		return "channel:message:" + rec.AggregateID.String()
	case "tenant":
		return "channel:tenant:" + rec.AggregateID.String()
	default:
		return "channel:system:outbox"
	}
}
