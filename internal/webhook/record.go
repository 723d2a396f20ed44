// Package webhook implements the idempotency ledger that deduplicates
// at-least-once webhook deliveries from external messaging platforms.
package webhook

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Supported source platforms.
const (
	PlatformTelegram = "telegram"
	PlatformSlack    = "slack"
	PlatformWhatsApp = "whatsapp"
)

// KnownPlatform reports whether platform is one we ingest from.
func KnownPlatform(platform string) bool {
	switch platform {
	case PlatformTelegram, PlatformSlack, PlatformWhatsApp:
		return true
	default:
		return false
	}
}

// Record is one previously-seen external event. The tuple
// (platform, external_event_id, tenant_id) is unique, enforced by a
// storage-level constraint so concurrent duplicate inserts cannot both
// win. Payload keeps the verbatim raw body for audit and reprocessing.
type Record struct {
	ID              uuid.UUID
	Platform        string
	TenantID        uuid.UUID
	ExternalEventID string
	EventType       string
	Payload         string
	ReceivedAt      time.Time
	ProcessedAt     *time.Time
	ProcessingError sql.NullString
}
