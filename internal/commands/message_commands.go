package commands

import (
	"github.com/google/uuid"
	"github.com/jellydator/validation"

	"chathub/internal/auth"
	apperrors "chathub/pkg/errors"
)

// IngestMessage admits one chat message from an external platform into
// the unified store.
type IngestMessage struct {
	TenantID        uuid.UUID `json:"tenant_id"`
	ConversationID  uuid.UUID `json:"conversation_id"`
	SenderID        string    `json:"sender_id"`
	Body            string    `json:"body"`
	Platform        string    `json:"platform"`
	ExternalEventID string    `json:"external_event_id"`
}

func (IngestMessage) CommandType() string { return "message.ingest" }

func (c IngestMessage) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TenantID, validation.By(requiredUUID)),
		validation.Field(&c.ConversationID, validation.By(requiredUUID)),
		validation.Field(&c.SenderID, validation.Required, validation.Length(1, 128)),
		validation.Field(&c.Body, validation.Required, validation.Length(1, 8192)),
		validation.Field(&c.Platform, validation.Required, validation.In("telegram", "slack", "whatsapp", "api")),
	)
}

// Authorize requires the caller to belong to the target tenant.
func (c IngestMessage) Authorize(p auth.Principal) error {
	if p.Role == auth.RoleAdmin {
		return nil
	}
	if p.TenantID != c.TenantID {
		return apperrors.ErrForbidden
	}
	return nil
}
