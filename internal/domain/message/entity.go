package message

import (
	"time"

	"github.com/google/uuid"

	"chathub/internal/domain"
)

const AggregateType = "message"

const (
	EventTypeMessageIngested = "message.ingested"
)

// Message is a chat message ingested from an external platform into the
// unified store.
type Message struct {
	domain.Entity

	ID              uuid.UUID
	TenantID        uuid.UUID
	ConversationID  uuid.UUID
	SenderID        string
	Body            string
	Platform        string
	ExternalEventID string
	CreatedAt       time.Time
}

type IngestedPayload struct {
	MessageID      string `json:"message_id"`
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Platform       string `json:"platform"`
}

// New creates a message and raises message.ingested.
func New(tenantID, conversationID uuid.UUID, senderID, body, platform, externalEventID string) *Message {
	m := &Message{
		ID:              uuid.New(),
		TenantID:        tenantID,
		ConversationID:  conversationID,
		SenderID:        senderID,
		Body:            body,
		Platform:        platform,
		ExternalEventID: externalEventID,
		CreatedAt:       time.Now().UTC(),
	}
	m.Raise(EventTypeMessageIngested, AggregateType, m.ID, IngestedPayload{
		MessageID:      m.ID.String(),
		TenantID:       tenantID.String(),
		ConversationID: conversationID.String(),
		SenderID:       senderID,
		Platform:       platform,
	})
	return m
}
