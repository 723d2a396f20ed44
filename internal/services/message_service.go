package services

import (
	"context"
	"errors"
	"time"

	"chathub/internal/commands"
	"chathub/internal/database"
	"chathub/internal/domain/message"
	"chathub/internal/repository"
	"chathub/internal/result"
	apperrors "chathub/pkg/errors"
)

type MessageView struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageService struct {
	repo repository.MessageRepository
}

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// IngestMessage handles message.ingest. The raised message.ingested
// event is committed into the outbox together with the row.
func (s *MessageService) IngestMessage(ctx context.Context, req any) result.Result[any] {
	cmd := req.(commands.IngestMessage)

	m := message.New(cmd.TenantID, cmd.ConversationID, cmd.SenderID, cmd.Body, cmd.Platform, cmd.ExternalEventID)
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return result.Fail[any](apperrors.Conflict("CONFLICT", "message already ingested"))
		}
		return result.Fail[any](apperrors.Internal("MESSAGE_CREATE_FAILED", err.Error()))
	}
	database.Track(ctx, m)

	return result.Ok[any](MessageView{
		ID:             m.ID.String(),
		TenantID:       m.TenantID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID,
		Platform:       m.Platform,
		CreatedAt:      m.CreatedAt,
	})
}
