package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chathub/internal/database"
	"chathub/internal/domain/message"
	apperrors "chathub/pkg/errors"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *message.Message) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
        INSERT INTO messages (id, tenant_id, conversation_id, sender_id, body, platform, external_event_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, m.ID, m.TenantID, m.ConversationID, m.SenderID, m.Body, m.Platform, m.ExternalEventID, m.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	querier := database.GetTx(ctx, r.db)
	var m message.Message
	err := querier.QueryRowContext(ctx, `
        SELECT id, tenant_id, conversation_id, sender_id, body, platform, external_event_id, created_at
        FROM messages
        WHERE id = $1
    `, id).Scan(
		&m.ID,
		&m.TenantID,
		&m.ConversationID,
		&m.SenderID,
		&m.Body,
		&m.Platform,
		&m.ExternalEventID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return message.Message{}, apperrors.ErrNotFound
		}
		return message.Message{}, apperrors.Wrap(err, "failed to get message")
	}
	return m, nil
}
