package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/commands"
	"chathub/internal/domain/message"
	apperrors "chathub/pkg/errors"
)

type fakeMessageRepo struct {
	created   []*message.Message
	createErr error
}

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	for _, m := range r.created {
		if m.ID == id {
			return *m, nil
		}
	}
	return message.Message{}, apperrors.ErrNotFound
}

func ingestCmd() commands.IngestMessage {
	return commands.IngestMessage{
		TenantID:        uuid.New(),
		ConversationID:  uuid.New(),
		SenderID:        "telegram:12345",
		Body:            "hello there",
		Platform:        "telegram",
		ExternalEventID: "evt-100",
	}
}

func TestIngestMessage_Success(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo)
	cmd := ingestCmd()

	res := svc.IngestMessage(context.Background(), cmd)

	require.False(t, res.Failed())
	view, ok := res.Value().(MessageView)
	require.True(t, ok)
	assert.Equal(t, cmd.TenantID.String(), view.TenantID)
	assert.Equal(t, cmd.ConversationID.String(), view.ConversationID)
	assert.Equal(t, "telegram", view.Platform)
	require.Len(t, repo.created, 1)
}

func TestIngestMessage_RaisesIngestedEvent(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo)

	res := svc.IngestMessage(context.Background(), ingestCmd())
	require.False(t, res.Failed())

	events := repo.created[0].PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, message.EventTypeMessageIngested, events[0].Name)
	assert.Equal(t, message.AggregateType, events[0].AggregateType)
}

func TestIngestMessage_DuplicateIsConflict(t *testing.T) {
	repo := &fakeMessageRepo{createErr: apperrors.ErrAlreadyExists}
	svc := NewMessageService(repo)

	res := svc.IngestMessage(context.Background(), ingestCmd())

	require.True(t, res.Failed())
	assert.Equal(t, "CONFLICT", res.Err().Code)
	assert.Equal(t, apperrors.CategoryConflict, res.Err().Category)
}
