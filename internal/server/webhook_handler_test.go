package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chathub/internal/dispatch"
	"chathub/internal/result"
	"chathub/internal/webhook"
	apperrors "chathub/pkg/errors"
)

type memoryWebhookRepo struct {
	rows      map[string]webhook.Record
	processed map[uuid.UUID]bool
	failed    map[uuid.UUID]string
}

func newMemoryWebhookRepo() *memoryWebhookRepo {
	return &memoryWebhookRepo{
		rows:      make(map[string]webhook.Record),
		processed: make(map[uuid.UUID]bool),
		failed:    make(map[uuid.UUID]string),
	}
}

func webhookKey(platform, externalEventID string, tenantID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", platform, externalEventID, tenantID)
}

func (r *memoryWebhookRepo) GetByKey(_ context.Context, platform, externalEventID string, tenantID uuid.UUID) (webhook.Record, error) {
	rec, ok := r.rows[webhookKey(platform, externalEventID, tenantID)]
	if !ok {
		return webhook.Record{}, apperrors.ErrNotFound
	}
	return rec, nil
}

func (r *memoryWebhookRepo) Insert(_ context.Context, rec *webhook.Record) error {
	key := webhookKey(rec.Platform, rec.ExternalEventID, rec.TenantID)
	if _, exists := r.rows[key]; exists {
		return apperrors.ErrAlreadyExists
	}
	r.rows[key] = *rec
	return nil
}

func (r *memoryWebhookRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed[id] = true
	return nil
}

func (r *memoryWebhookRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.failed[id] = errMsg
	return nil
}

type webhookTestEnv struct {
	router   *gin.Engine
	repo     *memoryWebhookRepo
	ingested *int
}

func newWebhookTestEnv(t *testing.T, handlerResult result.Result[any]) webhookTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ingested := 0
	bus := dispatch.NewBus(nil, nil)
	bus.RegisterCommand("message.ingest", func(ctx context.Context, req any) result.Result[any] {
		ingested++
		return handlerResult
	})

	repo := newMemoryWebhookRepo()
	h := NewWebhookHandler(webhook.NewLedger(repo, zap.NewNop()), bus, zap.NewNop())

	router := gin.New()
	router.POST("/webhooks/:platform/:tenant", h.Receive)
	return webhookTestEnv{router: router, repo: repo, ingested: &ingested}
}

func postWebhook(router *gin.Engine, platform, tenant, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+platform+"/"+tenant, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func webhookBody(eventID string) string {
	return fmt.Sprintf(`{
		"event_id": %q,
		"event_type": "message",
		"conversation_id": %q,
		"sender_id": "telegram:12345",
		"text": "hello"
	}`, eventID, uuid.New())
}

func TestReceive_FirstDeliveryIsProcessed(t *testing.T) {
	env := newWebhookTestEnv(t, result.Ok[any](nil))
	tenantID := uuid.New().String()

	w := postWebhook(env.router, "telegram", tenantID, webhookBody("evt-1"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	assert.Equal(t, false, resp["duplicate"])
	assert.Equal(t, 1, *env.ingested)
	assert.Len(t, env.repo.processed, 1)
}

// A replayed delivery is accepted both times but only the first produces
// a side effect and only one ledger row survives.
func TestReceive_ReplayIsAcceptedWithoutSecondSideEffect(t *testing.T) {
	env := newWebhookTestEnv(t, result.Ok[any](nil))
	tenantID := uuid.New().String()
	body := webhookBody("evt-2")

	first := postWebhook(env.router, "telegram", tenantID, body)
	second := postWebhook(env.router, "telegram", tenantID, body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	assert.Equal(t, true, resp["duplicate"])

	assert.Equal(t, 1, *env.ingested, "the replay must not dispatch a second command")
	assert.Len(t, env.repo.rows, 1, "exactly one ledger row survives")
}

func TestReceive_UnknownPlatformIs404(t *testing.T) {
	env := newWebhookTestEnv(t, result.Ok[any](nil))

	w := postWebhook(env.router, "smoke-signals", uuid.New().String(), webhookBody("evt-3"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, *env.ingested)
}

func TestReceive_InvalidTenantIs400(t *testing.T) {
	env := newWebhookTestEnv(t, result.Ok[any](nil))

	w := postWebhook(env.router, "telegram", "not-a-uuid", webhookBody("evt-4"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, *env.ingested)
}

func TestReceive_MissingEventIDIs400(t *testing.T) {
	env := newWebhookTestEnv(t, result.Ok[any](nil))

	w := postWebhook(env.router, "telegram", uuid.New().String(), `{"event_type":"message"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, *env.ingested)
	assert.Empty(t, env.repo.rows, "a rejected body must not occupy the ledger")
}

func TestReceive_DispatchFailureMarksLedgerRowFailed(t *testing.T) {
	env := newWebhookTestEnv(t, result.Fail[any](apperrors.Conflict("CONFLICT", "message already ingested")))
	tenantID := uuid.New().String()

	w := postWebhook(env.router, "telegram", tenantID, webhookBody("evt-5"))

	assert.Equal(t, http.StatusConflict, w.Code)
	require.Len(t, env.repo.failed, 1)
	for _, code := range env.repo.failed {
		assert.Equal(t, "CONFLICT", code)
	}
	assert.Empty(t, env.repo.processed)
}
