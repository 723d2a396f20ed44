package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chathub/internal/auth"
	"chathub/internal/commands"
	"chathub/internal/dispatch"
	"chathub/internal/webhook"
)

// webhookEnvelope is the minimal platform-agnostic shape ingested here.
// Full platform-specific parsing and signature verification live in the
// per-platform adapters, upstream of this handler.
type webhookEnvelope struct {
	EventID        string `json:"event_id"`
	EventType      string `json:"event_type"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
}

type WebhookHandler struct {
	ledger *webhook.Ledger
	bus    *dispatch.Bus
	logger *zap.Logger
}

func NewWebhookHandler(ledger *webhook.Ledger, bus *dispatch.Bus, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ledger: ledger, bus: bus, logger: logger}
}

// Receive ingests one webhook delivery. Deliveries are at-least-once, so
// the idempotency ledger gates processing: a replayed event id is
// accepted but produces no second side effect.
func (h *WebhookHandler) Receive(c *gin.Context) {
	platform := c.Param("platform")
	if !webhook.KnownPlatform(platform) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "UNKNOWN_PLATFORM", "message": "unknown platform"}})
		return
	}

	tenantID, err := uuid.Parse(c.Param("tenant"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_TENANT", "message": "invalid tenant id"}})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_BODY", "message": "unreadable body"}})
		return
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.EventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_BODY", "message": "missing event_id"}})
		return
	}

	ctx := c.Request.Context()
	check, err := h.ledger.CheckIdempotency(ctx, platform, env.EventID, tenantID, env.EventType, string(body))
	if err != nil {
		h.logger.Error("webhook: idempotency check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "INTERNAL_ERROR", "message": "internal error"}})
		return
	}
	if check.Duplicate {
		c.JSON(http.StatusOK, gin.H{"status": "accepted", "duplicate": true})
		return
	}

	conversationID, err := uuid.Parse(env.ConversationID)
	if err != nil {
		_ = h.ledger.MarkFailed(ctx, check.Record.ID, "invalid conversation_id")
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_BODY", "message": "invalid conversation_id"}})
		return
	}

	// The platform delivery acts on behalf of the tenant it targets.
	ctx = auth.WithPrincipal(ctx, auth.Principal{
		Subject:  "webhook:" + platform,
		TenantID: tenantID,
		Role:     auth.RoleMember,
	})

	res := h.bus.DispatchCommand(ctx, commands.IngestMessage{
		TenantID:        tenantID,
		ConversationID:  conversationID,
		SenderID:        env.SenderID,
		Body:            env.Text,
		Platform:        platform,
		ExternalEventID: env.EventID,
	})
	if res.Failed() {
		_ = h.ledger.MarkFailed(ctx, check.Record.ID, res.Err().Code)
		respond(c, http.StatusOK, res)
		return
	}

	if err := h.ledger.MarkProcessed(ctx, check.Record.ID); err != nil {
		h.logger.Error("webhook: failed to mark event processed",
			zap.String("record_id", check.Record.ID.String()), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted", "duplicate": false})
}
