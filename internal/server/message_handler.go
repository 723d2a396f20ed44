package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chathub/internal/auth"
	"chathub/internal/commands"
	"chathub/internal/dispatch"
)

type MessageHandler struct {
	bus *dispatch.Bus
}

func NewMessageHandler(bus *dispatch.Bus) *MessageHandler {
	return &MessageHandler{bus: bus}
}

// createMessageRequest is the API ingestion body. The tenant comes from
// the caller's token and the conversation from the path, so neither can
// be spoofed in the body.
type createMessageRequest struct {
	SenderID        string `json:"sender_id"`
	Body            string `json:"body"`
	ExternalEventID string `json:"external_event_id"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_ID", "message": "invalid conversation id"}})
		return
	}

	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_BODY", "message": err.Error()}})
		return
	}

	principal, ok := auth.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "unauthorized"}})
		return
	}

	res := h.bus.DispatchCommand(c.Request.Context(), commands.IngestMessage{
		TenantID:        principal.TenantID,
		ConversationID:  conversationID,
		SenderID:        req.SenderID,
		Body:            req.Body,
		Platform:        "api",
		ExternalEventID: req.ExternalEventID,
	})
	respond(c, http.StatusCreated, res)
}
