package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chathub/internal/commands"
	"chathub/internal/dispatch"
	"chathub/internal/queries"
)

type TenantHandler struct {
	bus *dispatch.Bus
}

func NewTenantHandler(bus *dispatch.Bus) *TenantHandler {
	return &TenantHandler{bus: bus}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var cmd commands.CreateTenant
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_BODY", "message": err.Error()}})
		return
	}
	res := h.bus.DispatchCommand(c.Request.Context(), cmd)
	respond(c, http.StatusCreated, res)
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_ID", "message": "invalid tenant id"}})
		return
	}
	res := h.bus.DispatchQuery(c.Request.Context(), queries.GetTenant{TenantID: id})
	respond(c, http.StatusOK, res)
}
