package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chathub/pkg/logger"
)

// NewRouter assembles the HTTP boundary. API routes require a bearer
// token; webhook routes are authenticated upstream by per-platform
// signature verification and carry no user token.
func NewRouter(mode, jwtSecret string, l *logger.Logger, tenants *TenantHandler, messages *MessageHandler, webhooks *WebhookHandler, registry *prometheus.Registry) *gin.Engine {
	if mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(jwtSecret))
	{
		api.POST("/tenants", tenants.Create)
		api.GET("/tenants/:id", tenants.Get)
		api.POST("/conversations/:id/messages", messages.Create)
	}

	r.POST("/webhooks/:platform/:tenant", webhooks.Receive)

	return r
}
