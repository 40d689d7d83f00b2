package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/api/handler"
	"github.com/freecyberhawk/hakobot/internal/api/middleware"
)

type Router struct {
	healthHandler  *handler.HealthHandler
	webhookHandler *handler.WebhookHandler
	cfg            *config.Config
	log            *zap.Logger
}

// NewRouter wires the HTTP surface. webhookHandler may be nil when updates
// arrive by long polling.
func NewRouter(
	healthHandler *handler.HealthHandler,
	webhookHandler *handler.WebhookHandler,
	cfg *config.Config,
	log *zap.Logger,
) *Router {
	return &Router{
		healthHandler:  healthHandler,
		webhookHandler: webhookHandler,
		cfg:            cfg,
		log:            log,
	}
}

// WebhookRoute is the route template Telegram posts updates to.
func WebhookRoute(cfg *config.BotConfig) string {
	path := "/" + strings.Trim(cfg.WebhookPath, "/")
	if cfg.WebhookSecret != "" {
		path += "/:" + middleware.SecretParam
	}
	return path
}

// WebhookLink is the public url registered with Telegram, secret filled in.
func WebhookLink(cfg *config.BotConfig) string {
	path := "/" + strings.Trim(cfg.WebhookPath, "/")
	if cfg.WebhookSecret != "" {
		path += "/" + cfg.WebhookSecret
	}
	return strings.TrimRight(cfg.WebhookURL, "/") + path
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(r.log))

	engine.GET("/healthz", r.healthHandler.Check)

	if r.webhookHandler != nil {
		engine.POST(WebhookRoute(&r.cfg.Bot),
			middleware.WebhookSecret(r.cfg.Bot.WebhookSecret),
			r.webhookHandler.Receive,
		)
	}

	return engine
}
