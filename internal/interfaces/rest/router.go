package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/metrics"
	"github.com/awaisdevofficial/inbound2-sub001/internal/interfaces/middleware"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Analysis  AnalysisService
	Email     EmailService
	Documents DocumentService
	DB        Pinger
	Validator *auth.Validator // nil disables auth
	Limiter   *middleware.RateLimiter
	Origins   []string
	Logger    *zap.Logger
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.Origins))

	health := NewHealthHandler(cfg.DB, cfg.Logger)
	analysis := NewAnalysisHandler(cfg.Analysis, cfg.Logger)
	email := NewEmailHandler(cfg.Email, cfg.Logger)
	documents := NewDocumentHandler(cfg.Documents, cfg.Logger)

	limit := func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Handler()
	}
	requireAuth := middleware.RequireAuth(cfg.Validator)

	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public landing-page contact form
	r.POST("/email", limit, email.Contact)

	api := r.Group("/api")
	{
		api.GET("/health", health.Health)
		api.GET("/ready", health.Ready)

		protected := api.Group("", requireAuth)
		protected.POST("/calls/analyze", analysis.Analyze)
		protected.POST("/send-email", limit, email.SendEmail)
		protected.POST("/send-email-custom", limit, email.SendCustomEmail)
		protected.POST("/send-system-email", limit, email.SendSystemEmail)
		protected.POST("/extract-document", limit, documents.Extract)
	}

	return r
}
