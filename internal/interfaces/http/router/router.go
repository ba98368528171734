package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/infrastructure/auth"
	"github.com/buildpay/backend/internal/infrastructure/config"
	"github.com/buildpay/backend/internal/infrastructure/logger"
	"github.com/buildpay/backend/internal/interfaces/http/handler"
	"github.com/buildpay/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers mounted by the router
type Handlers struct {
	Auth    *handler.AuthHandler
	Invoice *handler.InvoiceHandler
	Bill    *handler.BillHandler
	Project *handler.ProjectHandler
	Webhook *handler.WebhookHandler
	Health  *handler.HealthHandler
}

// Config holds router dependencies
type Config struct {
	HTTP        config.HTTPConfig
	Telemetry   config.TelemetryConfig
	JWTService  *auth.JWTService
	Logger      *zap.Logger
	ServiceName string
}

// New builds the gin engine with middleware and all routes mounted
func New(cfg Config, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.ServiceName))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	api := engine.Group("/api/v1")

	// Webhooks authenticate via payload signatures, not JWTs
	webhooks := api.Group("/webhooks")
	webhooks.POST("/payments/:provider", h.Webhook.PaymentCallback)
	webhooks.POST("/stripe", h.Webhook.StripeWebhook)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(cfg.JWTService))

	invoices := protected.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.Get)
	invoices.POST("/:id/send", h.Invoice.Send)
	invoices.GET("/:id/pdf", h.Invoice.PDF)
	invoices.GET("/:id/payments", h.Invoice.ListPayments)
	invoices.POST("/:id/payments", h.Invoice.RecordPayment)
	invoices.GET("/:id/payment-summary", h.Invoice.PaymentSummary)

	bills := protected.Group("/bills")
	bills.POST("", h.Bill.Create)
	bills.GET("", h.Bill.List)
	bills.GET("/:id", h.Bill.Get)
	bills.POST("/:id/payments", h.Bill.RecordPayment)
	bills.GET("/:id/payment-summary", h.Bill.PaymentSummary)

	projects := protected.Group("/projects")
	projects.POST("", h.Project.Create)
	projects.GET("", h.Project.List)
	projects.GET("/:id", h.Project.Get)
	projects.POST("/:id/milestones", h.Project.CreateMilestone)
	projects.GET("/:id/milestones", h.Project.ListMilestones)

	milestones := protected.Group("/milestones")
	milestones.POST("/:id/complete", h.Project.CompleteMilestone)

	return engine
}
