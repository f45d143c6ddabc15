package api

import (
	v1 "github.com/brokerdesk/brokerdesk/internal/api/v1"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/rest/middleware"
	"github.com/brokerdesk/brokerdesk/internal/sentry"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Auth      *v1.AuthHandler
	Document  *v1.DocumentHandler
	Archive   *v1.ArchiveHandler
	Customer  *v1.CustomerHandler
	Property  *v1.PropertyHandler
	Template  *v1.TemplateHandler
	Signature *v1.SignatureHandler
	Wizard    *v1.WizardHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, provider auth.Provider, reporter *sentry.Service, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryScopeMiddleware,
		middleware.MetricsMiddleware,
		middleware.ErrorHandler(logger, reporter),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/v1")
	private := router.Group("/v1")
	private.Use(middleware.AuthenticateMiddleware(provider, logger))

	authGroup := public.Group("/auth")
	{
		authGroup.POST("/signup", handlers.Auth.SignUp)
		authGroup.POST("/login", handlers.Auth.Login)
	}

	documents := private.Group("/documents")
	{
		documents.GET("", handlers.Document.ListDocuments)
		documents.POST("", handlers.Document.UploadDocument)
		documents.POST("/generate", middleware.RateLimitMiddleware(cfg.Server.RateLimit), handlers.Document.GenerateDocument)
		documents.GET("/:id", handlers.Document.GetDocument)
		documents.PUT("/:id", handlers.Document.UpdateDocument)
		documents.DELETE("/:id", handlers.Document.DeleteDocument)
		documents.GET("/:id/versions", handlers.Document.ListVersions)
		documents.POST("/:id/versions", middleware.RateLimitMiddleware(cfg.Server.RateLimit), handlers.Document.CreateVersion)
		documents.GET("/:id/download", handlers.Document.DownloadDocument)
	}

	private.GET("/archive", handlers.Archive.Browse)

	customers := private.Group("/customers")
	{
		customers.GET("", handlers.Customer.ListCustomers)
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
	}

	properties := private.Group("/properties")
	{
		properties.GET("", handlers.Property.ListProperties)
		properties.POST("", handlers.Property.CreateProperty)
		properties.GET("/:id", handlers.Property.GetProperty)
		properties.PUT("/:id", handlers.Property.UpdateProperty)
		properties.DELETE("/:id", handlers.Property.DeleteProperty)
	}

	templates := private.Group("/templates")
	{
		templates.GET("", handlers.Template.ListTemplates)
		templates.POST("", handlers.Template.UploadTemplate)
	}

	private.POST("/signatures/render", handlers.Signature.Render)

	wizards := private.Group("/wizards")
	{
		wizards.GET("/:type", handlers.Wizard.GetWizard)
		wizards.POST("/:type/validate", handlers.Wizard.Validate)
	}

	return router
}
