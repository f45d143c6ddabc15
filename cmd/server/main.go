package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/api"
	v1 "github.com/brokerdesk/brokerdesk/internal/api/v1"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/cache"
	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/httpclient"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/repository"
	"github.com/brokerdesk/brokerdesk/internal/s3"
	"github.com/brokerdesk/brokerdesk/internal/sentry"
	"github.com/brokerdesk/brokerdesk/internal/service"
	"github.com/brokerdesk/brokerdesk/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		// registers the package level validator
		fx.Invoke(validator.NewValidator),
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			provideDB,

			// Object storage
			s3.NewService,

			// HTTP Client
			provideHTTPClient,

			// PDF
			pdf.NewFiller,

			// Auth
			auth.NewProvider,

			// Repositories
			repository.NewDocumentRepository,
			repository.NewCustomerRepository,
			repository.NewPropertyRepository,
			repository.NewTemplateRepository,
			repository.NewUserRepository,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewAuthService,
			service.NewDocumentService,
			service.NewArchiveService,
			service.NewCustomerService,
			service.NewPropertyService,
			service.NewTemplateService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startAPIServer),
	)

	app := fx.New(opts...)
	app.Run()
}

// provideDB connects to postgres and applies pending migrations when
// postgres.auto_migrate is set.
func provideDB(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*postgres.DB, postgres.IClient, error) {
	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(cfg.Postgres, log, postgres.MigrateUp, 0); err != nil {
			return nil, nil, err
		}
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
	return db, db, nil
}

func provideHTTPClient(cfg *config.Configuration, log *logger.Logger) httpclient.Client {
	return httpclient.NewDefaultClient(cfg, log,
		httpclient.WithAuthFailureHandler(func(ctx context.Context, req *httpclient.Request, resp *httpclient.Response) {
			log.WithContext(ctx).Warnw("template host rejected the request",
				"url", req.URL,
				"status", resp.StatusCode,
			)
		}),
	)
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	db *postgres.DB,
	authService service.AuthService,
	documentService service.DocumentService,
	archiveService service.ArchiveService,
	customerService service.CustomerService,
	propertyService service.PropertyService,
	templateService service.TemplateService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(db, logger),
		Auth:      v1.NewAuthHandler(authService, logger),
		Document:  v1.NewDocumentHandler(documentService, logger),
		Archive:   v1.NewArchiveHandler(archiveService),
		Customer:  v1.NewCustomerHandler(customerService, logger),
		Property:  v1.NewPropertyHandler(propertyService, logger),
		Template:  v1.NewTemplateHandler(templateService),
		Signature: v1.NewSignatureHandler(cfg),
		Wizard:    v1.NewWizardHandler(),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, provider auth.Provider, reporter *sentry.Service, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, provider, reporter, logger)
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
