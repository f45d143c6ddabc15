package service

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	"github.com/brokerdesk/brokerdesk/internal/domain/user"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/s3"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Filler pdf.Filler
	// Storage is nil when object storage is disabled
	Storage s3.Service

	// Repositories
	DocumentRepo document.Repository
	CustomerRepo customer.Repository
	PropertyRepo property.Repository
	TemplateRepo template.Repository
	UserRepo     user.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	filler pdf.Filler,
	storage s3.Service,
	documentRepo document.Repository,
	customerRepo customer.Repository,
	propertyRepo property.Repository,
	templateRepo template.Repository,
	userRepo user.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Filler:       filler,
		Storage:      storage,
		DocumentRepo: documentRepo,
		CustomerRepo: customerRepo,
		PropertyRepo: propertyRepo,
		TemplateRepo: templateRepo,
		UserRepo:     userRepo,
	}
}

// requireStorage fails when object storage is not configured
func (p ServiceParams) requireStorage() error {
	if p.Storage == nil {
		return ierr.NewError("object storage is disabled").
			WithHint("Object storage is not configured").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// removeObject deletes an object whose record was never written or is gone.
// Failures are logged and counted, the caller has nothing left to undo.
func (p ServiceParams) removeObject(ctx context.Context, key string) {
	if p.Storage == nil || key == "" {
		return
	}
	if err := p.Storage.Delete(ctx, key); err != nil {
		storageCleanupFailuresTotal.Inc()
		p.Logger.Errorw("failed to remove stored object", "key", key, "error", err)
	}
}
