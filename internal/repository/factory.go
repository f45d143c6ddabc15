package repository

import (
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	"github.com/brokerdesk/brokerdesk/internal/domain/user"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	postgresRepo "github.com/brokerdesk/brokerdesk/internal/repository/postgres"
)

func NewDocumentRepository(db *postgres.DB, logger *logger.Logger) document.Repository {
	return postgresRepo.NewDocumentRepository(db, logger)
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewPropertyRepository(db *postgres.DB, logger *logger.Logger) property.Repository {
	return postgresRepo.NewPropertyRepository(db, logger)
}

func NewTemplateRepository(db *postgres.DB, logger *logger.Logger) template.Repository {
	return postgresRepo.NewTemplateRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}
