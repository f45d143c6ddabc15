package testutil

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all in-memory stores
type Stores struct {
	DocumentRepo *InMemoryDocumentStore
	CustomerRepo *InMemoryCustomerStore
	PropertyRepo *InMemoryPropertyStore
	TemplateRepo *InMemoryTemplateStore
	UserRepo     *InMemoryUserStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	db      *MockPostgresClient
	logger  *logger.Logger
	config  *config.Configuration
	filler  *MockFiller
	storage *MockStorage
	session *types.Session
	other   *types.Session
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupConfig()
	s.setupContext()
	s.setupStores()
	s.db = NewMockPostgresClient()
	s.filler = new(MockFiller)
	s.storage = NewMockStorage()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupConfig() {
	s.config = config.GetDefaultConfig()
	s.config.Storage = config.StorageConfig{
		Enabled:               true,
		Region:                "eu-central-1",
		Bucket:                "brokerdesk-test",
		PresignExpiryDuration: "30m",
		DocumentPrefix:        "documents",
		TemplatePrefix:        "templates",
	}
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
	s.session = NewTestSession()
	s.other = NewOtherSession()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		DocumentRepo: NewInMemoryDocumentStore(),
		CustomerRepo: NewInMemoryCustomerStore(),
		PropertyRepo: NewInMemoryPropertyStore(),
		TemplateRepo: NewInMemoryTemplateStore(),
		UserRepo:     NewInMemoryUserStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.DocumentRepo.Clear()
	s.stores.CustomerRepo.Clear()
	s.stores.PropertyRepo.Clear()
	s.stores.TemplateRepo.Clear()
	s.stores.UserRepo.Clear()
	s.storage.Clear()
}

// Getter methods
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetFiller() *MockFiller {
	return s.filler
}

func (s *BaseServiceTestSuite) GetStorage() *MockStorage {
	return s.storage
}

// GetSession is the agent the suite acts as
func (s *BaseServiceTestSuite) GetSession() *types.Session {
	return s.session
}

// GetOtherSession is a second agent of the same tenant
func (s *BaseServiceTestSuite) GetOtherSession() *types.Session {
	return s.other
}
