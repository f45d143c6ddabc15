package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RepositoryIntegrationSuite runs the repositories against a real postgres.
// Set TEST_INTEGRATION=1 to enable it; it needs a docker daemon.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *postgres.DB
	docs      document.Repository
	customers customer.Repository
	alice     *types.Session
	bob       *types.Session
}

func TestRepositoryIntegration(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx,
		"docker.io/postgres:16-alpine",
		tcpostgres.WithDatabase("brokerdesk_test"),
		tcpostgres.WithUsername("brokerdesk"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)

	cfg := config.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "brokerdesk",
		Password: "test-password",
		DBName:   "brokerdesk_test",
		SSLMode:  "disable",
	}

	log := logger.NewNopLogger()
	s.Require().NoError(postgres.Migrate(cfg, log, postgres.MigrateUp, 0))

	conn, err := sqlx.Connect("postgres", cfg.GetDSN())
	s.Require().NoError(err)
	s.db = postgres.NewFromSQLX(conn, log)

	s.docs = NewDocumentRepository(s.db, log)
	s.customers = NewCustomerRepository(s.db, log)
	s.alice = types.NewSession("user_alice", "tenant_1", "alice@example.com")
	s.bob = types.NewSession("user_bob", "tenant_1", "bob@example.com")
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE documents, customers, properties, templates, users")
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationSuite) newDocument(sess *types.Session, name string) *document.Document {
	d := document.New(sess, name, types.DocumentTypeRentalAgreement)
	d.StorageKey = fmt.Sprintf("documents/%s.pdf", d.ID)
	d.Size = 1024
	d.Tags = []string{"rental"}
	return d
}

func (s *RepositoryIntegrationSuite) TestOwnershipIsolation() {
	d := s.newDocument(s.alice, "Kira sözleşmesi")
	s.Require().NoError(s.docs.Create(s.ctx, s.alice, d))

	got, err := s.docs.Get(s.ctx, s.alice, d.ID)
	s.Require().NoError(err)
	s.Equal([]string{"rental"}, got.Tags)

	_, err = s.docs.Get(s.ctx, s.bob, d.ID)
	s.True(ierr.IsNotFound(err))

	d.Status = types.DocumentStatusSigned
	s.True(ierr.IsNotFound(s.docs.Update(s.ctx, s.bob, d)))
	s.True(ierr.IsNotFound(s.docs.Delete(s.ctx, s.bob, d.ID)))

	list, err := s.docs.List(s.ctx, s.bob, types.NewDocumentFilter())
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RepositoryIntegrationSuite) TestSearchAndTags() {
	s.Require().NoError(s.docs.Create(s.ctx, s.alice, s.newDocument(s.alice, "Kadıköy rental")))
	other := s.newDocument(s.alice, "Showing at Moda")
	other.Tags = []string{"showing"}
	s.Require().NoError(s.docs.Create(s.ctx, s.alice, other))

	f := types.NewDocumentFilter()
	f.Search = "MODA"
	list, err := s.docs.List(s.ctx, s.alice, f)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(other.ID, list[0].ID)

	f = types.NewDocumentFilter()
	f.Tags = []string{"rental", "unused"}
	count, err := s.docs.Count(s.ctx, s.alice, f)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RepositoryIntegrationSuite) TestVersionConflict() {
	d := s.newDocument(s.alice, "Lease")
	s.Require().NoError(s.docs.Create(s.ctx, s.alice, d))

	next := d.NextVersion(s.alice)
	next.StorageKey = "documents/next.pdf"
	s.Require().NoError(s.docs.Create(s.ctx, s.alice, next))

	racer := d.NextVersion(s.alice)
	racer.StorageKey = "documents/racer.pdf"
	err := s.docs.Create(s.ctx, s.alice, racer)
	s.True(ierr.IsVersionConflict(err))

	latest, err := s.docs.GetLatestVersion(s.ctx, s.alice, d.LogicalID)
	s.Require().NoError(err)
	s.Equal(2, latest.Version)
}

func (s *RepositoryIntegrationSuite) TestCustomerProfileRoundTrip() {
	c := &customer.Customer{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:   "Ayşe Demir",
		Status: types.CustomerStatusLead,
		Role:   types.CustomerRoleTenant,
		Tags:   []string{},
		Profile: customer.TenantProfile{
			MaxRent:   decimal.RequireFromString("25000.50"),
			Occupants: 2,
			HasPets:   true,
		},
		BaseModel: types.GetDefaultBaseModel(s.alice),
	}
	s.Require().NoError(s.customers.Create(s.ctx, s.alice, c))

	got, err := s.customers.Get(s.ctx, s.alice, c.ID)
	s.Require().NoError(err)

	profile, ok := got.Profile.(customer.TenantProfile)
	s.Require().True(ok)
	s.True(profile.MaxRent.Equal(decimal.RequireFromString("25000.50")))
	s.True(profile.HasPets)
}
