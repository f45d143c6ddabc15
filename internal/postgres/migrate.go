package postgres

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

// MigrateDirection selects which way Migrate moves the schema
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate applies the embedded migrations. steps > 0 moves that many versions
// in the given direction; otherwise the schema is moved all the way.
// It opens its own connection because closing the migrator closes the
// underlying *sql.DB.
func Migrate(cfg config.PostgresConfig, log *logger.Logger, direction MigrateDirection, steps int) error {
	sqldb, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	driver, err := migratepg.WithInstance(sqldb, &migratepg.Config{})
	if err != nil {
		_ = sqldb.Close()
		return ierr.WithError(err).
			WithHint("Failed to prepare migration driver").
			Mark(ierr.ErrDatabase)
	}

	src, err := iofs.New(EmbeddedMigrations, "migrations")
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	defer m.Close()

	log.Infow("applying migrations", "direction", direction, "steps", steps)

	switch {
	case steps > 0 && direction == MigrateDown:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case direction == MigrateDown:
		err = m.Down()
	default:
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Infow("no migrations to apply")
		return nil
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to apply migrations").
			Mark(ierr.ErrDatabase)
	}

	version, dirty, _ := m.Version()
	log.Infow("migrations applied", "version", version, "dirty", dirty)
	return nil
}
