package main

import (
	"flag"
	"log"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	_ "github.com/lib/pq"
)

func main() {
	down := flag.Bool("down", false, "Roll migrations back instead of applying them")
	steps := flag.Int("steps", 0, "Number of migrations to move; 0 moves all the way")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	direction := postgres.MigrateUp
	if *down {
		direction = postgres.MigrateDown
	}

	logger.Infow("connecting to database", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)

	if err := postgres.Migrate(cfg.Postgres, logger, direction, *steps); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}

	logger.Info("migrations completed")
}
