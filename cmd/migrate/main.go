package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	if *dryRun {
		migrations, err := postgres.Migrations()
		if err != nil {
			log.Fatalf("Failed to load migrations: %v", err)
		}
		for _, m := range migrations {
			fmt.Printf("-- %s\n%s\n", m.Version, m.SQL)
		}
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")

	applied, err := db.Migrate(ctx)
	if err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err, "applied", applied)
	}

	logger.Infow("Migration completed successfully", "applied", applied)
}
