package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/david/donor-concierge/internal/db"
	"github.com/david/donor-concierge/internal/ingest"
	"github.com/david/donor-concierge/internal/logging"
)

func main() {
	path := flag.String("catalog", os.Getenv("CATALOG_PATH"), "Catalog YAML file (empty uses the built-in catalog)")
	dryRun := flag.Bool("dry-run", false, "Validate the catalog without writing to the database")
	flag.Parse()

	logger := logging.New(os.Getenv("LOG_LEVEL"), "console")
	defer func() { _ = logger.Sync() }()

	if *dryRun {
		cat, err := ingest.LoadCatalog(*path)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		opps, rejected := ingest.NormalizeCatalog(cat)
		for _, r := range rejected {
			log.Printf("Rejected %s", r)
		}
		log.Printf("Catalog OK. Valid: %d, Rejected: %d", len(opps), len(rejected))
		return
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	stats, rejected, err := ingest.SeedCatalog(ctx, db.NewStore(pool), *path, logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	log.Printf("Seed finished. Inserted: %d, Updated: %d, Failed: %d, Rejected: %d",
		stats.Inserted, stats.Updated, stats.Failed, len(rejected))
}
