package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/database"
	"github.com/freecyberhawk/hakobot/internal/pkg/logger"
	"github.com/freecyberhawk/hakobot/internal/schema"
)

var dryRun = flag.Bool("dry-run", false, "Report what would change without altering the database")

func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.New(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}

	results, err := schema.NewMigrator(db, zl).DryRun(*dryRun).Setup()
	if err != nil {
		zl.Fatal("schema setup failed", zap.Error(err))
	}

	log.Println(strings.Repeat("=", 48))
	for _, r := range results {
		name := r.Table
		if r.Column != "" {
			name += "." + r.Column
		}
		log.Printf("%-32s %s", name, r.Outcome)
	}
	log.Println(strings.Repeat("=", 48))
	if *dryRun {
		log.Println("DRY RUN - nothing was changed. Run with -dry-run=false to apply.")
	}
}
