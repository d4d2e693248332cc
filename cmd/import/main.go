// One-time migration from the legacy JSON files into the SQLite store.
//
// Usage:
//
//	flowscout-import [workflow_library.json] [processed_content.json]
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/mfreitas/flowscout/internal/config"
	"github.com/mfreitas/flowscout/internal/importer"
	"github.com/mfreitas/flowscout/internal/logger"
	"github.com/mfreitas/flowscout/internal/store"
)

func main() {
	workflowsPath := flag.String("workflows", "data/workflow_library.json", "path to the legacy workflow library")
	processedPath := flag.String("processed", "data/processed_content.json", "path to the legacy processed-content file")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init store: %v", err)
	}
	defer db.Close()

	im := importer.New(db, appLogger)
	result, err := im.Run(*workflowsPath, *processedPath)
	if err != nil {
		if errors.Is(err, importer.ErrStoreNotEmpty) {
			log.Fatalf("Store at %s already has content; delete it first to re-run the migration", cfg.DBPath)
		}
		log.Fatalf("Import failed: %v", err)
	}

	appLogger.Info("Migration complete",
		"db", cfg.DBPath,
		"workflows", result.Workflows,
		"processed_videos", result.ProcessedVideos)
}
