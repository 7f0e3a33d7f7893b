package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"bookmarkd/internal/config"
	"bookmarkd/internal/repository"
	"bookmarkd/internal/seed"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load the fixture")
	fixturePath := flag.String("file", "", "YAML fixture to load (defaults to the built-in demo data)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Opening the store ensures the schema exists
	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := store.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset schema: %v", err)
		}
		log.Println("Tables recreated")
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	result, err := seed.NewSeeder(store, logger).Seed(ctx, fixture)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	for key, id := range result.Users {
		log.Printf("  user %-10s id=%d", key, id)
	}
	for key, id := range result.Collections {
		log.Printf("  collection %-10s id=%d", key, id)
	}
	log.Println("Seeding complete")
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}
