package main

import (
	"context"
	"log"
	"strings"

	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
)

// dbtool initializes the Postgres schema and loads the place seed file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	seedPath := config.Get("SEED_PATH", cfg.SeedPath)

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromFile(ctx, conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
