package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"trek-planner/internal/adapters/cache"
	"trek-planner/internal/config"
	"trek-planner/internal/platform/db"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	initAndSeed(db, seedPath)
}

// initAndSeed creates the cache schema and preloads the search cache. A
// missing seed file only skips seeding.
func initAndSeed(db *sql.DB, seedPath string) {
	log.Println("Initializing cache schema...")
	if err := cache.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if _, err := os.Stat(seedPath); err != nil {
		log.Printf("Skipping seed: %v", err)
		return
	}

	log.Println("Seeding search cache...")
	n, err := cache.SeedFromJSON(context.Background(), cache.NewSQLSearchCache(db), seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. queries=%d", n)
}
