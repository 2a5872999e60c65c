// cmd/dbcheck/main.go
// Checks that the configured stores are reachable and applies migrations.
// Usage: go run ./cmd/dbcheck [-migrate]

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/common/database"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/config"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply schema migrations")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Can't reach database: ", err)
	}
	defer db.Close()
	fmt.Println("✅ Connected to PostgreSQL")

	if *migrate {
		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatal("Migrations failed: ", err)
		}
		fmt.Println("✅ Migrations applied")
	}

	var count int
	if err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public'`); err != nil {
		log.Fatal("Failed to count tables: ", err)
	}
	fmt.Printf("✅ Found %d tables\n", count)

	if cfg.RedisURL == "" {
		return
	}
	rdb, err := database.NewRedisClientFromURL(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Can't reach Redis: ", err)
	}
	defer rdb.Close()
	fmt.Println("✅ Connected to Redis")
}
