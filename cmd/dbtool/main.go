package main

import (
	"database/sql"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tripguide-service/internal/adapters/repositories"
	"tripguide-service/internal/config"
	"tripguide-service/internal/platform/db"
	"tripguide-service/internal/platform/obs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	obs.Init(config.Get("LOG_LEVEL", "info"))

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pg.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/attractions.json")
	if err := initAndSeed(pg, seedPath); err != nil {
		log.Fatal().Err(err).Msg("init and seed failed")
	}
}

func initAndSeed(pg *sql.DB, seedPath string) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(pg); err != nil {
		return err
	}
	log.Info().Msg("schema ready")

	log.Info().Str("path", seedPath).Msg("seeding attractions")
	if err := repositories.SeedFromJSON(pg, seedPath); err != nil {
		return err
	}
	log.Info().Msg("seeding complete")

	return nil
}
