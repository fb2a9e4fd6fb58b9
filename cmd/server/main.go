package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tripguide-service/internal/adapters/cache"
	"tripguide-service/internal/adapters/cart"
	"tripguide-service/internal/adapters/geo"
	"tripguide-service/internal/adapters/render"
	"tripguide-service/internal/adapters/repositories"
	"tripguide-service/internal/api"
	"tripguide-service/internal/config"
	"tripguide-service/internal/platform/db"
	"tripguide-service/internal/platform/obs"
	"tripguide-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google Maps) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	obs.Init(config.Get("LOG_LEVEL", "info"))

	port := config.Get("PORT", "8080")
	redisAddr := config.Get("REDIS_ADDR", "localhost:6379")

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(mapsKey) == "" {
		log.Fatal().Msg("GOOGLE_MAPS_API_KEY is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pg.Close()

	// The provider uses persistent caches to avoid repeated geocode
	// and directions calls for unchanged plans.
	geocodeCache := cache.NewSQLGeocodeCache(pg)
	routeCache := cache.NewSQLRouteCache(pg)
	provider, err := geo.NewGoogleMapsProvider(mapsKey, geocodeCache, routeCache)
	if err != nil {
		log.Fatal().Err(err).Msg("create maps provider")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	attractionRepo := repositories.NewPostgresAttractionRepository(pg)
	planRepo := repositories.NewPostgresPlanRepository(pg)
	cartRepo := cart.NewRedisCartRepository(redisClient)

	collect := services.NewStopCollection(provider)
	scheduler := services.NewRouteScheduler(provider)
	assembler := services.NewPlanAssembler(attractionRepo, planRepo, collect, scheduler)
	renderer := services.NewScheduleRenderer(planRepo, collect, scheduler, provider, render.NewPDFRenderer())

	router := api.NewRouter(attractionRepo, planRepo, cartRepo, assembler, renderer)

	// Timeouts are tuned for cold-cache scheduling (external API latency).
	log.Info().Str("addr", ":"+port).Msg("server listening")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
