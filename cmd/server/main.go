package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/adapters/distance"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/api"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or seed file, Redis, Google) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.Init(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	obs.RegisterDefault()

	ctx := context.Background()

	var (
		repo          ports.PlaceRepository
		distanceCache ports.DistanceCache
	)

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer conn.Close()

		// Initialize schema and seed places on startup for local runs.
		if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
			logger.Fatal("init database", zap.Error(err))
		}
		repo = repositories.NewSQLPlaceRepository(conn)
		distanceCache = cache.NewSQLDistanceCache(conn)
	} else {
		places, err := repositories.LoadSeedFile(cfg.SeedPath)
		if err != nil {
			logger.Fatal("load seed file", zap.Error(err))
		}
		logger.Info("no DATABASE_URL, serving places from seed file", zap.String("path", cfg.SeedPath), zap.Int("places", len(places)))
		repo = repositories.NewMemoryPlaceRepository(places)
	}

	// Redis takes precedence over the SQL travel cache when both are configured.
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer client.Close()
		distanceCache = cache.NewRedisDistanceCache(client, cfg.CacheTTL)
	}

	provider, err := newProvider(cfg, distanceCache)
	if err != nil {
		logger.Fatal("distance provider", zap.Error(err))
	}

	planner := services.NewPlanner(repo, provider, services.WithMinGap(cfg.MinTripMinutes))
	router := api.NewRouter(repo, planner, cfg.DefaultBase)

	// Timeouts are tuned for cold-cache planning (external API latency).
	logger.Info("server listening", zap.String("addr", ":"+cfg.Port), zap.String("env", cfg.Env))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newProvider returns the Google provider, or nil when no key is set. Without
// a provider every leg uses the default travel time and results are degraded.
func newProvider(cfg config.Config, distanceCache ports.DistanceCache) (ports.DistanceProvider, error) {
	if cfg.GoogleAPIKey == "" {
		obs.L().Warn("GOOGLE_API_KEY not set, travel times fall back to the default")
		return nil, nil
	}

	provider, err := distance.NewGoogleDistanceProvider(
		cfg.GoogleAPIKey,
		distanceCache,
		distance.WithRateLimit(cfg.ProviderRatePerSec, cfg.ProviderBurst),
	)
	if err != nil {
		return nil, fmt.Errorf("new provider: %w", err)
	}
	return provider, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromFile(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
