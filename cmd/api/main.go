package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"aimarketer/internal/adapter/repo"
	"aimarketer/internal/domain"
	"aimarketer/internal/http/handlers"
	httpapi "aimarketer/internal/http/httpapi"
	"aimarketer/internal/imaging"
	"aimarketer/internal/infra"
	"aimarketer/internal/infra/geoip"
	"aimarketer/internal/middleware"
	"aimarketer/internal/providers/image"
	"aimarketer/internal/providers/nebius"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()

	// Usage tracking is enabled only with DATABASE_URL.
	var usage domain.UsageRepository
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if dbpool != nil {
		defer dbpool.Close()
		usageRepo := repo.NewUsageRepository(infra.NewSQLRunner(dbpool, logger))
		if err := usageRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare usage schema")
		}
		usage = usageRepo
	} else {
		logger.Info().Msg("DATABASE_URL not set, usage tracking disabled")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	nebiusClient := nebius.NewClient(nebius.Options{
		APIKey:         cfg.NebiusAPIKey,
		BaseURL:        cfg.NebiusBaseURL,
		Model:          cfg.NebiusModel,
		Logger:         &logger,
		RequestTimeout: cfg.NebiusTimeout,
	})

	app := &handlers.App{
		Config:         cfg,
		Logger:         logger,
		ImageGenerator: image.NewNebiusGenerator(nebiusClient),
		Exporter: imaging.NewExporter(imaging.NewFetcher(imaging.FetchOptions{
			Timeout:      cfg.ExportFetchTimeout,
			MaxBytes:     cfg.ExportMaxBytes,
			AllowedHosts: cfg.ImageSourceAllowlist,
		})),
		Usage: usage,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		CountryLookup:      countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", nebiusClient.Model()).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
