package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/identity"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	provider := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	store := repo.NewStore(dbpool)

	identities := service.NewIdentityService(store, logger, cfg.StoreTimeout)
	app := &handlers.App{
		Log:        logger,
		Identities: identities,
		Onboarding: service.NewOnboardingService(store, identities, provider, logger, cfg.StoreTimeout),
		Profiles:   service.NewProfileService(store, provider, logger, cfg.StoreTimeout),
		Donations:  service.NewDonationService(store, logger, cfg.MinDonationAmount, cfg.MaxPageSize, cfg.StoreTimeout),
		Directory:  service.NewDirectoryService(store, logger, cfg.MaxPageSize, cfg.StoreTimeout),
		Provider:   provider,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		DB:         dbpool,
	}

	router := httpapi.NewRouter(app, cfg, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

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
