package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/combo-chronicle/internal/api"
	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/service"
	"github.com/ericogr/combo-chronicle/internal/stream"
	"github.com/ericogr/combo-chronicle/internal/version"
)

func main() {
	// Config path may be provided via COMBO_CONFIG; a missing file runs
	// with defaults and environment overrides.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg := loadConfigOrExit(configPath)
	setupLogging(cfg)
	logging.Info("starting combo chronicle", logging.Fields{
		"version": version.Version,
		"commit":  version.Commit,
	})

	seed := loadCatalogOrExit(cfg.Catalog.Dir)
	repo := createRepositoryOrExit(cfg.Database.Path, seed.Tables())
	cat := reloadCatalogOrExit(repo)

	hub := stream.NewHub(cfg.Server.StreamBuffer)
	defer hub.Close()
	runs := service.NewRuns(cat, repo, hub, service.Options{
		Seed:        cfg.Game.Seed,
		IdleTimeout: cfg.Game.RunIdleTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	startRunSweeper(ctx, runs, hub, cfg.Game.SweepInterval)

	router := gin.Default()
	api.RegisterRoutes(router, api.NewRunHandler(runs, repo, hub, cfg.Server))

	if err := serve(ctx, cfg.Server.Address, router); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
