package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/pokeatlas/pokedex/config"
	"github.com/pokeatlas/pokedex/internal/auth"
	"github.com/pokeatlas/pokedex/internal/catalog"
	"github.com/pokeatlas/pokedex/internal/favorites"
	"github.com/pokeatlas/pokedex/internal/logging"
	"github.com/pokeatlas/pokedex/internal/pokeapi"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/team"
	"github.com/pokeatlas/pokedex/internal/translation"
	"github.com/pokeatlas/pokedex/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, err := storage.New(cfg.Storage.DataDir, cfg.Storage.QuotaBytes, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}

	watcher, err := storage.NewWatcher(store, logger)
	if err != nil {
		logger.Fatal("failed to start storage watcher", zap.Error(err))
	}
	defer watcher.Close()

	translator, err := translation.New(store, logger)
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	catalogStore := catalog.New(logger)
	if err := catalogStore.Load(); err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, logger)
	pipeline := pokeapi.NewPipeline(client, logger)

	authStore := auth.NewStore(store, translator, cfg, logger)
	favoritesStore := favorites.NewStore(store, watcher, authStore, translator, logger)
	defer favoritesStore.Close()
	teamStore := team.NewStore(store, watcher, authStore, translator, logger)
	defer teamStore.Close()

	r := routes.SetupRoutes(cfg, routes.Stores{
		Auth:        authStore,
		Favorites:   favoritesStore,
		Teams:       teamStore,
		Catalog:     catalogStore,
		Translation: translator,
		Pipeline:    pipeline,
	})

	logger.Info("starting server",
		zap.String("port", cfg.App.Port),
		zap.String("env", cfg.App.Env))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
