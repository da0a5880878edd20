package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/crosswordrobot/internal/api"
	"github.com/mcoot/crosswordrobot/internal/config"
	"github.com/mcoot/crosswordrobot/internal/factory"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

func main() {
	settings, err := config.Load(os.Getenv("CWROBOT_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := settings.Level()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.ConfigFrom(settings, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load dictionary, preferring the file over a copy left in storage
	ctx := context.Background()
	if err := app.DictionaryService.LoadFromFile(ctx, settings.Dictionary.Path); err != nil {
		logger.Warn("could not load dictionary file",
			slog.String("path", settings.Dictionary.Path),
			slog.String("error", err.Error()),
		)
		if err := app.DictionaryService.LoadFromStorage(ctx); err != nil {
			logger.Warn("no dictionary in storage", slog.String("error", err.Error()))
		}
	}
	logger.Info("dictionary ready", slog.Int("words", app.DictionaryService.WordCount()))

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		BotService:     app.BotService,
		Validator:      app.Validator,
		SelfPlay:       app.SelfPlay,
		TileSet:        tileset.Default(),
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = settings.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
