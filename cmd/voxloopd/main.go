package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/voxloop/voxloop/internal/completion"
	"github.com/voxloop/voxloop/internal/config"
	"github.com/voxloop/voxloop/internal/httpserver"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	provider := completion.NewProvider(cfg.OpenAIAPIKey, cfg.Model, cfg.Location)
	server := httpserver.New(cfg, provider, logger)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
