package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/hoocms/customers/internal/config"
	"github.com/hoocms/customers/internal/infra"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %v", err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerCfg.ConnectTimeout)
	defer cancel()

	mongoClient, err := infra.Mongodb(connectCtx, cfg.MongoCfg)
	if err != nil {
		logrus.Fatalf("failed to establish connection to mongodb - %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.Errorf("failed to disconnect from mongodb - %v", err)
		}
	}()

	if err := infra.EnsureCustomerIndexes(connectCtx, mongoClient, cfg.MongoCfg); err != nil {
		logrus.Fatalf("failed to create customer indexes - %v", err)
	}

	redisClient, err := infra.Redis(connectCtx, cfg.RedisCfg)
	if err != nil {
		logrus.Fatalf("failed to establish connection to redis - %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logrus.Errorf("failed to close redis client - %v", err)
		}
	}()

	app, err := infra.Router(mongoClient, redisClient, cfg)
	if err != nil {
		logrus.Fatalf("failed to build router - %v", err)
	}

	start(app, cfg.ServerCfg)
}

func start(app *echo.Echo, cfg config.ServerCfg) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logrus.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logrus.Fatalf("failed to stop server gracefully - %v", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("shutting down the server, unexpected error occurred - %v", err)
		}
	}
}
