// Package main runs the insights REST API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/viku01999/insights-api/internal/config"
	"github.com/viku01999/insights-api/internal/httpapi"
	"github.com/viku01999/insights-api/internal/logging"
	"github.com/viku01999/insights-api/internal/service"
	"github.com/viku01999/insights-api/internal/storage/mongodb"
)

func main() {
	// Optional .env for local development; the file is absent in deployment.
	_ = godotenv.Load()

	cfg := config.LoadOrDefault()
	log := logging.New("insights-api", os.Getenv("LOG_LEVEL"), cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()
	log.Infof("Connected to MongoDB (database %s, collection %s)", cfg.Mongo.Database, cfg.Mongo.Collection)

	store := mongodb.New(client, cfg.Mongo.Database, cfg.Mongo.Collection)
	svc := service.New(store, log)
	limiter := httpapi.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	router := httpapi.NewRouter(svc, log, limiter)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Insights API listening on port %d (%s mode)", cfg.Server.Port, cfg.Server.Mode)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
