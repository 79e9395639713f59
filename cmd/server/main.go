package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/nextbus/internal/arrivals"
	"github.com/you/nextbus/internal/config"
	"github.com/you/nextbus/internal/handlers"
	"github.com/you/nextbus/internal/server"
	"github.com/you/nextbus/internal/tfl"
)

func main() {
	server.InitLogging()

	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Config loaded: stop=%s limit=%d cache_ttl=%v upstream_timeout=%v",
		cfg.StopID, cfg.ResultsLimit, cfg.CacheTTL, cfg.UpstreamTimeout)
	if cfg.AppID == "" || cfg.AppKey == "" {
		log.Println("Warning: TfL credentials not set, requests will be anonymous and heavily rate limited")
	}

	client := tfl.NewClient(tfl.Options{
		BaseURL: cfg.BaseURL,
		AppID:   cfg.AppID,
		AppKey:  cfg.AppKey,
		Timeout: cfg.UpstreamTimeout,
	})

	fetcher := arrivals.NewFetcher(client, arrivals.NewCache(), arrivals.Options{
		StopID:       cfg.StopID,
		DefaultLimit: cfg.ResultsLimit,
		TTL:          cfg.CacheTTL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(handlers.NewBusHandler(fetcher), cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Arrivals server starting on %s", srv.Addr)
		log.Println("  GET /buses")
		log.Println("  GET /health")
		log.Println("  GET /health/data")
		log.Println("  GET /metrics")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Goodbye!")
}
