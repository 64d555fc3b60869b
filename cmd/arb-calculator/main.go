package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/cache"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/config"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/logging"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Pretty, "arb-calculator")
	reg := metrics.Init(logger)

	// Optional response cache
	var store cache.Store
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = cache.Connect(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without response cache")
		} else {
			store = cache.NewRedisStore(redisClient, cfg.Redis.CacheTTL)
			logger.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("response cache enabled")
		}
	}

	solver := calculator.NewSolver(cfg.SolverOptions())

	// Create handler
	handler := handlers.NewHandler(solver, cfg.Mode(), store, logger, handlers.SessionConfig{
		IdleTimeout:    cfg.Server.SessionIdleTimeout,
		AllowedOrigins: cfg.Server.CORSOrigins,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(handler, metrics.Handler(reg)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		opts := solver.Options()
		logger.Info().
			Int("port", cfg.Server.Port).
			Str("default_mode", string(cfg.Mode())).
			Float64("tolerance", opts.Tolerance).
			Int("max_iterations", opts.MaxIterations).
			Msg("arb calculator started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("redis close failed")
		}
	}

	logger.Info().Msg("arb calculator stopped")
}
