package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/assistkit/booking-assistant/internal/api/router"
	"github.com/assistkit/booking-assistant/internal/assistant"
	"github.com/assistkit/booking-assistant/internal/availability"
	"github.com/assistkit/booking-assistant/internal/booking"
	appconfig "github.com/assistkit/booking-assistant/internal/config"
	"github.com/assistkit/booking-assistant/internal/extraction"
	"github.com/assistkit/booking-assistant/internal/notify"
	"github.com/assistkit/booking-assistant/internal/observability/metrics"
	"github.com/assistkit/booking-assistant/internal/pricing"
	"github.com/assistkit/booking-assistant/internal/receipts"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	store, cleanup, err := buildStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize booking store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	engine := availability.NewEngine(store, logger)
	extractor := extraction.NewExtractor(engine, logger)

	rates := pricing.NewRateCache(pricing.RateCacheConfig{
		APIKey:  cfg.FXAPIKey,
		BaseURL: cfg.FXBaseURL,
		Timeout: cfg.FXFetchTimeout,
	}, logger)
	pricer := pricing.NewEngine(rates, logger)

	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	var enrichers *receipts.Pipeline
	if sender != nil {
		enrichers = receipts.NewPipeline(logger, receipts.NewEmailEnricher(sender))
	} else {
		enrichers = receipts.NewPipeline(logger)
	}

	registry := prometheus.NewRegistry()
	assistantMetrics := metrics.NewAssistantMetrics(registry)

	svc := assistant.NewService(extractor, engine, pricer, store, enrichers, assistantMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Assistant:          assistant.NewHandler(svc, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		MessageRateLimit:   5,
		MessageBurst:       10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildStore selects the booking store backend from configuration and returns
// a cleanup func closing any held connections.
func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (booking.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, func() {}, err
		}
		logger.Info("using redis booking store", "addr", cfg.RedisAddr)
		return booking.NewRedisStore(client), func() { client.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		store := booking.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		logger.Info("using postgres booking store")
		return store, pool.Close, nil
	default:
		logger.Info("using in-memory booking store")
		return booking.NewMemoryStore(), func() {}, nil
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
