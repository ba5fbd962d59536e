// Package main is the entrypoint for the Minutely API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minutely/minutely/internal/cache"
	"github.com/minutely/minutely/internal/config"
	"github.com/minutely/minutely/internal/handler"
	"github.com/minutely/minutely/internal/metrics"
	"github.com/minutely/minutely/internal/middleware"
	"github.com/minutely/minutely/internal/model"
	"github.com/minutely/minutely/internal/payment"
	"github.com/minutely/minutely/internal/repository"
	"github.com/minutely/minutely/internal/server"
	"github.com/minutely/minutely/internal/service"
	"github.com/minutely/minutely/migrations"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := repo.ApplyMigrations(ctx, migrations.Files); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.Options{
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize payment provider
	stripeClient := payment.NewClient(payment.Config{
		SecretKey:  cfg.StripeSecretKey,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})
	verifier := payment.NewVerifier(cfg.StripeWebhookSecret)

	// Initialize services
	metricsRecorder := metrics.NewPrometheus("minutely", prometheus.DefaultRegisterer)
	catalog := model.NewCatalog(cfg.PriceIDs())
	creditService := service.NewCreditService(repo, stripeClient, cacheClient, catalog, metricsRecorder)

	// Initialize handlers
	h := handler.New(creditService)
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	checkoutHandler := handler.NewCheckoutHandler(creditService, logger)
	webhookHandler := handler.NewWebhookHandler(verifier, creditService, logger, cfg.MaxRequestBodySize)
	creditHandler := handler.NewCreditHandler(creditService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, checkoutHandler, webhookHandler, creditHandler, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"packages", catalog.Minutes(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	creditHandler *handler.CreditHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Prometheus scrape endpoint
	r.Method("GET", "/metrics", promhttp.Handler())

	// Root info endpoint
	r.Get("/", h.Hello)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	// Public API routes, rate limited per client IP
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Post("/checkout-sessions", checkoutHandler.Create)
		r.Route("/credits", func(r chi.Router) {
			r.Post("/consume", creditHandler.Consume)
			r.Get("/balance", creditHandler.Balance)
		})
	})

	// Provider webhooks sit outside the IP rate limiter; signature
	// verification is the gate here and Stripe retries on 429.
	r.Post("/webhooks/stripe", webhookHandler.Handle)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
