// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// ErrMissingPriceID is returned when a package has no Stripe price reference configured.
var ErrMissingPriceID = errors.New("missing price ID for package")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL          string `env:"REDIS_URL,required"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	// Stripe
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`

	// Checkout redirect targets used by the hosted payment page
	CheckoutSuccessURL string `env:"CHECKOUT_SUCCESS_URL,required"`
	CheckoutCancelURL  string `env:"CHECKOUT_CANCEL_URL,required"`

	// Price references for the purchasable packages
	PriceID10Min string `env:"PRICE_ID_10MIN,required"`
	PriceID30Min string `env:"PRICE_ID_30MIN,required"`
	PriceID60Min string `env:"PRICE_ID_60MIN,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting (per client IP on public API routes)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Request body size limit in bytes (webhook payloads are small)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`

	// Apply embedded SQL migrations at startup
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"false"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PriceIDs returns the package catalog as a minutes-to-price-reference map.
func (c *Config) PriceIDs() map[int]string {
	return map[int]string{
		10: c.PriceID10Min,
		30: c.PriceID30Min,
		60: c.PriceID60Min,
	}
}

// Validate checks invariants the env tags cannot express.
func (c *Config) Validate() error {
	for minutes, priceID := range c.PriceIDs() {
		if priceID == "" {
			return fmt.Errorf("%w: %d minutes", ErrMissingPriceID, minutes)
		}
	}
	return nil
}

// Load parses environment variables and returns a Config.
// A .env file in the working directory is loaded first if present,
// without overriding variables already set in the environment.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
