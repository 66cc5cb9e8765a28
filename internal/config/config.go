// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// StorageDriver selects the BlobStore: memory, postgres or sqlite.
	// Defaults to sqlite.
	StorageDriver string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// SQLitePath is the SQLite database file. Defaults to "trip-planner.db".
	SQLitePath string

	// StorageKey is the key the itinerary collection is stored under.
	StorageKey string

	// PaymentMethods are the methods this platform can charge.
	// Defaults to all of them.
	PaymentMethods []domain.PaymentMethod

	// PaymentLimit declines charges above this amount. 0 means no limit.
	PaymentLimit int64

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// rawEnv is the environment as caarlos0/env parses it, before validation.
type rawEnv struct {
	Port           string   `env:"PORT"            envDefault:"8080"`
	LogLevel       string   `env:"LOG_LEVEL"       envDefault:"info"`
	CORSOrigins    string   `env:"CORS_ORIGINS"    envDefault:"http://localhost:5173"`
	StorageDriver  string   `env:"STORAGE_DRIVER"  envDefault:"sqlite"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	SQLitePath     string   `env:"SQLITE_PATH"     envDefault:"trip-planner.db"`
	StorageKey     string   `env:"STORAGE_KEY"     envDefault:"itineraries"`
	PaymentMethods []string `env:"PAYMENT_METHODS" envDefault:"card,paypal,apple-pay,google-pay" envSeparator:","`
	PaymentLimit   int64    `env:"PAYMENT_LIMIT"   envDefault:"0"`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES"  envDefault:"1048576"`
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory, if present, is loaded first; real
// environment variables win over it.
// Returns an error listing every missing or invalid variable.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is normal outside development

	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := Config{
		Port:          raw.Port,
		LogLevel:      raw.LogLevel,
		CORSOrigins:   splitCSV(raw.CORSOrigins),
		StorageDriver: strings.ToLower(strings.TrimSpace(raw.StorageDriver)),
		DatabaseURL:   raw.DatabaseURL,
		SQLitePath:    raw.SQLitePath,
		StorageKey:    raw.StorageKey,
		PaymentLimit:  raw.PaymentLimit,
		MaxBodyBytes:  raw.MaxBodyBytes,
	}

	var problems []string

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_DRIVER %q is not one of memory, postgres, sqlite", cfg.StorageDriver))
	}

	for _, name := range raw.PaymentMethods {
		if strings.TrimSpace(name) == "" {
			continue
		}
		m, ok := domain.ParsePaymentMethod(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("PAYMENT_METHODS: unknown method %q", name))
			continue
		}
		cfg.PaymentMethods = append(cfg.PaymentMethods, m)
	}
	if len(cfg.PaymentMethods) == 0 {
		problems = append(problems, "PAYMENT_METHODS must name at least one method")
	}

	if cfg.PaymentLimit < 0 {
		problems = append(problems, "PAYMENT_LIMIT must not be negative")
	}
	if cfg.MaxBodyBytes < 0 {
		problems = append(problems, "MAX_BODY_BYTES must not be negative")
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
