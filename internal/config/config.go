// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, catalog).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env *before* any code reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix DATABASEHUB_.

	Key mapping:
	- the prefix is removed and the remainder lowercased
	- a double underscore marks nesting, a single underscore stays part of the key
	  e.g. DATABASEHUB_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix every configuration env var carries.
const EnvPrefix = "DATABASEHUB_"

// ServiceName is the fixed service label used in logs, traces and metrics.
const ServiceName = "databasehub"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability and Catalog are pointers because they are optional.
// If not provided, defaults are injected in LoadConfig.
type Config struct {
	Primary        Primary              `koanf:"primary" validate:"required"`
	Server         ServerConfig         `koanf:"server" validate:"required"`
	Database       DatabaseConfig       `koanf:"database" validate:"required"`
	AdventureWorks AdventureWorksConfig `koanf:"adventureworks"`
	Redis          RedisConfig          `koanf:"redis" validate:"required"`
	Auth           AuthConfig           `koanf:"auth" validate:"required"`
	Integration    IntegrationConfig    `koanf:"integration"`
	Catalog        *CatalogConfig       `koanf:"catalog"`
	Observability  *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds in env and converted to time.Duration
// when the http.Server is built.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained requests-per-second allowed per client IP on /api.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// The same database hosts the AdventureWorks sample schemas and the
// service's own `databasehub` schema.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN builds the postgres URL for this database.
func (d DatabaseConfig) DSN() string {
	return buildDSN(d)
}

// AdventureWorksConfig controls how the ORM context resolves the sample tables.
type AdventureWorksConfig struct {
	// SearchPath is applied as the Postgres search_path of every pooled
	// connection so unqualified `product` / `person` resolve to the sample schemas.
	SearchPath []string `koanf:"search_path"`

	// CacheTTL is how long top-10 results stay in Redis. Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets (Clerk secret key).
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party integration settings.
//
// Report emails are only sent when both ResendAPIKey and ReportRecipient are set.
type IntegrationConfig struct {
	ResendAPIKey    string `koanf:"resend_api_key"`
	ReportRecipient string `koanf:"report_recipient" validate:"omitempty,email"`
	ReportSender    string `koanf:"report_sender"`
}

// EmailEnabled reports whether verification report emails can be sent.
func (i IntegrationConfig) EmailEnabled() bool {
	return i.ResendAPIKey != "" && i.ReportRecipient != ""
}

// CatalogConfig controls practice-catalog verification.
type CatalogConfig struct {
	// VerifyConcurrency bounds how many problems are verified in parallel.
	VerifyConcurrency int `koanf:"verify_concurrency" validate:"min=1,max=64"`

	// VerifySchedule is a cron spec for the periodic verify-all job.
	// Empty disables the schedule.
	VerifySchedule string `koanf:"verify_schedule"`
}

// DefaultCatalogConfig returns the catalog defaults.
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		VerifyConcurrency: 4,
		VerifySchedule:    "",
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix DATABASEHUB_
//   - Converts env keys into koanf keys ("__" -> ".")
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default observability/catalog blocks if missing
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	// Using "" means "unmarshal everything from the root".
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return finalize(mainConfig)
}

// envKey maps DATABASEHUB_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// finalize validates a decoded config and injects defaults.
func finalize(cfg *Config) (*Config, error) {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}

	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalogConfig()
	}
	if err := validate.Struct(cfg.Catalog); err != nil {
		return nil, fmt.Errorf("catalog config validation failed: %w", err)
	}

	if len(cfg.AdventureWorks.SearchPath) == 0 {
		cfg.AdventureWorks.SearchPath = []string{"production", "person", "sales", "public"}
	}

	// Service name and environment are forced regardless of what the user set,
	// so tracing/logging sees consistent naming.
	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}
