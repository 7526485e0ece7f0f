package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ServiceName string // Optional: service label on logs and metrics (default: accounts)
	Issuer      string // Optional: issuer claim for tokens (default: accounts)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 7 days)
	CodeTTL         time.Duration // Optional: activation/reset code lifetime, 0 = unbounded (default: 24h)

	SigningKeyFile string // Optional: PEM file with the Ed25519 signing key; empty = ephemeral keys
	NumKeys        int    // Optional: number of ephemeral signing keys (default: 1)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./accounts.db)
	DatabaseURL    string // Required for postgres: connection string

	ResendAPIKey string // Optional: enables email delivery through Resend
	EmailFrom    string // Optional: sender address (default: no-reply@localhost)

	BootstrapAdminEmail    string // Optional: first superuser, created when the store is empty
	BootstrapAdminPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the configuration from the environment. Variables from a
// .env file in the working directory are loaded first when present and never
// override the real environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		ServiceName:            getEnvOrDefault("SERVICE_NAME", "accounts"),
		Issuer:                 getEnvOrDefault("AUTH_ISSUER", "accounts"),
		AccessTokenTTL:         getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:        getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		CodeTTL:                getEnvDurationOrDefault("AUTH_CODE_TTL", 24*time.Hour),
		SigningKeyFile:         os.Getenv("AUTH_SIGNING_KEY_FILE"),
		NumKeys:                getEnvIntOrDefault("AUTH_NUM_KEYS", 1),
		PepperFile:             getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		DatabaseDriver:         getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:           getEnvOrDefault("AUTH_DATABASE_FILE", "accounts.db"),
		DatabaseURL:            os.Getenv("DB_URL"),
		ResendAPIKey:           os.Getenv("RESEND_API_KEY"),
		EmailFrom:              getEnvOrDefault("EMAIL_FROM", "no-reply@localhost"),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		Env:                    getEnvOrDefault("ENV", "dev"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                   getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:    getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:   getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE must not be empty"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DB_URL is required with the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_REFRESH_TOKEN_TTL must be positive"))
	}
	if c.CodeTTL < 0 {
		errs = append(errs, errors.New("AUTH_CODE_TTL must not be negative"))
	}
	if (c.BootstrapAdminEmail == "") != (c.BootstrapAdminPassword == "") {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
