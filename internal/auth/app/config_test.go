package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here

	for _, key := range []string{
		"SERVICE_NAME", "AUTH_ISSUER", "AUTH_ACCESS_TOKEN_TTL", "AUTH_REFRESH_TOKEN_TTL", "AUTH_CODE_TTL",
		"AUTH_DATABASE_DRIVER", "AUTH_DATABASE_FILE", "DB_URL", "PORT", "RESEND_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "accounts", cfg.ServiceName)
	require.Equal(t, "accounts", cfg.Issuer)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.CodeTTL)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "accounts.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("AUTH_CODE_TTL", "90") // integer minutes
	t.Setenv("AUTH_DATABASE_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://u:p@localhost/accounts")
	t.Setenv("PORT", "not-a-port")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 90*time.Minute, cfg.CodeTTL)
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv only fills variables that are absent; t.Setenv restores the
	// original value afterwards.
	t.Setenv("AUTH_ISSUER", "")
	require.NoError(t, os.Unsetenv("AUTH_ISSUER"))
	t.Setenv("EMAIL_FROM", "from-env@x.com")

	require.NoError(t, writeFile(dir+"/.env", "AUTH_ISSUER=from-dotenv\nEMAIL_FROM=from-dotenv@x.com\n"))

	cfg := LoadConfig()
	require.Equal(t, "from-dotenv", cfg.Issuer)
	require.Equal(t, "from-env@x.com", cfg.EmailFrom, "real environment wins over .env")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		DatabaseDriver:  DriverSQLite,
		DatabaseFile:    "accounts.db",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Port:            8080,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Second }},
		{"negative code ttl", func(c *Config) { c.CodeTTL = -time.Second }},
		{"admin email without password", func(c *Config) { c.BootstrapAdminEmail = "root@x.com" }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
