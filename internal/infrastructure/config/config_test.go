package config

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"STORE_APP_NAME",
	"STORE_APP_ENV",
	"STORE_APP_PORT",
	"STORE_APP_DEFAULT_LOCALE",
	"STORE_DATABASE_DRIVER",
	"STORE_DATABASE_HOST",
	"STORE_DATABASE_PORT",
	"STORE_DATABASE_USER",
	"STORE_DATABASE_PASSWORD",
	"STORE_DATABASE_DBNAME",
	"STORE_DATABASE_SSLMODE",
	"STORE_DATABASE_MAX_OPEN_CONNS",
	"STORE_DATABASE_MAX_IDLE_CONNS",
	"STORE_JWT_SECRET",
	"STORE_STORAGE_ENABLED",
	"STORE_TELEMETRY_SAMPLING_RATIO",
}

// clearEnv blanks every managed variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "en", cfg.App.DefaultLocale)
		assert.Equal(t, []string{"en", "ru", "kk"}, cfg.App.SupportedLocales)
		assert.Equal(t, "USD", cfg.App.DefaultCurrency)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "USD", cfg.Currency.Base)
		assert.Equal(t, "storefront-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_APP_NAME", "test-app")
		t.Setenv("STORE_APP_PORT", "9000")
		t.Setenv("STORE_APP_DEFAULT_LOCALE", "ru")
		t.Setenv("STORE_DATABASE_DRIVER", "sqlite")
		t.Setenv("STORE_DATABASE_HOST", "testdb.local")
		t.Setenv("STORE_DATABASE_PORT", "5433")
		t.Setenv("STORE_DATABASE_PASSWORD", "testpass")
		t.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "ru", cfg.App.DefaultLocale)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_APP_ENV", "production")
		t.Setenv("STORE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("STORE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("STORE_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("STORE_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("STORE_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode cannot be 'disable'")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})
}

func TestParseRates(t *testing.T) {
	rates, err := parseRates(map[string]string{"eur": "0.92", "KZT": " 470.5 "})
	require.NoError(t, err)
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.92")))
	assert.True(t, rates["KZT"].Equal(decimal.RequireFromString("470.5")))

	_, err = parseRates(map[string]string{"EUR": "abc"})
	assert.Error(t, err)
}

func TestValidate_CurrencyRates(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Currency.Rates = map[string]decimal.Decimal{"EUR": decimal.Zero}

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency.rates.EUR")
}

func TestValidate_StripeRequiresKeys(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Payments.StripeEnabled = true

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payments.stripe_secret_key")

	cfg.Payments.StripeSecretKey = "sk_test_1"
	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payments.stripe_webhook_secret")

	cfg.Payments.StripeWebhookSecret = "whsec_1"
	assert.NoError(t, cfg.validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
