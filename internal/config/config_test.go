package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SECRET", "HTTP_PORT", "DATABASE_DRIVER", "DATABASE_DSN", "REDIS_ADDR", "OTEL_ENDPOINT", "PRODUCT_CATALOG", "LOW_STOCK_THRESHOLD"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:bazar.db?_pragma=foreign_keys(1)", cfg.DatabaseDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, int64(5), cfg.LowStockThreshold)
}

func TestLoad_MySQLDefaultDSN(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()

	assert.Equal(t, "root:root@tcp(localhost:3306)/bazar?clientFoundRows=true", cfg.DatabaseDSN)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("LOW_STOCK_THRESHOLD", "-3")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int64(5), cfg.LowStockThreshold)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SECRET", "s3cret")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, int64(12), cfg.LowStockThreshold)
}

func TestLoad_AdminBootstrapNeedsBothValues(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "boss")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := Load()
	assert.Empty(t, cfg.AdminUsername)
	assert.Empty(t, cfg.AdminPassword)

	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg = Load()
	assert.Equal(t, "boss", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
}
