package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	Env               string
	Secret            string
	HTTPPort          string
	DatabaseDriver    string
	DatabaseDSN       string
	RedisAddr         string
	OtelEndpoint      string
	ProductCatalog    string
	LowStockThreshold int64
	AdminUsername     string
	AdminPassword     string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		Env:            getenv("APP_ENV", "development"),
		Secret:         getenv("SECRET", "dev_secret"),
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		DatabaseDriver: getenv("DATABASE_DRIVER", "sqlite"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		ProductCatalog: getenv("PRODUCT_CATALOG", "assets/products.csv"),
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		switch cfg.DatabaseDriver {
		case "mysql":
			cfg.DatabaseDSN = "root:root@tcp(localhost:3306)/bazar?clientFoundRows=true"
		default:
			cfg.DatabaseDSN = "file:bazar.db?_pragma=foreign_keys(1)"
		}
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	cfg.LowStockThreshold = 5
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			log.Printf("invalid LOW_STOCK_THRESHOLD value %q, defaulting to 5", raw)
		} else {
			cfg.LowStockThreshold = n
		}
	}

	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		log.Printf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together, skipping admin bootstrap")
		cfg.AdminUsername, cfg.AdminPassword = "", ""
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
