// Package config collects runtime configuration from the environment and
// validates it once at startup, so a malformed deployment fails fast instead
// of surfacing mid-request.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the knobs for the orders service.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DBPath string

	// ProductServiceURL is the base URL of the product catalog. Ignored
	// when CatalogValidation is false.
	ProductServiceURL string
	CatalogTimeout    time.Duration
	// CatalogValidation selects the real catalog client (true) or the
	// accept-everything no-op (false). One workflow code path either way.
	CatalogValidation bool

	// RedisAddr enables idempotency-key replay when non-empty.
	RedisAddr string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(n) * time.Second
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":3002"),
		ShutdownTimeout:   durenvs("SHUTDOWN_TIMEOUT", 10),
		DBPath:            getenv("DB_PATH", "./data/orders.db"),
		ProductServiceURL: getenv("PRODUCT_SERVICE_URL", "http://localhost:3001"),
		CatalogTimeout:    durenvs("CATALOG_TIMEOUT", 5),
		CatalogValidation: boolenv("CATALOG_VALIDATION", true),
		RedisAddr:         getenv("REDIS_ADDR", ""),
	}
}

// Validate rejects configurations that cannot work.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: DB_PATH must not be empty")
	}
	if c.CatalogValidation {
		u, err := url.Parse(c.ProductServiceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: PRODUCT_SERVICE_URL %q is not a valid URL", c.ProductServiceURL)
		}
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("config: CATALOG_TIMEOUT must be positive")
	}
	return nil
}
