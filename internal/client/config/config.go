package config

import "time"

// Config holds runtime settings for the storefront client.
//
// Fields:
//   - APIBaseURL: base URL of the bookstore backend, no trailing slash.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: SQLite file backing the durable key/value store.
//   - PendingRefreshInterval: minimum gap between pending-order refreshes.
type Config struct {
	APIBaseURL             string
	DatabasePath           string
	RequestTimeout         time.Duration
	PendingRefreshInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.DatabasePath = "storefront.db"
	c.RequestTimeout = 10 * time.Second
	c.PendingRefreshInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
