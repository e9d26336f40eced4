package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. An optional
// .env file in the working directory is loaded first; a missing file is
// not an error. Interval variables use time.ParseDuration syntax ("5s");
// a malformed value is ignored and the earlier value kept.
//
// Recognized variables:
//
//	API_BASE_URL
//	DATABASE_PATH
//	REQUEST_TIMEOUT
//	PENDING_REFRESH_INTERVAL
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("PENDING_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PendingRefreshInterval = d
		}
	}
}
