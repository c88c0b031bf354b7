package config

import "time"

// Config holds runtime settings for the Merimaa feed CLI.
//
// Fields:
//   - APIBaseURL: base URL of the remote feed API, without a trailing slash.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: path to the local SQLite file backing durable state
//     (session record, liked-posts fallback).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://cityride.city/Meri_Maa_API/api.php"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "feed.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
