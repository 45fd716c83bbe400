package config

import "time"

// Config holds runtime settings for the Noteleaf CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - DatabaseFile: path to the local SQLite cache of anonymous notes.
//   - RequestTimeout: per-request timeout for API calls.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	ServerBaseURL  string
	DatabaseFile   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabaseFile = "noteleaf.db"
	c.RequestTimeout = 10 * time.Second
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
