// Package config loads runtime settings for the POS client.
package config

import "time"

// Config holds runtime settings for the POS client.
//
// Fields:
//   - ServerBaseURL: base URL of the sales service REST API.
//   - APIToken: opaque bearer token forwarded on every request.
//   - DatabasePath: path of the local SQLite file.
//   - SyncInterval: how often the sync engine drains the pending queue.
//   - RequestTimeout: bound on each individual network attempt.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - MaxAttemptsPerDrain: delivery attempts per record within one drain pass.
type Config struct {
	ServerBaseURL       string
	APIToken            string
	DatabasePath        string
	SyncInterval        time.Duration
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	MaxAttemptsPerDrain int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.APIToken = ""
	c.DatabasePath = "pos.db"
	c.SyncInterval = 30 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxAttemptsPerDrain = 3
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
