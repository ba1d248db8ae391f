// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the groupboard client.
//
// Fields:
//   - Host, Port: where the server listens; the same port carries both
//     the UDP control plane and the TCP bulk plane.
//   - Timeout: how long a single UDP exchange waits for a reply before
//     the request is resent.
//   - Retries: how many times a timed-out UDP request is resent before
//     the command is reported as failed.
//   - DownloadDir: where retrieved attachments are written; relative
//     paths resolve against the working directory.
type Config struct {
	Host        string
	Port        string
	Timeout     time.Duration
	Retries     uint64
	DownloadDir string
}

// Addr returns the host:port pair commands dial.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Host = "127.0.0.1"
	c.Port = "58001"
	c.Timeout = 2 * time.Second
	c.Retries = 2
	c.DownloadDir = "downloads"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
