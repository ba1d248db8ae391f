// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the groupboard server.
//
// Fields:
//   - Port: port shared by the UDP control plane and the TCP bulk plane.
//   - Verbose: when set, per-request detail is logged (the -v flag).
//   - FilesDir: directory where posted attachments are staged until
//     shutdown; relative paths resolve against the working directory.
type Config struct {
	Port     string
	Verbose  bool
	FilesDir string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = "58001"
	c.Verbose = false
	c.FilesDir = "files"
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
