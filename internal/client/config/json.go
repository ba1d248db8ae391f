package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/groupboard/internal/flagx"
)

// jsonConfig mirrors Config for JSON unmarshalling. It is an intermediate
// DTO; after unmarshalling its fields are copied into the runtime Config.
// The timeout is given in whole seconds.
type jsonConfig struct {
	Host           string `json:"host"`
	Port           string `json:"port"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Retries        uint64 `json:"retries"`
	DownloadDir    string `json:"download_dir"`
}

// parseJSON loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: a config file that was asked for but cannot be used is not a
// condition to start under. Fields absent from the file keep their
// current values.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Host != "" {
		config.Host = c.Host
	}
	if c.Port != "" {
		config.Port = c.Port
	}
	if c.TimeoutSeconds > 0 {
		config.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.Retries > 0 {
		config.Retries = c.Retries
	}
	if c.DownloadDir != "" {
		config.DownloadDir = c.DownloadDir
	}
}
