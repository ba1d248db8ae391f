package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/groupboard/internal/flagx"
)

// jsonConfig mirrors Config for JSON unmarshalling. It is an intermediate
// DTO; after unmarshalling its fields are copied into the runtime Config.
type jsonConfig struct {
	Port     string `json:"port"`
	Verbose  bool   `json:"verbose"`
	FilesDir string `json:"files_dir"`
}

// parseJSON loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: a config file that was asked for but cannot be used is not a
// condition to start under.
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

	config.Port = c.Port
	config.Verbose = c.Verbose
	config.FilesDir = c.FilesDir
}
