package config

import "github.com/papertrade/portal/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: "10s",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/portal",
			},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
