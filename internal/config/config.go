// Package config provides configuration types and loading for agentdeck.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Paths, Server, Limits.
type Config struct {
	Paths  PathsConfig  `json:"paths"`
	Server ServerConfig `json:"server"`
	Limits LimitsConfig `json:"limits"`
}

// PathsConfig groups all filesystem path settings.
type PathsConfig struct {
	DataDir string `json:"dataDir" envconfig:"DATA_DIR"`
}

// ServerConfig contains dashboard HTTP server settings.
type ServerConfig struct {
	Host              string        `json:"host" envconfig:"HOST"`
	Port              int           `json:"port" envconfig:"PORT"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	HeartbeatInterval time.Duration `json:"heartbeatInterval" envconfig:"HEARTBEAT_INTERVAL"`
}

// LimitsConfig bounds list and search requests.
type LimitsConfig struct {
	DefaultPageSize    int `json:"defaultPageSize" envconfig:"DEFAULT_PAGE_SIZE"`
	MaxPageSize        int `json:"maxPageSize" envconfig:"MAX_PAGE_SIZE"`
	DefaultSearchLimit int `json:"defaultSearchLimit" envconfig:"DEFAULT_SEARCH_LIMIT"`
	MaxSearchLimit     int `json:"maxSearchLimit" envconfig:"MAX_SEARCH_LIMIT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: "~/.agentdeck/data",
		},
		Server: ServerConfig{
			Host:              "127.0.0.1", // Secure default
			Port:              8417,
			ShutdownTimeout:   10 * time.Second,
			HeartbeatInterval: 30 * time.Second,
		},
		Limits: LimitsConfig{
			DefaultPageSize:    50,
			MaxPageSize:        200,
			DefaultSearchLimit: 20,
			MaxSearchLimit:     100,
		},
	}
}
