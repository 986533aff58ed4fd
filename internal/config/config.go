package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for room-index.
type Config struct {
	Scrape ScrapeConfig `toml:"scrape"`
	Output OutputConfig `toml:"output"`
	Server ServerConfig `toml:"server"`
	Extra  ExtraConfig  `toml:"extra"`
}

type ScrapeConfig struct {
	CatalogueURL     string `toml:"catalogue_url"`
	DirectoryURL     string `toml:"directory_url"`
	UserAgent        string `toml:"user_agent"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
	MaxRetries       int    `toml:"max_retries"`
	RequestDelayMS   int    `toml:"request_delay_ms"`
}

type OutputConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ExtraConfig is hand-curated metadata for rooms the scraped sites describe
// incompletely.
type ExtraConfig struct {
	IgnoreRooms []string            `toml:"ignore_rooms"`
	Buildings   map[string][]string `toml:"buildings"`
	Capacities  map[string]int      `toml:"capacities"`
}

// RequestTimeout returns the per-request timeout.
func (c ScrapeConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// RequestDelay returns the minimum spacing between two requests.
func (c ScrapeConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			CatalogueURL:     "https://www.kusss.jku.at",
			DirectoryURL:     "https://www.jku.at",
			UserAgent:        "jku-room-search-bot/0.1",
			RequestTimeoutMS: 5000,
			MaxRetries:       5,
			RequestDelayMS:   500,
		},
		Output: OutputConfig{Path: "index.json"},
		Server: ServerConfig{Host: "localhost", Port: 8080},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
