package config

import (
	"os"
	"time"
)

// Config holds runtime settings of the civicwatch client.
type Config struct {
	APIBaseURL         string
	DatabasePath       string
	ListPollInterval   time.Duration
	DetailPollInterval time.Duration
	RequestTimeout     time.Duration
	LogFormat          string
	Debug              bool
	NoPersist          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "civicwatch.db"
	c.ListPollInterval = 15 * time.Second
	c.DetailPollInterval = 10 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogFormat = "text"
}

// Load builds a Config from defaults, the environment, JSON and the flags
// found in args. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
