package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/flagx"
	"github.com/dmitrijs2005/civicwatch/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the current value untouched.
type JSONConfig struct {
	APIBaseURL         string          `json:"api_base_url"`
	DatabasePath       string          `json:"database_path"`
	ListPollInterval   *timex.Duration `json:"list_poll_interval"`
	DetailPollInterval *timex.Duration `json:"detail_poll_interval"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	LogFormat          string          `json:"log_format"`
}

// parseJSON overlays cfg with the JSON file given by -c or -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	for _, d := range []struct {
		name  string
		value *timex.Duration
		dst   *time.Duration
	}{
		{"list_poll_interval", jc.ListPollInterval, &cfg.ListPollInterval},
		{"detail_poll_interval", jc.DetailPollInterval, &cfg.DetailPollInterval},
		{"request_timeout", jc.RequestTimeout, &cfg.RequestTimeout},
	} {
		if d.value == nil {
			continue
		}
		if d.value.Duration <= 0 {
			return fmt.Errorf("parse config %s: %s must be positive, got %s", path, d.name, d.value.Duration)
		}
		*d.dst = d.value.Duration
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	return nil
}
