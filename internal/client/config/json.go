package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pulsecheck/internal/timex"
)

// JSONConfig is the file shape. request_timeout accepts "3s" or integer
// nanoseconds. Missing keys leave the current value alone.
type JSONConfig struct {
	ServerURL      string          `json:"server_url"`
	Token          string          `json:"token"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
