// Package config loads settings for the pulsecheck CLI.
//
// Sources, later ones winning: built-in defaults, an optional JSON file,
// then the PULSECHECK_SERVER and PULSECHECK_TOKEN environment variables.
// Command-line flags are applied on top by the cli package.
package config

import "time"

const (
	EnvServer = "PULSECHECK_SERVER"
	EnvToken  = "PULSECHECK_TOKEN"
)

type Config struct {
	ServerURL      string
	Token          string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.Token = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, the JSON file at path (skipped
// when path is empty) and the environment as seen through getenv.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	if v := getenv(EnvServer); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	return cfg, nil
}
