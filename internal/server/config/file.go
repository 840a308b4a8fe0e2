package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/flagx"
	"github.com/dmitrijs2005/pulsecheck/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the server configuration. Duration
// fields use timex.Duration so both "90s" and integer nanoseconds parse.
//
// Keys absent from the file keep their current value.
type FileConfig struct {
	EnvName               string         `json:"env_name" yaml:"env_name"`
	EndpointAddrHTTP      string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrHTTPS     string         `json:"endpoint_addr_https" yaml:"endpoint_addr_https"`
	TLSCertFile           string         `json:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile            string         `json:"tls_key_file" yaml:"tls_key_file"`
	HashingSecret         string         `json:"hashing_secret" yaml:"hashing_secret"`
	MaxChecks             int            `json:"max_checks" yaml:"max_checks"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	StorageBackend        string         `json:"storage_backend" yaml:"storage_backend"`
	DataDir               string         `json:"data_dir" yaml:"data_dir"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	S3RootUser            string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region              string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	RateLimitRPS          float64        `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst        int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	OTLPEndpoint          string         `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
}

func fileConfigFrom(c *Config) *FileConfig {
	return &FileConfig{
		EnvName:               c.EnvName,
		EndpointAddrHTTP:      c.EndpointAddrHTTP,
		EndpointAddrHTTPS:     c.EndpointAddrHTTPS,
		TLSCertFile:           c.TLSCertFile,
		TLSKeyFile:            c.TLSKeyFile,
		HashingSecret:         c.HashingSecret,
		MaxChecks:             c.MaxChecks,
		TokenValidityDuration: timex.Duration{Duration: c.TokenValidityDuration},
		StorageBackend:        c.StorageBackend,
		DataDir:               c.DataDir,
		DatabaseDSN:           c.DatabaseDSN,
		S3RootUser:            c.S3RootUser,
		S3RootPassword:        c.S3RootPassword,
		S3Bucket:              c.S3Bucket,
		S3Region:              c.S3Region,
		S3BaseEndpoint:        c.S3BaseEndpoint,
		RateLimitRPS:          c.RateLimitRPS,
		RateLimitBurst:        c.RateLimitBurst,
		OTLPEndpoint:          c.OTLPEndpoint,
		LogLevel:              c.LogLevel,
	}
}

func (f *FileConfig) apply(c *Config) {
	c.EnvName = f.EnvName
	c.EndpointAddrHTTP = f.EndpointAddrHTTP
	c.EndpointAddrHTTPS = f.EndpointAddrHTTPS
	c.TLSCertFile = f.TLSCertFile
	c.TLSKeyFile = f.TLSKeyFile
	c.HashingSecret = f.HashingSecret
	c.MaxChecks = f.MaxChecks
	c.TokenValidityDuration = f.TokenValidityDuration.Duration
	c.StorageBackend = f.StorageBackend
	c.DataDir = f.DataDir
	c.DatabaseDSN = f.DatabaseDSN
	c.S3RootUser = f.S3RootUser
	c.S3RootPassword = f.S3RootPassword
	c.S3Bucket = f.S3Bucket
	c.S3Region = f.S3Region
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.RateLimitRPS = f.RateLimitRPS
	c.RateLimitBurst = f.RateLimitBurst
	c.OTLPEndpoint = f.OTLPEndpoint
	c.LogLevel = f.LogLevel
}

// parseFile overlays values from the file named by -c / -config onto config.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
// A missing flag means no file is loaded. Read or decode failures panic.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	if err := decodeFile(config, path, data); err != nil {
		panic(err)
	}
}

func decodeFile(config *Config, path string, data []byte) error {
	fc := fileConfigFrom(config)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return err
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return err
		}
	}

	fc.apply(config)
	return nil
}
