package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/flagx"
)

var knownFlags = []string{
	"-a", "-s", "-cert", "-key", "-k", "-m", "-t", "-b", "-D", "-d",
	"-u", "-p", "-n", "-g", "-e", "-r", "-burst", "-o", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    HTTP bind address (e.g. ":3000")
//	-s string    HTTPS bind address (e.g. ":3001")
//	-cert string TLS certificate file
//	-key string  TLS key file
//	-k string    password hashing secret
//	-m int       max checks per user
//	-t int       token validity, minutes
//	-b string    storage backend (badger, postgres, sqlite, s3)
//	-D string    data directory / sqlite file
//	-d string    PostgreSQL DSN
//	-u, -p       S3 root user / password
//	-n string    S3 bucket name
//	-g string    S3 region
//	-e string    S3 base endpoint
//	-r float     rate limit, requests per second per client (<=0 disables)
//	-burst int   rate limit burst
//	-o string    OTLP gRPC endpoint
//	-l string    log level
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// components do not break parsing. The token validity is given in minutes.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTPS, "s", config.EndpointAddrHTTPS, "HTTPS address and port to run server")
	fs.StringVar(&config.TLSCertFile, "cert", config.TLSCertFile, "TLS certificate file")
	fs.StringVar(&config.TLSKeyFile, "key", config.TLSKeyFile, "TLS key file")
	fs.StringVar(&config.HashingSecret, "k", config.HashingSecret, "password hashing secret")
	fs.IntVar(&config.MaxChecks, "m", config.MaxChecks, "max checks per user")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DataDir, "D", config.DataDir, "data directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "n", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.Float64Var(&config.RateLimitRPS, "r", config.RateLimitRPS, "rate limit (requests per second per client)")
	fs.IntVar(&config.RateLimitBurst, "burst", config.RateLimitBurst, "rate limit burst")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP gRPC endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
