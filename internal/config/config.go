// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds the ledger service configuration.
type Config struct {
	Environment string
	Addr        string

	MaxBodyBytes     int64
	RateCapacity     int
	RateRefillPerSec float64

	// Comma-separated CIDRs; empty means allow all.
	IPAllowlist []string

	// TLS is optional; the server listens in plaintext when CertFile
	// and KeyFile are unset.
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      getenv("APP_ENV", "development"),
		Addr:             getenv("LEDGER_ADDR", ":8080"),
		MaxBodyBytes:     getenvInt64("LEDGER_MAX_BODY_BYTES", 1<<20),
		RateCapacity:     getenvInt("LEDGER_RATE_CAPACITY", 20),
		RateRefillPerSec: float64(getenvInt("LEDGER_RATE_REFILL_PER_SEC", 10)),
		TLSCertFile:      os.Getenv("LEDGER_TLS_CERT"),
		TLSKeyFile:       os.Getenv("LEDGER_TLS_KEY"),
		TLSCAFile:        os.Getenv("LEDGER_TLS_CA"),
	}

	if raw := os.Getenv("LEDGER_IP_ALLOWLIST"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.IPAllowlist = append(cfg.IPAllowlist, c)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "LEDGER_ADDR must not be empty")
	}
	if c.MaxBodyBytes < 0 {
		problems = append(problems, "LEDGER_MAX_BODY_BYTES must not be negative")
	}
	if c.RateCapacity < 0 {
		problems = append(problems, "LEDGER_RATE_CAPACITY must not be negative")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		problems = append(problems, "LEDGER_TLS_CERT and LEDGER_TLS_KEY must be set together")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// TLSEnabled reports whether the server should terminate TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}
