// Package config loads service configuration from an optional YAML
// file with environment-variable overrides for the settings that
// change between deployments.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brightfield/wellspring/internal/httpapi"
	"github.com/brightfield/wellspring/internal/sweep"
)

// Config is the structure of wellspring.yaml
type Config struct {
	// Addr is the HTTP listen address
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file path
	DBPath string `yaml:"db_path"`

	// Verbose enables debug logging
	Verbose bool `yaml:"verbose"`

	HTTP  httpapi.Config `yaml:"http"`
	Sweep SweepFile      `yaml:"sweep"`
}

// SweepFile mirrors sweep.Config with duration strings so YAML stays
// readable ("30s", "5m")
type SweepFile struct {
	DonationInterval string `yaml:"donation_interval"`
	EmailInterval    string `yaml:"email_interval"`
	TierInterval     string `yaml:"tier_interval"`
	CoachInterval    string `yaml:"coach_interval"`
	DonationGrace    string `yaml:"donation_grace"`
	BatchSize        int    `yaml:"batch_size"`
	MaxEmailAttempts int    `yaml:"max_email_attempts"`
	LockTTL          string `yaml:"lock_ttl"`
}

// Default returns the local-development configuration
func Default() *Config {
	return &Config{
		Addr:   ":8080",
		DBPath: "data/wellspring.db",
		HTTP: httpapi.Config{
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// Load reads the config file at path if it exists, then applies
// environment overrides. A missing file is not an error; defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if v := os.Getenv("WELLSPRING_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("WELLSPRING_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WELLSPRING_VERBOSE"); v == "1" || v == "true" {
		cfg.Verbose = true
	}

	return cfg, nil
}

// SweepConfig converts the file representation to sweep settings,
// falling back to sweep defaults for anything unset
func (c *Config) SweepConfig() (*sweep.Config, error) {
	sc := sweep.DefaultConfig()

	set := func(dst *time.Duration, raw, name string) error {
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		*dst = d
		return nil
	}

	if err := set(&sc.DonationInterval, c.Sweep.DonationInterval, "donation_interval"); err != nil {
		return nil, err
	}
	if err := set(&sc.EmailInterval, c.Sweep.EmailInterval, "email_interval"); err != nil {
		return nil, err
	}
	if err := set(&sc.TierInterval, c.Sweep.TierInterval, "tier_interval"); err != nil {
		return nil, err
	}
	if err := set(&sc.CoachInterval, c.Sweep.CoachInterval, "coach_interval"); err != nil {
		return nil, err
	}
	if err := set(&sc.DonationGrace, c.Sweep.DonationGrace, "donation_grace"); err != nil {
		return nil, err
	}
	if err := set(&sc.LockTTL, c.Sweep.LockTTL, "lock_ttl"); err != nil {
		return nil, err
	}
	if c.Sweep.BatchSize > 0 {
		sc.BatchSize = c.Sweep.BatchSize
	}
	if c.Sweep.MaxEmailAttempts > 0 {
		sc.MaxEmailAttempts = c.Sweep.MaxEmailAttempts
	}

	return sc, nil
}
