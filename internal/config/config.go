// Package config provides centralized configuration for handlescout:
// defaults, YAML file, HANDLESCOUT_* environment variables, and flag
// overrides, validated before the pipeline starts.
package config

import (
	"fmt"
	"time"

	"github.com/handlescout/handlescout/internal/core/gen"
)

// Config is the complete application configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Logs    LogsConfig    `mapstructure:"logs"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScanConfig describes one run's generation and pacing parameters.
type ScanConfig struct {
	// Checks is the number of new names to check this run.
	Checks int `mapstructure:"checks"`

	LengthMin int    `mapstructure:"length_min"`
	LengthMax int    `mapstructure:"length_max"`
	DigitsMin int    `mapstructure:"digits_min"`
	DigitsMax int    `mapstructure:"digits_max"`
	Require   string `mapstructure:"require"`

	// DelayMin/DelayMax bound the pacing sleep before every remote call.
	DelayMin time.Duration `mapstructure:"delay_min"`
	DelayMax time.Duration `mapstructure:"delay_max"`

	// Seed makes a run's generation reproducible when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// Constraints converts the scan bounds into a generator constraint tuple.
func (s ScanConfig) Constraints() gen.Constraints {
	return gen.Constraints{
		LengthMin: s.LengthMin,
		LengthMax: s.LengthMax,
		DigitsMin: s.DigitsMin,
		DigitsMax: s.DigitsMax,
		Require:   s.Require,
	}
}

// OracleConfig configures the RDAP availability oracle.
type OracleConfig struct {
	// Zone is the TLD handles are probed under, without a leading dot.
	Zone string `mapstructure:"zone"`

	// Server optionally pins an RDAP base URL instead of bootstrap lookup.
	Server string `mapstructure:"server"`

	Timeout time.Duration `mapstructure:"timeout"`

	// MaxRPS is a hard client-side ceiling on outbound queries per second.
	MaxRPS float64 `mapstructure:"max_rps"`
}

// LogsConfig locates the two append-only result logs.
type LogsConfig struct {
	Checked   string `mapstructure:"checked"`
	Available string `mapstructure:"available"`

	// Sync additionally fsyncs after every record. Off by default: flushed
	// writes match the log format's original durability semantics.
	Sync bool `mapstructure:"sync"`
}

// StoreConfig contains the libsql state database configuration.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ServerConfig contains HTTP server configuration for serve mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MetricsPort is where the Prometheus exporter listens; 0 picks a
	// random port.
	MetricsPort int `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level: trace, debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration, matching the tool's
// historical command-line defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Checks:    200,
			LengthMin: 5,
			LengthMax: 6,
			DelayMin:  700 * time.Millisecond,
			DelayMax:  1300 * time.Millisecond,
		},
		Oracle: OracleConfig{
			Zone:    "com",
			Timeout: 10 * time.Second,
			MaxRPS:  1,
		},
		Logs: LogsConfig{
			Checked:   "checked.txt",
			Available: "available.txt",
		},
		Store: StoreConfig{
			Driver: "libsql",
			Path:   "handlescout.db",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8313,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MetricsPort:     9090,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate rejects configurations the pipeline must never start with.
// All bounds are checked here, before any oracle call is made.
func (c *Config) Validate() error {
	if c.Scan.Checks <= 0 {
		return fmt.Errorf("scan.checks must be positive, got %d", c.Scan.Checks)
	}
	if err := c.Scan.Constraints().Validate(); err != nil {
		return err
	}
	if c.Scan.DelayMin < 0 {
		return fmt.Errorf("scan.delay_min must be >= 0, got %s", c.Scan.DelayMin)
	}
	if c.Scan.DelayMax < c.Scan.DelayMin {
		return fmt.Errorf("scan.delay_max %s is below scan.delay_min %s", c.Scan.DelayMax, c.Scan.DelayMin)
	}
	if c.Logs.Checked == "" || c.Logs.Available == "" {
		return fmt.Errorf("both log paths are required")
	}
	if c.Logs.Checked == c.Logs.Available {
		return fmt.Errorf("checked and available logs must be distinct files")
	}
	if c.Oracle.Zone == "" {
		return fmt.Errorf("oracle.zone is required")
	}
	if c.Oracle.MaxRPS <= 0 {
		return fmt.Errorf("oracle.max_rps must be positive, got %v", c.Oracle.MaxRPS)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
