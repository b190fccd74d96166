// Package config defines the reporter configuration: explicit options or a YAML file,
// overridable knob by knob from the environment. Precedence is environment variable over
// explicit option over built-in default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/filter"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/sink/appveyor"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/util"
)

// Config is the root configuration of the reporter
type Config struct {
	URL           string                `yaml:"url"`           // ingestion endpoint; empty disables reporting entirely
	BatchSize     int                   `yaml:"batchSize"`     // queued results triggering an immediate flush
	FlushInterval time.Duration         `yaml:"flushInterval"` // periodic flush interval
	Framework     string                `yaml:"framework"`     // default framework name for events that carry none
	HTTP          appveyor.ClientConfig `yaml:"http"`
	Filter        filter.Config         `yaml:"filter"`
}

// Default returns the built-in defaults; URL stays empty on purpose
func Default() Config {
	return Config{
		URL:           "",
		BatchSize:     defs.RelayDefaultBatchSize,
		FlushInterval: defs.RelayDefaultFlushInterval,
		Framework:     "mocha",
		HTTP: appveyor.ClientConfig{
			Timeout:     defs.SinkDefaultHTTPTimeout,
			MaxBodySize: datasize.ByteSize(defs.SinkDefaultMaxBodyBytes),
			Compress:    false,
		},
		Filter: filter.Config{},
	}
}

// Load builds the effective configuration: defaults, then the optional YAML file, then
// environment overrides on top
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := util.UnmarshalYamlFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.VerifyConfig()
}

// ApplyEnvOverrides overwrites individual knobs from recognized environment variables
func (cfg *Config) ApplyEnvOverrides() error {
	if apiURL := os.Getenv(defs.EnvVarAPIURL); apiURL != "" {
		cfg.URL = apiURL
	}
	if rawSize := os.Getenv(defs.EnvVarBatchSize); rawSize != "" {
		size, err := strconv.Atoi(rawSize)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", defs.EnvVarBatchSize, rawSize, err)
		}
		cfg.BatchSize = size
	}
	if rawInterval := os.Getenv(defs.EnvVarBatchIntervalMS); rawInterval != "" {
		intervalMS, err := strconv.Atoi(rawInterval)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", defs.EnvVarBatchIntervalMS, rawInterval, err)
		}
		cfg.FlushInterval = time.Duration(intervalMS) * time.Millisecond
	}
	return nil
}

// VerifyConfig verifies the whole configuration
func (cfg *Config) VerifyConfig() error {
	if cfg.URL != "" {
		if err := appveyor.VerifyEndpointURL(cfg.URL); err != nil {
			return err
		}
	}
	if cfg.BatchSize < 1 {
		return fmt.Errorf(".batchSize must be at least 1: %d", cfg.BatchSize)
	}
	if cfg.FlushInterval <= 0 {
		return fmt.Errorf(".flushInterval must be positive: %s", cfg.FlushInterval)
	}
	if err := cfg.HTTP.VerifyConfig(); err != nil {
		return fmt.Errorf(".http%s", err.Error())
	}
	if err := cfg.Filter.VerifyConfig(); err != nil {
		return fmt.Errorf(".filter%s", err.Error())
	}
	return nil
}
