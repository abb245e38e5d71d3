// Package config loads tool settings from an optional .apidiff.yaml in
// the working directory or the user's home, with APIDIFF_* environment
// overrides. Everything has a working default; the config file is never
// required.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tunable settings of an extraction pass.
type Config struct {
	// Workers caps parallel extraction; 0 means one per CPU.
	Workers int `mapstructure:"workers"`
	// MinBatch is the work-item count below which parallel dispatch is
	// skipped.
	MinBatch int `mapstructure:"min_batch"`
	// HeaderPatterns selects the headers the direct scanner reads,
	// relative to the scan root.
	HeaderPatterns []string `mapstructure:"header_patterns"`
	// IgnorePatterns excludes paths from the header scan.
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workers:  0,
		MinBatch: 20,
	}
}

// Load reads the config file if one exists and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("workers", 0)
	v.SetDefault("min_batch", 20)
	v.SetDefault("header_patterns", []string{})
	v.SetDefault("ignore_patterns", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".apidiff")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix("APIDIFF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}
	return cfg, nil
}
