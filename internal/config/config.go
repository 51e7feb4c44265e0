// Package config loads aetherscript-lsp's runtime configuration:
// CLI flags, an optional project file, and built-in defaults, in that
// order of precedence.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration for the server and CLI.
type Config struct {
	LogFile               string `mapstructure:"logFile"`
	LogLevel              string `mapstructure:"logLevel"`
	MaxDiagnosticsPerFile int    `mapstructure:"maxDiagnosticsPerFile"`
}

// Load resolves Config from flags (highest precedence), an optional
// .aetherscript.yaml project file, and built-in defaults (lowest
// precedence). flags may be nil, in which case only the project file
// and defaults apply.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("logFile", "")
	v.SetDefault("logLevel", "INFO")
	v.SetDefault("maxDiagnosticsPerFile", 200)

	v.SetConfigName(".aetherscript")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .aetherscript.yaml: %w", err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("log-file"); f != nil {
			if err := v.BindPFlag("logFile", f); err != nil {
				return nil, fmt.Errorf("failed to bind --log-file: %w", err)
			}
		}
		if f := flags.Lookup("log-level"); f != nil {
			if err := v.BindPFlag("logLevel", f); err != nil {
				return nil, fmt.Errorf("failed to bind --log-level: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL":
	default:
		return fmt.Errorf("logLevel must be one of DEBUG|INFO|WARNING|ERROR|CRITICAL, got: %s", cfg.LogLevel)
	}
	if cfg.MaxDiagnosticsPerFile < 0 {
		return fmt.Errorf("maxDiagnosticsPerFile must be >= 0, got: %d", cfg.MaxDiagnosticsPerFile)
	}
	return nil
}
