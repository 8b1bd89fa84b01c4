package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/bjaus/fuse"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Settings holds the tunables for one circuit. Durations are Go duration
// strings ("30s", "250ms").
type Settings struct {
	MaxFailures int    `mapstructure:"max_failures"`
	Timeout     string `mapstructure:"timeout"`
	PauseTime   string `mapstructure:"pause_time"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the loaded breaker configuration: shared defaults plus named
// per-circuit overrides. An override replaces the defaults wholly; fields
// are not merged.
type Config struct {
	Breaker  Settings            `mapstructure:"breaker"`
	Circuits map[string]Settings `mapstructure:"circuits"`
	Logging  LoggingConfig       `mapstructure:"logging"`
}

// Load reads configuration from config.yaml (in ./config or the working
// directory) and the environment, applies defaults, and validates the
// result. A missing config file is not an error; invalid settings are.
func Load() (*Config, error) {
	viper.SetDefault("breaker.max_failures", fuse.DefaultMaxFailures)
	viper.SetDefault("breaker.timeout", "30s")
	viper.SetDefault("breaker.pause_time", "0s")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// SettingsFor returns the settings for the named circuit, falling back to
// the shared defaults when no override exists.
func (c *Config) SettingsFor(name string) Settings {
	if s, ok := c.Circuits[name]; ok {
		return s
	}
	return c.Breaker
}

// Options converts the settings into fuse options.
func (s Settings) Options() ([]fuse.Option, error) {
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse timeout: %w", err)
	}
	pause, err := time.ParseDuration(s.PauseTime)
	if err != nil {
		return nil, fmt.Errorf("parse pause_time: %w", err)
	}
	return []fuse.Option{
		fuse.WithMaxFailures(s.MaxFailures),
		fuse.WithTimeout(timeout),
		fuse.WithPauseTime(pause),
	}, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Breaker,
			validation.Required,
			validation.By(validateSettings),
		),
		validation.Field(&c.Circuits,
			validation.Each(validation.By(validateSettings)),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

func validateSettings(value interface{}) error {
	s, ok := value.(Settings)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a Settings")
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.MaxFailures,
			validation.Min(0),
		),
		validation.Field(&s.Timeout,
			validation.Required,
			validation.By(validateDuration),
		),
		validation.Field(&s.PauseTime,
			validation.Required,
			validation.By(validateDuration),
		),
	)
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 30s, 250ms)")
	}

	if d < 0 {
		return validation.NewError("validation_negative_duration", "must not be negative")
	}

	return nil
}
