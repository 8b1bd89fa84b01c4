package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/fuse/config"
)

func setup(t *testing.T) {
	t.Helper()
	viper.Reset()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.yaml"), []byte(content), 0o644))
}

func TestLoad_UsesDefaultsWhenFileMissing(t *testing.T) {
	setup(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 5, cfg.Breaker.MaxFailures)
	require.Equal(t, "30s", cfg.Breaker.Timeout)
	require.Equal(t, "0s", cfg.Breaker.PauseTime)
	require.Equal(t, config.LogLevelInfo, cfg.Logging.Level)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	setup(t)
	writeConfig(t, `
breaker:
  max_failures: 3
  timeout: "2s"
  pause_time: "250ms"

circuits:
  payment-service:
    max_failures: 1
    timeout: "10s"
    pause_time: "1s"

logging:
  level: "debug"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Breaker.MaxFailures)
	require.Equal(t, "2s", cfg.Breaker.Timeout)
	require.Equal(t, "250ms", cfg.Breaker.PauseTime)
	require.Equal(t, "debug", cfg.Logging.Level)

	override, ok := cfg.Circuits["payment-service"]
	require.True(t, ok)
	require.Equal(t, 1, override.MaxFailures)
	require.Equal(t, "10s", override.Timeout)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	setup(t)
	t.Setenv("BREAKER_MAX_FAILURES", "7")
	t.Setenv("BREAKER_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 7, cfg.Breaker.MaxFailures)
	require.Equal(t, "5s", cfg.Breaker.Timeout)
}

func TestLoad_RejectsInvalidDuration(t *testing.T) {
	setup(t)
	writeConfig(t, `
breaker:
  max_failures: 3
  timeout: "not a duration"
  pause_time: "0s"
`)

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be a valid duration")
}

func TestLoad_RejectsNegativeDuration(t *testing.T) {
	setup(t)
	writeConfig(t, `
breaker:
  max_failures: 3
  timeout: "-2s"
  pause_time: "0s"
`)

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be negative")
}

func TestLoad_RejectsUnknownLogLevel(t *testing.T) {
	setup(t)
	writeConfig(t, `
logging:
  level: "loud"
`)

	_, err := config.Load()
	require.Error(t, err)
}

func TestSettings_Options(t *testing.T) {
	s := config.Settings{
		MaxFailures: 3,
		Timeout:     "2s",
		PauseTime:   "250ms",
	}

	opts, err := s.Options()
	require.NoError(t, err)
	require.Len(t, opts, 3)
}

func TestSettings_OptionsRejectsBadDuration(t *testing.T) {
	tests := map[string]config.Settings{
		"bad timeout":    {MaxFailures: 1, Timeout: "soon", PauseTime: "0s"},
		"bad pause time": {MaxFailures: 1, Timeout: "2s", PauseTime: "shortly"},
	}

	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Options()
			require.Error(t, err)
		})
	}
}

func TestConfig_SettingsFor(t *testing.T) {
	cfg := &config.Config{
		Breaker: config.Settings{MaxFailures: 5, Timeout: "30s", PauseTime: "0s"},
		Circuits: map[string]config.Settings{
			"flaky": {MaxFailures: 1, Timeout: "2s", PauseTime: "500ms"},
		},
	}

	require.Equal(t, 1, cfg.SettingsFor("flaky").MaxFailures)
	require.Equal(t, 5, cfg.SettingsFor("unknown").MaxFailures, "falls back to shared defaults")
}

func TestSettings_OptionsYieldUsableDurations(t *testing.T) {
	s := config.Settings{MaxFailures: 2, Timeout: "1500ms", PauseTime: "2s"}

	timeout, err := time.ParseDuration(s.Timeout)
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, timeout)

	opts, err := s.Options()
	require.NoError(t, err)
	require.NotEmpty(t, opts)
}
