package splits_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noveng05/splits"
)

// warnLogger counts warning-level log calls.
type warnLogger struct {
	warns int
}

func (l *warnLogger) Debug(string, ...any) {}
func (l *warnLogger) Info(string, ...any)  {}
func (l *warnLogger) Warn(string, ...any)  { l.warns++ }
func (l *warnLogger) Error(string, ...any) {}
func (l *warnLogger) Fatal(string, ...any) {}

func TestDefaultConfig(t *testing.T) {
	cfg := splits.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "split_visitor_id", cfg.CookieName)
	require.Equal(t, 365*24*time.Hour, cfg.CookieMaxAge)
}

func TestTestConfig(t *testing.T) {
	cfg := splits.TestConfig()
	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.FetchTimeout, splits.DefaultConfig().FetchTimeout)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*splits.Config)
	}{
		{"zero fetch timeout", func(cfg *splits.Config) { cfg.FetchTimeout = 0 }},
		{"zero identity timeout", func(cfg *splits.Config) { cfg.IdentityTimeout = 0 }},
		{"empty cookie name", func(cfg *splits.Config) { cfg.CookieName = "" }},
		{"zero queue size", func(cfg *splits.Config) { cfg.Delivery.QueueSize = 0 }},
		{"zero max attempts", func(cfg *splits.Config) { cfg.Delivery.MaxAttempts = 0 }},
		{"zero retry base", func(cfg *splits.Config) { cfg.Delivery.RetryBase = 0 }},
		{"cap below base", func(cfg *splits.Config) {
			cfg.Delivery.RetryBase = time.Second
			cfg.Delivery.RetryCap = time.Millisecond
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := splits.DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), splits.ErrInvalidConfig)
		})
	}
}

func TestConfigValidateWithWarnings(t *testing.T) {
	t.Run("defaults produce no warnings", func(t *testing.T) {
		log := &warnLogger{}
		cfg := splits.DefaultConfig()
		cfg.ValidateWithWarnings(log)
		require.Zero(t, log.warns)
	})

	t.Run("long fetch timeout warns", func(t *testing.T) {
		log := &warnLogger{}
		cfg := splits.DefaultConfig()
		cfg.FetchTimeout = 30 * time.Second
		cfg.ValidateWithWarnings(log)
		require.Equal(t, 1, log.warns)
	})

	t.Run("short cookie lifetime warns", func(t *testing.T) {
		log := &warnLogger{}
		cfg := splits.DefaultConfig()
		cfg.CookieMaxAge = 24 * time.Hour
		cfg.ValidateWithWarnings(log)
		require.Equal(t, 1, log.warns)
	})
}
