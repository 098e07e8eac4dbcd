package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitterBackoff(t *testing.T) {
	rng := newRetryRNG(42)

	t.Run("first delay is the base", func(t *testing.T) {
		got := jitterBackoff(0, 100*time.Millisecond, 2.0, 5*time.Second, rng)
		require.Equal(t, 100*time.Millisecond, got)
	})

	t.Run("grows but never exceeds the cap", func(t *testing.T) {
		base := 100 * time.Millisecond
		capDur := time.Second

		prev := time.Duration(0)
		for range 20 {
			prev = jitterBackoff(prev, base, 2.0, capDur, rng)
			require.GreaterOrEqual(t, prev, base)
			require.LessOrEqual(t, prev, capDur)
		}
	})

	t.Run("cap below base returns the cap", func(t *testing.T) {
		got := jitterBackoff(0, time.Second, 2.0, 100*time.Millisecond, rng)
		require.Equal(t, 100*time.Millisecond, got)
	})

	t.Run("multiplier below one does not shrink", func(t *testing.T) {
		prev := 200 * time.Millisecond
		got := jitterBackoff(prev, 100*time.Millisecond, 0.5, time.Second, rng)
		require.GreaterOrEqual(t, got, 100*time.Millisecond)
	})

	t.Run("non-positive base falls back", func(t *testing.T) {
		got := jitterBackoff(0, 0, 2.0, time.Second, rng)
		require.Equal(t, 50*time.Millisecond, got)
	})

	t.Run("nil rng uses the package PRNG", func(t *testing.T) {
		got := jitterBackoff(100*time.Millisecond, 50*time.Millisecond, 2.0, time.Second, nil)
		require.GreaterOrEqual(t, got, 50*time.Millisecond)
		require.LessOrEqual(t, got, time.Second)
	})
}

func TestNewRetryRNG(t *testing.T) {
	require.Nil(t, newRetryRNG(0))
	require.NotNil(t, newRetryRNG(7))

	// Same seed, same sequence.
	a, b := newRetryRNG(7), newRetryRNG(7)
	for range 10 {
		require.Equal(t, a.Int64N(1<<30), b.Int64N(1<<30))
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero queue size", func(cfg *Config) { cfg.QueueSize = 0 }},
		{"zero max attempts", func(cfg *Config) { cfg.MaxAttempts = 0 }},
		{"zero retry base", func(cfg *Config) { cfg.RetryBase = 0 }},
		{"cap below base", func(cfg *Config) {
			cfg.RetryBase = time.Second
			cfg.RetryCap = time.Millisecond
		}},
		{"zero flush timeout", func(cfg *Config) { cfg.FlushTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
