package notify

import (
	"fmt"
	"time"

	"github.com/noveng05/splits/types"
)

// Config controls dispatcher queueing and retry behavior.
type Config struct {
	// QueueSize is the capacity of the delivery queue. Queueing when full
	// fails fast with ErrQueueFull instead of blocking the caller.
	QueueSize int `yaml:"queueSize"`

	// RetryBase is the initial backoff after a failed delivery attempt.
	RetryBase time.Duration `yaml:"retryBase"`

	// RetryMultiplier is the backoff growth factor between attempts.
	RetryMultiplier float64 `yaml:"retryMultiplier"`

	// RetryCap is the maximum backoff between attempts.
	RetryCap time.Duration `yaml:"retryCap"`

	// MaxAttempts is the number of delivery attempts per event before the
	// event is dropped and logged.
	MaxAttempts int `yaml:"maxAttempts"`

	// FlushTimeout is the maximum time Close waits for the queue to drain.
	FlushTimeout time.Duration `yaml:"flushTimeout"`

	// RetrySeed seeds the backoff jitter RNG for deterministic tests.
	// 0 (the default) uses the package-level PRNG.
	RetrySeed int64 `yaml:"retrySeed"`
}

// DefaultConfig returns dispatcher defaults suitable for production.
//
// Returns:
//   - Config: Configuration with recommended settings
func DefaultConfig() Config {
	return Config{
		QueueSize:       1024,
		RetryBase:       100 * time.Millisecond,
		RetryMultiplier: 2.0,
		RetryCap:        5 * time.Second,
		MaxAttempts:     5,
		FlushTimeout:    10 * time.Second,
	}
}

// Validate checks configuration constraints.
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.QueueSize <= 0 {
		return fmt.Errorf("%w: QueueSize must be > 0, got %d", types.ErrInvalidConfig, cfg.QueueSize)
	}

	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("%w: MaxAttempts must be >= 1, got %d", types.ErrInvalidConfig, cfg.MaxAttempts)
	}

	if cfg.RetryBase <= 0 {
		return fmt.Errorf("%w: RetryBase must be > 0, got %v", types.ErrInvalidConfig, cfg.RetryBase)
	}

	if cfg.RetryCap < cfg.RetryBase {
		return fmt.Errorf(
			"%w: RetryCap (%v) must be >= RetryBase (%v)",
			types.ErrInvalidConfig, cfg.RetryCap, cfg.RetryBase,
		)
	}

	if cfg.FlushTimeout <= 0 {
		return fmt.Errorf("%w: FlushTimeout must be > 0, got %v", types.ErrInvalidConfig, cfg.FlushTimeout)
	}

	return nil
}
