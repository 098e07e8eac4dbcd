package splits

import (
	"fmt"
	"time"

	"github.com/noveng05/splits/types"
)

// DeliveryConfig controls asynchronous event delivery behavior.
type DeliveryConfig struct {
	// QueueSize is the capacity of the in-memory delivery queue.
	// Queueing an event when the queue is full fails fast with ErrQueueFull
	// rather than blocking the caller's unit of work.
	QueueSize int `yaml:"queueSize"`

	// RetryBase is the initial retry backoff after a failed delivery.
	RetryBase time.Duration `yaml:"retryBase"`

	// RetryMultiplier is the backoff growth factor between attempts.
	// Values below 1.0 fall back to 1.0 (no growth).
	RetryMultiplier float64 `yaml:"retryMultiplier"`

	// RetryCap is the maximum backoff between attempts.
	RetryCap time.Duration `yaml:"retryCap"`

	// MaxAttempts is the number of delivery attempts per event before the
	// event is dropped and logged.
	MaxAttempts int `yaml:"maxAttempts"`

	// FlushTimeout is the maximum time Close waits for the queue to drain.
	FlushTimeout time.Duration `yaml:"flushTimeout"`
}

// Config is the configuration for the splits client.
//
// All duration fields accept standard Go duration strings like "5s", "1m".
type Config struct {
	// Endpoint is the base URL of the remote split-testing service
	// (e.g. "https://splits.example.com"). Used by the HTTP registry client
	// and HTTP delivery sink.
	Endpoint string `yaml:"endpoint"`

	// FetchTimeout bounds a single registry fetch. Each visitor performs at
	// most one split-registry fetch and one assignment-registry fetch, and a
	// failure puts the visitor into sticky offline mode instead of retrying,
	// so this bounds the worst-case latency a request can pay for registries.
	// Recommended: 2-5 seconds.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`

	// IdentityTimeout bounds the synchronous identity-link call on login.
	// On timeout the link event is handed to the notifier for deferred
	// at-least-once delivery and the unit of work continues.
	// Recommended: 2 seconds.
	IdentityTimeout time.Duration `yaml:"identityTimeout"`

	// CookieName is the name of the visitor-id cookie managed by the
	// session layer.
	CookieName string `yaml:"cookieName"`

	// CookieMaxAge is the visitor cookie lifetime. Assignments are keyed by
	// visitor id, so a short lifetime re-randomizes returning visitors.
	// Recommended: one year.
	CookieMaxAge time.Duration `yaml:"cookieMaxAge"`

	// Delivery controls asynchronous event delivery behavior.
	Delivery DeliveryConfig `yaml:"delivery"`
}

// DefaultConfig returns a configuration with production-ready defaults.
//
// Returns:
//   - Config: Configuration with recommended settings
//
// Example:
//
//	cfg := splits.DefaultConfig()
//	cfg.Endpoint = "https://splits.example.com"
func DefaultConfig() Config {
	return Config{
		FetchTimeout:    3 * time.Second,
		IdentityTimeout: 2 * time.Second,
		CookieName:      "split_visitor_id",
		CookieMaxAge:    365 * 24 * time.Hour,
		Delivery: DeliveryConfig{
			QueueSize:       1024,
			RetryBase:       100 * time.Millisecond,
			RetryMultiplier: 2.0,
			RetryCap:        5 * time.Second,
			MaxAttempts:     5,
			FlushTimeout:    10 * time.Second,
		},
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Timings are 10-100x faster than production defaults to enable rapid
// iteration without sacrificing coverage. Use DefaultConfig() for production.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.FetchTimeout = 500 * time.Millisecond
	cfg.IdentityTimeout = 200 * time.Millisecond
	cfg.Delivery.RetryBase = 5 * time.Millisecond
	cfg.Delivery.RetryCap = 50 * time.Millisecond
	cfg.Delivery.MaxAttempts = 3
	cfg.Delivery.FlushTimeout = time.Second

	return cfg
}

// Validate checks configuration constraints and returns an error for invalid values.
//
// Hard Validation Rules:
//   - FetchTimeout > 0 (a zero timeout would hang the request path)
//   - IdentityTimeout > 0
//   - CookieName non-empty
//   - Delivery.QueueSize > 0
//   - Delivery.MaxAttempts >= 1
//   - Delivery.RetryBase > 0 and RetryBase <= RetryCap
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("%w: FetchTimeout must be > 0, got %v", types.ErrInvalidConfig, cfg.FetchTimeout)
	}

	if cfg.IdentityTimeout <= 0 {
		return fmt.Errorf("%w: IdentityTimeout must be > 0, got %v", types.ErrInvalidConfig, cfg.IdentityTimeout)
	}

	if cfg.CookieName == "" {
		return fmt.Errorf("%w: CookieName must not be empty", types.ErrInvalidConfig)
	}

	if cfg.Delivery.QueueSize <= 0 {
		return fmt.Errorf("%w: Delivery.QueueSize must be > 0, got %d", types.ErrInvalidConfig, cfg.Delivery.QueueSize)
	}

	if cfg.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("%w: Delivery.MaxAttempts must be >= 1, got %d", types.ErrInvalidConfig, cfg.Delivery.MaxAttempts)
	}

	if cfg.Delivery.RetryBase <= 0 {
		return fmt.Errorf("%w: Delivery.RetryBase must be > 0, got %v", types.ErrInvalidConfig, cfg.Delivery.RetryBase)
	}

	if cfg.Delivery.RetryCap < cfg.Delivery.RetryBase {
		return fmt.Errorf(
			"%w: Delivery.RetryCap (%v) must be >= Delivery.RetryBase (%v)",
			types.ErrInvalidConfig, cfg.Delivery.RetryCap, cfg.Delivery.RetryBase,
		)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values.
//
// This is called after Validate() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.FetchTimeout > 10*time.Second {
		logger.Warn(
			"FetchTimeout is very long; registry fetches run on the request path",
			"fetchTimeout", cfg.FetchTimeout,
			"recommended", "3s or lower",
		)
	}

	if cfg.CookieMaxAge < 30*24*time.Hour {
		logger.Warn(
			"CookieMaxAge is short; expiring cookies re-randomize returning visitors",
			"cookieMaxAge", cfg.CookieMaxAge,
			"recommended", "one year",
		)
	}
}
