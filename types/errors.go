package types

import "errors"

// Sentinel errors for the splits library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components wrap them with context (usually the split name)
// using fmt.Errorf("%w ...", err).

// Configuration errors - programming or configuration mistakes that are
// surfaced to the caller immediately rather than degraded from.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRegistryClientRequired is returned when the registry client is nil.
	ErrRegistryClientRequired = errors.New("registry client is required")

	// ErrIdentityClientRequired is returned when an identity operation is
	// attempted without an identity client configured.
	ErrIdentityClientRequired = errors.New("identity client is required")

	// ErrUnknownSplit is returned when a split name is not present in the
	// fetched split registry.
	ErrUnknownSplit = errors.New("unknown split")

	// ErrInvalidWeights is returned when a weight table is empty or has a
	// zero total weight.
	ErrInvalidWeights = errors.New("invalid weight table")
)

// Vary DSL structural errors - defects in caller code declaring branches.
// Messages are part of the public contract and asserted verbatim in tests.
var (
	// ErrMissingBlock is returned when Vary is called without a declaration block.
	ErrMissingBlock = errors.New("must provide block to vary for")

	// ErrNoWhen is returned when a vary declaration has zero when branches.
	ErrNoWhen = errors.New("must provide at least one when")

	// ErrMultipleDefaults is returned when more than one default branch is declared.
	ErrMultipleDefaults = errors.New("cannot provide more than one default")

	// ErrNoDefault is returned when no default branch is declared.
	ErrNoDefault = errors.New("must provide exactly one default")
)

// Remote-collaborator errors - network conditions recovered from locally by
// entering offline mode rather than surfacing to vary/ab callers.
var (
	// ErrRegistryUnavailable indicates the split registry could not be
	// fetched and the visitor is operating offline without weight tables.
	ErrRegistryUnavailable = errors.New("split registry unavailable")

	// ErrOffline indicates the visitor is in sticky offline mode and new
	// assignments are computed without being persisted.
	ErrOffline = errors.New("visitor is offline")
)

// Delivery errors - returned by notification sinks and the dispatcher.
var (
	// ErrQueueFull is returned when the delivery queue cannot accept more events.
	ErrQueueFull = errors.New("delivery queue is full")

	// ErrDispatcherClosed is returned when events are queued after Close.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrDeliveryFailed is returned when a sink exhausts its delivery attempts.
	ErrDeliveryFailed = errors.New("event delivery failed")
)
