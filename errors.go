package splits

import "github.com/noveng05/splits/types"

// Sentinel errors re-exported from the types package so callers can use
// errors.Is against splits.ErrUnknownSplit and friends without importing
// types directly.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrRegistryClientRequired is returned when the registry client is nil.
	ErrRegistryClientRequired = types.ErrRegistryClientRequired

	// ErrIdentityClientRequired is returned when an identity operation is
	// attempted without an identity client configured.
	ErrIdentityClientRequired = types.ErrIdentityClientRequired

	// ErrUnknownSplit is returned when a split name is not present in the
	// fetched split registry.
	ErrUnknownSplit = types.ErrUnknownSplit

	// ErrInvalidWeights is returned when a weight table is empty or has a
	// zero total weight.
	ErrInvalidWeights = types.ErrInvalidWeights

	// ErrMissingBlock is returned when Vary is called without a declaration block.
	ErrMissingBlock = types.ErrMissingBlock

	// ErrNoWhen is returned when a vary declaration has zero when branches.
	ErrNoWhen = types.ErrNoWhen

	// ErrMultipleDefaults is returned when more than one default branch is declared.
	ErrMultipleDefaults = types.ErrMultipleDefaults

	// ErrNoDefault is returned when no default branch is declared.
	ErrNoDefault = types.ErrNoDefault

	// ErrRegistryUnavailable indicates the split registry could not be
	// fetched and the visitor is operating offline without weight tables.
	ErrRegistryUnavailable = types.ErrRegistryUnavailable

	// ErrOffline indicates the visitor is in sticky offline mode.
	ErrOffline = types.ErrOffline
)
