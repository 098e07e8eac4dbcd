package splits

import "github.com/noveng05/splits/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `splits`
// package, while still providing a convenient `splits.Weights`,
// `splits.Logger`, etc. for users.
type (
	Weights            = types.Weights
	SplitRegistry      = types.SplitRegistry
	AssignmentRegistry = types.AssignmentRegistry
	IdentifierResult   = types.IdentifierResult
	AssignmentEvent    = types.AssignmentEvent
	IdentifierEvent    = types.IdentifierEvent
)

// Re-export interfaces from the internal types package for convenience.
type (
	RegistryClient    = types.RegistryClient
	IdentityClient    = types.IdentityClient
	VariantCalculator = types.VariantCalculator
	Notifier          = types.Notifier
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)
