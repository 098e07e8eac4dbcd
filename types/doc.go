// Package types contains the shared types, collaborator interfaces, and
// sentinel errors used across the splits library.
//
// Internal packages depend on types without depending on the root splits
// package, which avoids import cycles while the root package re-exports the
// common definitions for convenience (splits.Weights, splits.Logger, etc.).
package types
