package types

import "context"

// Hooks defines callbacks for Visitor lifecycle events.
//
// All hooks are optional and called synchronously on the visitor's own
// goroutine (a Visitor is confined to a single unit of work, so there is no
// background machinery to dispatch from). Hook errors are logged but never
// fail the triggering operation.
//
// Best practices for hook implementation:
//   - Complete quickly (hooks run inside request handling)
//   - Respect context cancellation
//   - Make hooks idempotent (a defaulted vary re-records an assignment)
type Hooks struct {
	// OnAssignment is called when an assignment is resolved.
	// fresh is true when the assignment was computed during this lifetime
	// (and will be reported as a new assignment), false for cache hits.
	OnAssignment func(ctx context.Context, visitorID, splitName, variant string, fresh bool) error

	// OnOffline is called once when a registry fetch failure puts the
	// visitor into sticky offline mode.
	OnOffline func(ctx context.Context, err error) error

	// OnIdentityMerged is called after an identity merge completes.
	OnIdentityMerged func(ctx context.Context, previousID, canonicalID string) error
}
