package types

import "context"

// RegistryClient fetches the global split registry and a visitor's existing
// server-side assignments.
//
// Implementations can query various backends:
//   - HTTP: the remote split-testing service API
//   - File: a YAML weights document shipped with the application
//   - Static: fixed registries for testing
//
// The Visitor calls each fetch at most once per lifetime (memoized). A fetch
// error puts the visitor into sticky offline mode for the rest of its
// lifetime; it is never retried on the same instance.
type RegistryClient interface {
	// FetchSplitRegistry returns the global split name to weight table mapping.
	//
	// Implementations may cache across visitors; the result is global and
	// changes rarely.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - SplitRegistry: All known splits with their weight tables
	//   - error: Fetch error (nil on success)
	FetchSplitRegistry(ctx context.Context) (SplitRegistry, error)

	// FetchAssignmentRegistry returns the assignments already recorded
	// server-side for the given visitor.
	//
	// Never called for a freshly generated visitor id: a brand-new visitor
	// cannot have prior server assignments.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - visitorID: The visitor whose assignments to fetch
	//
	// Returns:
	//   - AssignmentRegistry: Previously recorded split to variant mapping
	//   - error: Fetch error (nil on success)
	FetchAssignmentRegistry(ctx context.Context, visitorID string) (AssignmentRegistry, error)
}

// IdentifierResult is the canonical visitor state returned by an identity
// link call. The remote service either aliased the visitor id onto an
// existing identity (returning that identity's id and assignments) or
// registered the id as a new identity.
type IdentifierResult struct {
	// ID is the canonical visitor id after linking.
	ID string `json:"id"`

	// Assignments is the canonical assignment registry for that id.
	Assignments AssignmentRegistry `json:"assignment_registry"`
}

// IdentityClient links a visitor id to an application identifier (for
// example a user id at login) on the remote service.
type IdentityClient interface {
	// CreateIdentifier links value (of identifierType) to visitorID and
	// returns the canonical visitor state to merge from.
	//
	// Parameters:
	//   - ctx: Context carrying the identity-call deadline
	//   - identifierType: Remote identifier type name (e.g. "myapp_user_id")
	//   - visitorID: The local visitor id being linked
	//   - value: The identifier value (e.g. the user's id)
	//
	// Returns:
	//   - IdentifierResult: Canonical id and assignment registry
	//   - error: Link error; timeouts are handed to the notifier for
	//     deferred delivery instead of blocking the unit of work
	CreateIdentifier(ctx context.Context, identifierType, visitorID, value string) (IdentifierResult, error)
}
