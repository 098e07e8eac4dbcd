package registry

import (
	"context"
	"maps"
	"sync"

	"github.com/noveng05/splits/types"
)

// Static implements a registry client with fixed in-memory registries.
type Static struct {
	mu          sync.RWMutex
	splits      types.SplitRegistry
	assignments map[string]types.AssignmentRegistry
}

var _ types.RegistryClient = (*Static)(nil)

// NewStatic creates a new static registry client.
//
// The client serves a fixed split registry and per-visitor assignment
// registries that never change unless updated explicitly. Useful for testing
// and for applications that manage splits locally.
//
// Parameters:
//   - splits: Fixed split name to weight table mapping
//
// Returns:
//   - *Static: Initialized static client
//
// Example:
//
//	client := registry.NewStatic(types.SplitRegistry{
//	    "blue_button": {"false": 50, "true": 50},
//	})
//	v, err := splits.NewVisitor(client)
func NewStatic(splits types.SplitRegistry) *Static {
	return &Static{
		splits:      cloneSplits(splits),
		assignments: make(map[string]types.AssignmentRegistry),
	}
}

// FetchSplitRegistry returns the static split registry.
//
// Returns:
//   - types.SplitRegistry: A copy of the configured registry
//   - error: Always nil (never fails)
func (s *Static) FetchSplitRegistry(_ context.Context) (types.SplitRegistry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSplits(s.splits), nil
}

// FetchAssignmentRegistry returns the configured assignments for a visitor.
//
// Visitors without configured assignments get an empty registry, which is the
// correct answer for a visitor the backend has never seen.
//
// Parameters:
//   - visitorID: The visitor whose assignments to fetch
//
// Returns:
//   - types.AssignmentRegistry: A copy of the visitor's assignments
//   - error: Always nil (never fails)
func (s *Static) FetchAssignmentRegistry(_ context.Context, visitorID string) (types.AssignmentRegistry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registry, ok := s.assignments[visitorID]
	if !ok {
		return types.AssignmentRegistry{}, nil
	}

	return maps.Clone(registry), nil
}

// UpdateSplits replaces the split registry.
//
// This allows the static client to simulate registry changes between visitor
// lifetimes, which is useful for testing self-healing vary behavior.
//
// Parameters:
//   - splits: New split registry
func (s *Static) UpdateSplits(splits types.SplitRegistry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.splits = cloneSplits(splits)
}

// SetAssignments replaces the recorded assignments for a visitor.
//
// Parameters:
//   - visitorID: The visitor to configure
//   - registry: The visitor's server-side assignments
func (s *Static) SetAssignments(visitorID string, registry types.AssignmentRegistry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[visitorID] = maps.Clone(registry)
}

func cloneSplits(splits types.SplitRegistry) types.SplitRegistry {
	cloned := make(types.SplitRegistry, len(splits))
	for name, weights := range splits {
		cloned[name] = maps.Clone(weights)
	}

	return cloned
}
