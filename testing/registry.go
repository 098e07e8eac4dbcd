package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/noveng05/splits/types"
)

// RegistryServer is an httptest fake of the remote split-testing service.
//
// It serves the three endpoints the HTTP registry client consumes and records
// received identifier requests for assertions. All methods are safe for
// concurrent use.
type RegistryServer struct {
	mu          sync.Mutex
	splits      types.SplitRegistry
	assignments map[string]types.AssignmentRegistry
	identities  map[string]types.IdentifierResult

	splitFetches      int
	assignmentFetches int
	identifierCalls   []IdentifierCall

	server *httptest.Server
}

// IdentifierCall is one recorded POST /api/v1/identifier request.
type IdentifierCall struct {
	IdentifierType string `json:"identifier_type"`
	VisitorID      string `json:"visitor_id"`
	Value          string `json:"value"`
}

// StartRegistryServer starts a fake registry service for the given split
// registry. The server is shut down automatically when the test completes.
//
// Parameters:
//   - t: Testing context for cleanup
//   - splits: Split registry the fake serves
//
// Returns:
//   - *RegistryServer: Running fake with its base URL available via URL()
//
// Example:
//
//	srv := splitstesting.StartRegistryServer(t, types.SplitRegistry{
//	    "blue_button": {"false": 50, "true": 50},
//	})
//	client := registry.NewHTTP(srv.URL())
func StartRegistryServer(t *testing.T, splits types.SplitRegistry) *RegistryServer {
	t.Helper()

	rs := &RegistryServer{
		splits:      splits,
		assignments: make(map[string]types.AssignmentRegistry),
		identities:  make(map[string]types.IdentifierResult),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/split_registry", rs.handleSplitRegistry)
	mux.HandleFunc("GET /api/v1/visitors/", rs.handleAssignmentRegistry)
	mux.HandleFunc("POST /api/v1/identifier", rs.handleIdentifier)

	rs.server = httptest.NewServer(mux)
	t.Cleanup(rs.server.Close)

	return rs
}

// URL returns the fake service's base URL.
func (rs *RegistryServer) URL() string {
	return rs.server.URL
}

// SetAssignments configures the server-side assignments for a visitor.
func (rs *RegistryServer) SetAssignments(visitorID string, registry types.AssignmentRegistry) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.assignments[visitorID] = registry
}

// SetIdentity configures the canonical result returned when the given
// identifier value is linked.
func (rs *RegistryServer) SetIdentity(value string, result types.IdentifierResult) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.identities[value] = result
}

// SplitFetches returns how many times the split registry was fetched.
func (rs *RegistryServer) SplitFetches() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.splitFetches
}

// AssignmentFetches returns how many times an assignment registry was fetched.
func (rs *RegistryServer) AssignmentFetches() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.assignmentFetches
}

// IdentifierCalls returns the recorded identifier requests.
func (rs *RegistryServer) IdentifierCalls() []IdentifierCall {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	calls := make([]IdentifierCall, len(rs.identifierCalls))
	copy(calls, rs.identifierCalls)

	return calls
}

func (rs *RegistryServer) handleSplitRegistry(w http.ResponseWriter, _ *http.Request) {
	rs.mu.Lock()
	rs.splitFetches++
	splits := make(map[string]map[string]uint64, len(rs.splits))
	for name, weights := range rs.splits {
		splits[name] = weights
	}
	rs.mu.Unlock()

	writeJSON(w, map[string]any{"splits": splits})
}

func (rs *RegistryServer) handleAssignmentRegistry(w http.ResponseWriter, r *http.Request) {
	// Path shape: /api/v1/visitors/{id}/assignment_registry
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/visitors/")
	visitorID, suffix, ok := strings.Cut(rest, "/")
	if !ok || suffix != "assignment_registry" {
		http.NotFound(w, r)

		return
	}

	rs.mu.Lock()
	rs.assignmentFetches++
	registry, exists := rs.assignments[visitorID]
	rs.mu.Unlock()

	if !exists {
		registry = types.AssignmentRegistry{}
	}

	writeJSON(w, map[string]any{"assignments": registry})
}

func (rs *RegistryServer) handleIdentifier(w http.ResponseWriter, r *http.Request) {
	var call IdentifierCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	rs.mu.Lock()
	rs.identifierCalls = append(rs.identifierCalls, call)
	result, exists := rs.identities[call.Value]
	rs.mu.Unlock()

	if !exists {
		// Unknown identifiers register as a fresh identity keeping the
		// visitor's id, mirroring the remote service's first-login behavior.
		result = types.IdentifierResult{
			ID:          call.VisitorID,
			Assignments: types.AssignmentRegistry{},
		}
	}

	writeJSON(w, map[string]any{"visitor": result})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
