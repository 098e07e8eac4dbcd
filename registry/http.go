package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/noveng05/splits/internal/logger"
	"github.com/noveng05/splits/types"
)

// HTTP is a registry and identity client for the remote split-testing
// service's JSON API.
//
// Endpoints consumed:
//
//	GET  /api/v1/split_registry
//	GET  /api/v1/visitors/{id}/assignment_registry
//	POST /api/v1/identifier
//
// Timeouts are owned by the caller: the Visitor wraps each fetch in its
// configured FetchTimeout/IdentityTimeout, so the underlying http.Client
// needs no timeout of its own (though one can be supplied).
type HTTP struct {
	endpoint string
	client   *http.Client
	logger   types.Logger
}

var (
	_ types.RegistryClient = (*HTTP)(nil)
	_ types.IdentityClient = (*HTTP)(nil)
)

// HTTPOption configures an HTTP registry client.
type HTTPOption func(*HTTP)

// NewHTTP creates a new HTTP registry client.
//
// Parameters:
//   - endpoint: Base URL of the remote service (e.g. "https://splits.example.com")
//   - opts: Optional configuration (WithHTTPClient, WithLogger)
//
// Returns:
//   - *HTTP: Initialized client
//
// Example:
//
//	client := registry.NewHTTP("https://splits.example.com")
//	v, err := splits.ResumeVisitor(client, cookieID)
func NewHTTP(endpoint string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   logger.NewNop(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// WithHTTPClient sets a custom underlying http.Client.
//
// Parameters:
//   - client: The http.Client to use for all requests
//
// Returns:
//   - HTTPOption: Configuration option
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// WithLogger sets a logger for request failures.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - HTTPOption: Configuration option
func WithLogger(log types.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = log
	}
}

type splitRegistryResponse struct {
	Splits map[string]map[string]uint64 `json:"splits"`
}

type assignmentRegistryResponse struct {
	Assignments map[string]string `json:"assignments"`
}

type identifierRequest struct {
	IdentifierType string `json:"identifier_type"`
	VisitorID      string `json:"visitor_id"`
	Value          string `json:"value"`
}

type identifierResponse struct {
	Visitor types.IdentifierResult `json:"visitor"`
}

// FetchSplitRegistry fetches the global split registry from the remote service.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - types.SplitRegistry: All known splits with their weight tables
//   - error: Request, status, or decode error
func (h *HTTP) FetchSplitRegistry(ctx context.Context) (types.SplitRegistry, error) {
	var decoded splitRegistryResponse
	if err := h.getJSON(ctx, h.endpoint+"/api/v1/split_registry", &decoded); err != nil {
		return nil, fmt.Errorf("fetch split registry: %w", err)
	}

	registry := make(types.SplitRegistry, len(decoded.Splits))
	for name, weights := range decoded.Splits {
		registry[name] = types.Weights(weights)
	}

	return registry, nil
}

// FetchAssignmentRegistry fetches a visitor's server-side assignments.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - visitorID: The visitor whose assignments to fetch
//
// Returns:
//   - types.AssignmentRegistry: Previously recorded split to variant mapping
//   - error: Request, status, or decode error
func (h *HTTP) FetchAssignmentRegistry(ctx context.Context, visitorID string) (types.AssignmentRegistry, error) {
	u := h.endpoint + "/api/v1/visitors/" + url.PathEscape(visitorID) + "/assignment_registry"

	var decoded assignmentRegistryResponse
	if err := h.getJSON(ctx, u, &decoded); err != nil {
		return nil, fmt.Errorf("fetch assignment registry: %w", err)
	}

	if decoded.Assignments == nil {
		return types.AssignmentRegistry{}, nil
	}

	return types.AssignmentRegistry(decoded.Assignments), nil
}

// CreateIdentifier links an application identifier to a visitor id and
// returns the canonical visitor state.
//
// Parameters:
//   - ctx: Context carrying the identity-call deadline
//   - identifierType: Remote identifier type name
//   - visitorID: The local visitor id being linked
//   - value: The identifier value
//
// Returns:
//   - types.IdentifierResult: Canonical id and assignment registry
//   - error: Request, status, or decode error
func (h *HTTP) CreateIdentifier(ctx context.Context, identifierType, visitorID, value string) (types.IdentifierResult, error) {
	body, err := json.Marshal(identifierRequest{
		IdentifierType: identifierType,
		VisitorID:      visitorID,
		Value:          value,
	})
	if err != nil {
		return types.IdentifierResult{}, fmt.Errorf("encode identifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/api/v1/identifier", bytes.NewReader(body))
	if err != nil {
		return types.IdentifierResult{}, fmt.Errorf("build identifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return types.IdentifierResult{}, fmt.Errorf("create identifier: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.IdentifierResult{}, fmt.Errorf("create identifier: unexpected status %d", resp.StatusCode)
	}

	var decoded identifierResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return types.IdentifierResult{}, fmt.Errorf("decode identifier response: %w", err)
	}

	h.logger.Debug("identifier created",
		"identifierType", identifierType,
		"canonicalID", decoded.Visitor.ID,
		"duration", time.Since(start),
	)

	return decoded.Visitor, nil
}

func (h *HTTP) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
