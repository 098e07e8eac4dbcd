package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/noveng05/splits/types"
)

// HTTPSink delivers events to the remote split-testing service's JSON API.
//
// Endpoints consumed:
//
//	POST /api/v1/assignment_event
//	POST /api/v1/identifier_event
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

var _ Sink = (*HTTPSink)(nil)

// HTTPSinkOption configures an HTTPSink.
type HTTPSinkOption func(*HTTPSink)

// NewHTTPSink creates a sink posting events to the remote service.
//
// Parameters:
//   - endpoint: Base URL of the remote service
//   - opts: Optional configuration (WithSinkHTTPClient)
//
// Returns:
//   - *HTTPSink: Initialized sink
func NewHTTPSink(endpoint string, opts ...HTTPSinkOption) *HTTPSink {
	s := &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithSinkHTTPClient sets a custom underlying http.Client.
//
// Parameters:
//   - client: The http.Client to use for all requests
//
// Returns:
//   - HTTPSinkOption: Configuration option
func WithSinkHTTPClient(client *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) {
		s.client = client
	}
}

// DeliverAssignment posts a new-assignment event.
func (s *HTTPSink) DeliverAssignment(ctx context.Context, event types.AssignmentEvent) error {
	return s.post(ctx, s.endpoint+"/api/v1/assignment_event", event)
}

// DeliverIdentifier posts an identity-link event.
func (s *HTTPSink) DeliverIdentifier(ctx context.Context, event types.IdentifierEvent) error {
	return s.post(ctx, s.endpoint+"/api/v1/identifier_event", event)
}

func (s *HTTPSink) post(ctx context.Context, u string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post event: unexpected status %d", resp.StatusCode)
	}

	return nil
}
