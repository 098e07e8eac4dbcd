package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/noveng05/splits/types"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "splits"

// JetStreamSink publishes events to NATS JetStream subjects for analytics
// pipelines that consume from a broker instead of the service API.
//
// Subjects:
//
//	<prefix>.assignment.<split_name>
//	<prefix>.identifier.<identifier_type>
//
// The target stream must already cover "<prefix>.>"; the sink does not
// create streams.
type JetStreamSink struct {
	js     jetstream.JetStream
	prefix string
}

var _ Sink = (*JetStreamSink)(nil)

// JetStreamSinkOption configures a JetStreamSink.
type JetStreamSinkOption func(*JetStreamSink)

// NewJetStreamSink creates a sink publishing events to JetStream.
//
// Parameters:
//   - js: JetStream context (from jetstream.New)
//   - opts: Optional configuration (WithSubjectPrefix)
//
// Returns:
//   - *JetStreamSink: Initialized sink
//
// Example:
//
//	js, _ := jetstream.New(natsConn)
//	sink := notify.NewJetStreamSink(js)
//	dispatcher, err := notify.NewDispatcher(sink, notify.DefaultConfig())
func NewJetStreamSink(js jetstream.JetStream, opts ...JetStreamSinkOption) *JetStreamSink {
	s := &JetStreamSink{
		js:     js,
		prefix: DefaultSubjectPrefix,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithSubjectPrefix sets the subject prefix for published events.
//
// Parameters:
//   - prefix: Subject prefix (default "splits")
//
// Returns:
//   - JetStreamSinkOption: Configuration option
func WithSubjectPrefix(prefix string) JetStreamSinkOption {
	return func(s *JetStreamSink) {
		s.prefix = prefix
	}
}

// DeliverAssignment publishes a new-assignment event.
func (s *JetStreamSink) DeliverAssignment(ctx context.Context, event types.AssignmentEvent) error {
	subject := s.prefix + ".assignment." + event.SplitName

	return s.publish(ctx, subject, event)
}

// DeliverIdentifier publishes an identity-link event.
func (s *JetStreamSink) DeliverIdentifier(ctx context.Context, event types.IdentifierEvent) error {
	subject := s.prefix + ".identifier." + event.IdentifierType

	return s.publish(ctx, subject, event)
}

func (s *JetStreamSink) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}
