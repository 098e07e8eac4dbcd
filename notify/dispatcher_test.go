package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noveng05/splits/notify"
	"github.com/noveng05/splits/types"
)

// fakeSink records delivered events and can be told to fail the first N
// attempts or to block until released.
type fakeSink struct {
	mu          sync.Mutex
	failures    int
	attempts    int
	assignments []types.AssignmentEvent
	identifiers []types.IdentifierEvent

	gate    chan struct{} // when non-nil, deliveries wait for it to close
	started chan struct{} // closed when the first delivery begins
	once    sync.Once
}

func (s *fakeSink) begin() error {
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
	}
	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.failures > 0 {
		s.failures--

		return errors.New("sink unavailable")
	}

	return nil
}

func (s *fakeSink) DeliverAssignment(_ context.Context, event types.AssignmentEvent) error {
	if err := s.begin(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, event)

	return nil
}

func (s *fakeSink) DeliverIdentifier(_ context.Context, event types.IdentifierEvent) error {
	if err := s.begin(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identifiers = append(s.identifiers, event)

	return nil
}

func (s *fakeSink) deliveredAssignments() []types.AssignmentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.AssignmentEvent(nil), s.assignments...)
}

func (s *fakeSink) deliveredIdentifiers() []types.IdentifierEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.IdentifierEvent(nil), s.identifiers...)
}

func (s *fakeSink) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attempts
}

func testConfig() notify.Config {
	return notify.Config{
		QueueSize:       8,
		RetryBase:       time.Millisecond,
		RetryMultiplier: 2.0,
		RetryCap:        10 * time.Millisecond,
		MaxAttempts:     3,
		FlushTimeout:    2 * time.Second,
		RetrySeed:       1,
	}
}

func assignmentEvent(visitorID, splitName, variant string) types.AssignmentEvent {
	return types.AssignmentEvent{
		VisitorID:  visitorID,
		SplitName:  splitName,
		Variant:    variant,
		AssignedAt: time.Unix(1700000000, 0),
	}
}

func TestNewDispatcher(t *testing.T) {
	t.Run("requires a sink", func(t *testing.T) {
		_, err := notify.NewDispatcher(nil, testConfig())
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.QueueSize = 0

		_, err := notify.NewDispatcher(&fakeSink{}, cfg)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})
}

func TestDispatcherDelivers(t *testing.T) {
	sink := &fakeSink{}
	d, err := notify.NewDispatcher(sink, testConfig())
	require.NoError(t, err)

	event := assignmentEvent("visitor-1", "blue_button", "true")
	require.NoError(t, d.QueueAssignment(event))
	require.NoError(t, d.QueueIdentifier(types.IdentifierEvent{
		VisitorID:      "visitor-1",
		IdentifierType: "myapp_user_id",
		Value:          "user-42",
	}))

	require.NoError(t, d.Close())
	require.Equal(t, []types.AssignmentEvent{event}, sink.deliveredAssignments())
	require.Len(t, sink.deliveredIdentifiers(), 1)
}

func TestDispatcherRetries(t *testing.T) {
	sink := &fakeSink{failures: 2}
	d, err := notify.NewDispatcher(sink, testConfig())
	require.NoError(t, err)

	event := assignmentEvent("visitor-1", "blue_button", "true")
	require.NoError(t, d.QueueAssignment(event))
	require.NoError(t, d.Close())

	require.Equal(t, 3, sink.attemptCount())
	require.Equal(t, []types.AssignmentEvent{event}, sink.deliveredAssignments())
}

func TestDispatcherDropsAfterMaxAttempts(t *testing.T) {
	sink := &fakeSink{failures: 100}
	d, err := notify.NewDispatcher(sink, testConfig())
	require.NoError(t, err)

	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-1", "blue_button", "true")))
	require.NoError(t, d.Close())

	require.Equal(t, 3, sink.attemptCount())
	require.Empty(t, sink.deliveredAssignments())
}

func TestDispatcherCoalesces(t *testing.T) {
	gate := make(chan struct{})
	sink := &fakeSink{gate: gate, started: make(chan struct{})}
	d, err := notify.NewDispatcher(sink, testConfig())
	require.NoError(t, err)

	// Occupy the worker so later events stay queued.
	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-1", "blue_button", "true")))
	<-sink.started

	// Two records for the same (visitor, split): the second replaces the
	// first pending event instead of adding a delivery.
	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-2", "checkout_flow", "classic")))
	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-2", "checkout_flow", "one_page")))

	close(gate)
	require.NoError(t, d.Close())

	delivered := sink.deliveredAssignments()
	require.Len(t, delivered, 2)
	require.Equal(t, "one_page", delivered[1].Variant)
}

func TestDispatcherQueueFull(t *testing.T) {
	gate := make(chan struct{})
	sink := &fakeSink{gate: gate, started: make(chan struct{})}

	cfg := testConfig()
	cfg.QueueSize = 1

	d, err := notify.NewDispatcher(sink, cfg)
	require.NoError(t, err)

	// First event occupies the worker, second fills the queue.
	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-1", "blue_button", "true")))
	<-sink.started
	require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-2", "blue_button", "true")))

	err = d.QueueAssignment(assignmentEvent("visitor-3", "blue_button", "true"))
	require.ErrorIs(t, err, types.ErrQueueFull)

	close(gate)
	require.NoError(t, d.Close())
	require.Len(t, sink.deliveredAssignments(), 2)
}

func TestDispatcherClose(t *testing.T) {
	t.Run("rejects events after close", func(t *testing.T) {
		d, err := notify.NewDispatcher(&fakeSink{}, testConfig())
		require.NoError(t, err)
		require.NoError(t, d.Close())

		err = d.QueueAssignment(assignmentEvent("visitor-1", "blue_button", "true"))
		require.ErrorIs(t, err, types.ErrDispatcherClosed)

		err = d.QueueIdentifier(types.IdentifierEvent{VisitorID: "visitor-1"})
		require.ErrorIs(t, err, types.ErrDispatcherClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		d, err := notify.NewDispatcher(&fakeSink{}, testConfig())
		require.NoError(t, err)
		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
	})

	t.Run("times out when the queue cannot drain", func(t *testing.T) {
		gate := make(chan struct{})
		t.Cleanup(func() { close(gate) })

		sink := &fakeSink{gate: gate, started: make(chan struct{})}
		cfg := testConfig()
		cfg.FlushTimeout = 50 * time.Millisecond

		d, err := notify.NewDispatcher(sink, cfg)
		require.NoError(t, err)

		require.NoError(t, d.QueueAssignment(assignmentEvent("visitor-1", "blue_button", "true")))
		<-sink.started

		require.ErrorIs(t, d.Close(), types.ErrDeliveryFailed)
	})
}
