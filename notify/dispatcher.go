package notify

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/noveng05/splits/internal/logger"
	"github.com/noveng05/splits/internal/metrics"
	"github.com/noveng05/splits/types"
)

// Event kinds reported to the metrics collector.
const (
	kindAssignment = "assignment"
	kindIdentifier = "identifier"
)

// Sink delivers one event to its destination.
//
// Sink implementations should:
//   - Return an error for transient failures (the dispatcher retries)
//   - Be safe for calls from the dispatcher's worker goroutine
//   - Own their own per-request timeouts
type Sink interface {
	// DeliverAssignment delivers a new-assignment event.
	DeliverAssignment(ctx context.Context, event types.AssignmentEvent) error

	// DeliverIdentifier delivers an identity-link event.
	DeliverIdentifier(ctx context.Context, event types.IdentifierEvent) error
}

// job is one queued delivery. Assignment jobs carry only the coalescing key;
// the event itself lives in the pending map so later re-records replace
// earlier ones before delivery.
type job struct {
	kind       string
	key        string
	identifier types.IdentifierEvent
}

// Dispatcher queues events and delivers them asynchronously through a Sink
// with retry and backoff.
//
// Queueing never blocks the caller's unit of work: a full queue fails fast
// with ErrQueueFull. Delivery is at-least-once while the process lives;
// durable cross-restart retry belongs to the consuming service.
type Dispatcher struct {
	cfg     Config
	sink    Sink
	logger  types.Logger
	metrics types.MetricsCollector

	pending *xsync.Map[string, types.AssignmentEvent]
	jobs    chan job

	mu     sync.Mutex
	closed bool

	workerCtx    context.Context
	workerCancel context.CancelFunc
	drained      chan struct{}

	rng *rand.Rand
}

var _ types.Notifier = (*Dispatcher)(nil)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets a logger.
//
// Parameters:
//   - log: Logger implementation
//
// Returns:
//   - DispatcherOption: Configuration option
func WithLogger(log types.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = log
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - m: MetricsCollector implementation
//
// Returns:
//   - DispatcherOption: Configuration option
func WithMetrics(m types.MetricsCollector) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a dispatcher and starts its delivery worker.
//
// The worker runs until Close is called. Events queued after Close fail with
// ErrDispatcherClosed.
//
// Parameters:
//   - sink: Delivery destination (HTTPSink, JetStreamSink, or custom)
//   - cfg: Queueing and retry configuration (DefaultConfig() for defaults)
//   - opts: Optional configuration (WithLogger, WithMetrics)
//
// Returns:
//   - *Dispatcher: Running dispatcher
//   - error: Configuration validation error
//
// Example:
//
//	sink := notify.NewHTTPSink(cfg.Endpoint)
//	dispatcher, err := notify.NewDispatcher(sink, notify.DefaultConfig())
//	if err != nil { /* handle */ }
//	defer dispatcher.Close()
func NewDispatcher(sink Sink, cfg Config, opts ...DispatcherOption) (*Dispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is required", types.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		cfg:          cfg,
		sink:         sink,
		logger:       logger.NewNop(),
		metrics:      metrics.NewNop(),
		pending:      xsync.NewMap[string, types.AssignmentEvent](),
		jobs:         make(chan job, cfg.QueueSize),
		workerCtx:    ctx,
		workerCancel: cancel,
		drained:      make(chan struct{}),
		rng:          newRetryRNG(cfg.RetrySeed),
	}

	for _, opt := range opts {
		opt(d)
	}

	go d.work()

	return d, nil
}

// QueueAssignment enqueues a new-assignment event for delivery.
//
// Events for the same (visitor, split) pair are coalesced: a later queueing
// replaces the pending event rather than adding a second delivery, so a
// defaulted vary that re-records an assignment reports only the final
// variant.
//
// Parameters:
//   - event: The assignment to report
//
// Returns:
//   - error: ErrDispatcherClosed or ErrQueueFull (the event is dropped)
func (d *Dispatcher) QueueAssignment(event types.AssignmentEvent) error {
	key := event.VisitorID + "/" + event.SplitName

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return types.ErrDispatcherClosed
	}

	if _, loaded := d.pending.LoadAndStore(key, event); loaded {
		// A delivery for this pair is already queued; it will pick up the
		// replaced event.
		return nil
	}

	select {
	case d.jobs <- job{kind: kindAssignment, key: key}:
		d.metrics.RecordQueueDepth(len(d.jobs))

		return nil
	default:
		d.pending.Delete(key)

		return fmt.Errorf("%w: dropping assignment for %s", types.ErrQueueFull, event.SplitName)
	}
}

// QueueIdentifier enqueues an identity-link event for delivery.
//
// Parameters:
//   - event: The identity link to report
//
// Returns:
//   - error: ErrDispatcherClosed or ErrQueueFull (the event is dropped)
func (d *Dispatcher) QueueIdentifier(event types.IdentifierEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return types.ErrDispatcherClosed
	}

	select {
	case d.jobs <- job{kind: kindIdentifier, identifier: event}:
		d.metrics.RecordQueueDepth(len(d.jobs))

		return nil
	default:
		return fmt.Errorf("%w: dropping identifier %s", types.ErrQueueFull, event.IdentifierType)
	}
}

// Close stops accepting events and waits for the queue to drain.
//
// Deliveries in flight get up to FlushTimeout to complete; after that the
// worker is cancelled and remaining events are dropped.
//
// Returns:
//   - error: ErrDeliveryFailed (wrapped) if the queue did not drain in time
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()

		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	select {
	case <-d.drained:
		return nil
	case <-time.After(d.cfg.FlushTimeout):
		d.workerCancel()

		return fmt.Errorf("%w: queue not drained within %v", types.ErrDeliveryFailed, d.cfg.FlushTimeout)
	}
}

func (d *Dispatcher) work() {
	defer close(d.drained)
	defer d.workerCancel()

	for j := range d.jobs {
		d.metrics.RecordQueueDepth(len(d.jobs))

		switch j.kind {
		case kindAssignment:
			event, ok := d.pending.LoadAndDelete(j.key)
			if !ok {
				continue
			}
			d.deliver(kindAssignment, func(ctx context.Context) error {
				return d.sink.DeliverAssignment(ctx, event)
			})
		case kindIdentifier:
			event := j.identifier
			d.deliver(kindIdentifier, func(ctx context.Context) error {
				return d.sink.DeliverIdentifier(ctx, event)
			})
		}
	}
}

// deliver attempts one event with retry and jittered backoff. Events that
// exhaust MaxAttempts are dropped and logged.
func (d *Dispatcher) deliver(kind string, attempt func(context.Context) error) {
	var backoff time.Duration
	var lastErr error

	for i := range d.cfg.MaxAttempts {
		if i > 0 {
			backoff = jitterBackoff(backoff, d.cfg.RetryBase, d.cfg.RetryMultiplier, d.cfg.RetryCap, d.rng)
			d.metrics.RecordDeliveryBackoff(kind, backoff.Seconds())

			select {
			case <-d.workerCtx.Done():
				return
			case <-time.After(backoff):
			}
		}

		lastErr = attempt(d.workerCtx)
		d.metrics.RecordDeliveryAttempt(kind, lastErr == nil)
		if lastErr == nil {
			return
		}

		d.logger.Debug("event delivery attempt failed",
			"kind", kind,
			"attempt", i+1,
			"error", lastErr,
		)
	}

	d.logger.Error("event delivery failed, dropping event",
		"kind", kind,
		"attempts", d.cfg.MaxAttempts,
		"error", lastErr,
	)
}
