package session

import (
	"context"
	"net/http"
	"time"

	"github.com/noveng05/splits"
	"github.com/noveng05/splits/internal/logger"
	"github.com/noveng05/splits/types"
)

// visitorKey is the context key under which the request's visitor is stored.
type visitorKey struct{}

// Manager owns visitor construction, cookie persistence, and end-of-request
// flushing of new assignments for HTTP request handling.
type Manager struct {
	cfg         splits.Config
	client      types.RegistryClient
	notifier    types.Notifier
	logger      types.Logger
	visitorOpts []splits.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the notifier that receives new-assignment events at the
// end of each request.
//
// Parameters:
//   - notifier: Notifier implementation (typically *notify.Dispatcher)
//
// Returns:
//   - Option: Configuration option
func WithNotifier(notifier types.Notifier) Option {
	return func(m *Manager) {
		m.notifier = notifier
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - log: Logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(log types.Logger) Option {
	return func(m *Manager) {
		m.logger = log
	}
}

// WithVisitorOptions appends options passed through to every visitor the
// manager constructs (e.g. splits.WithCalculator, splits.WithHooks).
//
// Parameters:
//   - opts: Visitor options
//
// Returns:
//   - Option: Configuration option
func WithVisitorOptions(opts ...splits.Option) Option {
	return func(m *Manager) {
		m.visitorOpts = append(m.visitorOpts, opts...)
	}
}

// NewManager creates a session manager.
//
// Parameters:
//   - cfg: Client configuration (cookie name/lifetime, fetch timeouts)
//   - client: Registry client collaborator (required)
//   - opts: Optional configuration (WithNotifier, WithLogger, WithVisitorOptions)
//
// Returns:
//   - *Manager: Initialized manager
//   - error: ErrRegistryClientRequired or configuration validation error
//
// Example:
//
//	mgr, err := session.NewManager(cfg, registry.NewHTTP(cfg.Endpoint),
//	    session.WithNotifier(dispatcher),
//	)
//	http.Handle("/", mgr.Middleware(appHandler))
func NewManager(cfg splits.Config, client types.RegistryClient, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, types.ErrRegistryClientRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:    cfg,
		client: client,
		logger: logger.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Middleware wraps a handler with visitor lifecycle management.
//
// For each request it reconstitutes the visitor from the cookie (or creates a
// fresh anonymous one), stores it in the request context, sets the cookie on
// the response, and, after the handler returns, queues the visitor's new
// assignments with the notifier.
//
// Parameters:
//   - next: The handler to wrap
//
// Returns:
//   - http.Handler: The wrapped handler
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visitor, err := m.visitorFor(r)
		if err != nil {
			// Construction only fails on misconfiguration; the request is
			// served without experiment support rather than failing.
			m.logger.Error("failed to build visitor", "error", err)
			next.ServeHTTP(w, r)

			return
		}

		m.writeCookie(w, visitor.ID())

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), visitor)))

		m.flush(visitor)
	})
}

// visitorFor reconstitutes the request's visitor from the cookie, or creates
// a fresh anonymous one when the cookie is absent.
func (m *Manager) visitorFor(r *http.Request) (*splits.Visitor, error) {
	opts := append([]splits.Option{
		splits.WithConfig(m.cfg),
		splits.WithLogger(m.logger),
	}, m.visitorOpts...)

	if m.notifier != nil {
		opts = append(opts, splits.WithNotifier(m.notifier))
	}

	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return splits.NewVisitor(m.client, opts...)
	}

	return splits.ResumeVisitor(m.client, cookie.Value, opts...)
}

func (m *Manager) writeCookie(w http.ResponseWriter, visitorID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    visitorID,
		Path:     "/",
		MaxAge:   int(m.cfg.CookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// flush queues the visitor's new assignments for asynchronous delivery.
func (m *Manager) flush(visitor *splits.Visitor) {
	if m.notifier == nil {
		return
	}

	now := time.Now()
	for splitName, variant := range visitor.NewAssignments() {
		err := m.notifier.QueueAssignment(types.AssignmentEvent{
			VisitorID:  visitor.ID(),
			SplitName:  splitName,
			Variant:    variant,
			AssignedAt: now,
		})
		if err != nil {
			m.logger.Warn("failed to queue assignment event",
				"split", splitName,
				"error", err,
			)
		}
	}
}

// NewContext returns a context carrying the request's visitor.
//
// Parameters:
//   - ctx: Parent context
//   - visitor: The request's visitor
//
// Returns:
//   - context.Context: Context with the visitor attached
func NewContext(ctx context.Context, visitor *splits.Visitor) context.Context {
	return context.WithValue(ctx, visitorKey{}, visitor)
}

// FromContext extracts the request's visitor from a context.
//
// Parameters:
//   - ctx: Request context
//
// Returns:
//   - *splits.Visitor: The visitor, or nil
//   - bool: false when no visitor is attached
//
// Example:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    v, ok := session.FromContext(r.Context())
//	    if !ok { /* middleware not installed */ }
//	    enabled, _ := v.AB(r.Context(), "blue_button", "")
//	}
func FromContext(ctx context.Context) (*splits.Visitor, bool) {
	visitor, ok := ctx.Value(visitorKey{}).(*splits.Visitor)

	return visitor, ok
}
