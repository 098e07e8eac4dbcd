package splits

// Option configures a Visitor with optional dependencies.
type Option func(*visitorOptions)

// visitorOptions holds optional Visitor configuration.
type visitorOptions struct {
	config     *Config
	calculator VariantCalculator
	identity   IdentityClient
	notifier   Notifier
	hooks      *Hooks
	metrics    MetricsCollector
	logger     Logger
}

// WithConfig sets the client configuration.
//
// When omitted, DefaultConfig() is used. The configuration is validated by
// the constructor; invalid values fail fast.
//
// Parameters:
//   - cfg: Client configuration
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
func WithConfig(cfg Config) Option {
	return func(o *visitorOptions) {
		o.config = &cfg
	}
}

// WithCalculator sets a custom variant calculator.
//
// The default is the XXH3 calculator with no seed. Every process evaluating
// the same experiment population must use the same calculator and seed.
//
// Parameters:
//   - calculator: VariantCalculator implementation
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
//
// Example:
//
//	v := splits.NewVisitor(client, splits.WithCalculator(calc.NewXXH3(calc.WithSeed(7))))
func WithCalculator(calculator VariantCalculator) Option {
	return func(o *visitorOptions) {
		o.calculator = calculator
	}
}

// WithIdentityClient sets the identity client used by LinkIdentifier.
//
// Parameters:
//   - client: IdentityClient implementation (typically registry.HTTP)
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
func WithIdentityClient(client IdentityClient) Option {
	return func(o *visitorOptions) {
		o.identity = client
	}
}

// WithNotifier sets the notifier that receives deferred identity-link events
// when the synchronous identity call times out.
//
// Parameters:
//   - notifier: Notifier implementation (typically *notify.Dispatcher)
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
func WithNotifier(notifier Notifier) Option {
	return func(o *visitorOptions) {
		o.notifier = notifier
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
//
// Example:
//
//	hooks := &splits.Hooks{
//	    OnAssignment: func(ctx context.Context, visitorID, split, variant string, fresh bool) error {
//	        return audit(visitorID, split, variant)
//	    },
//	}
//	v := splits.NewVisitor(client, splits.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *visitorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *visitorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger;
//     logging.NewSlogDefault() adapts the standard library's slog)
//
// Returns:
//   - Option: Functional option for NewVisitor / ResumeVisitor
//
// Example:
//
//	v := splits.NewVisitor(client, splits.WithLogger(logging.NewSlogDefault()))
func WithLogger(logger Logger) Option {
	return func(o *visitorOptions) {
		o.logger = logger
	}
}
