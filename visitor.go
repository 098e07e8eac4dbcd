package splits

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/noveng05/splits/calc"
	"github.com/noveng05/splits/internal/logger"
	"github.com/noveng05/splits/internal/metrics"
	"github.com/noveng05/splits/types"
)

// Assignment resolution sources reported to the metrics collector.
const (
	sourceCache     = "cache"
	sourceComputed  = "computed"
	sourceDefaulted = "defaulted"
	sourceOffline   = "offline"
)

// Registry kinds reported to the metrics collector.
const (
	kindSplitRegistry      = "split_registry"
	kindAssignmentRegistry = "assignment_registry"
)

// Visitor is the unit of assignment identity for one unit of work (typically
// one HTTP request).
//
// A Visitor owns an opaque stable id, the assignment registry cache for that
// id, and the subset of assignments computed fresh during this lifetime. It
// lazily pulls the split registry and (for resumed ids) the server-side
// assignment registry from the RegistryClient, fills gaps deterministically
// via the VariantCalculator, and hands its new assignments to the delivery
// layer at the end of the unit of work.
//
// A Visitor is confined to a single unit of work and is not safe for
// concurrent use; no internal locking is performed. Reproducibility across
// instances comes from calculator determinism, not shared state.
type Visitor struct {
	id        string
	generated bool

	client     RegistryClient
	identity   IdentityClient
	calculator VariantCalculator
	notifier   Notifier
	hooks      *Hooks
	metrics    MetricsCollector
	logger     Logger
	cfg        Config

	assignments    map[string]string
	newAssignments map[string]string

	splitRegistry SplitRegistry
	splitFetched  bool

	assignmentsFetched bool

	// offline is sticky: once a registry fetch fails, all subsequent
	// computations are non-persistent for the life of this instance.
	offline bool
}

// NewVisitor creates a fresh anonymous visitor with a locally generated id.
//
// A freshly generated id cannot have prior server-side assignments, so the
// assignment registry starts empty and FetchAssignmentRegistry is never
// called for this instance. This exemption relies on UUID-strength
// collision resistance of the generated id; see ResumeVisitor for
// reconstituting a known id.
//
// Parameters:
//   - client: Registry client collaborator (required)
//   - opts: Optional configuration (WithConfig, WithCalculator, WithLogger, ...)
//
// Returns:
//   - *Visitor: Initialized visitor with a generated UUID id
//   - error: ErrRegistryClientRequired or configuration validation error
//
// Example:
//
//	v, err := splits.NewVisitor(client)
//	if err != nil { /* handle */ }
//	enabled, err := v.AB(ctx, "blue_button", "")
func NewVisitor(client RegistryClient, opts ...Option) (*Visitor, error) {
	return newVisitor(client, "", opts...)
}

// ResumeVisitor reconstitutes a visitor from a known id (e.g. read from the
// visitor cookie on a subsequent request).
//
// The visitor's server-side assignment registry is fetched lazily on first
// use. An empty id falls back to NewVisitor behavior with a generated id.
//
// Parameters:
//   - client: Registry client collaborator (required)
//   - id: Previously issued visitor id
//   - opts: Optional configuration (WithConfig, WithCalculator, WithLogger, ...)
//
// Returns:
//   - *Visitor: Initialized visitor bound to the given id
//   - error: ErrRegistryClientRequired or configuration validation error
func ResumeVisitor(client RegistryClient, id string, opts ...Option) (*Visitor, error) {
	return newVisitor(client, id, opts...)
}

func newVisitor(client RegistryClient, id string, opts ...Option) (*Visitor, error) {
	if client == nil {
		return nil, ErrRegistryClientRequired
	}

	options := &visitorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	cfg := DefaultConfig()
	if options.config != nil {
		cfg = *options.config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v := &Visitor{
		id:             id,
		client:         client,
		identity:       options.identity,
		calculator:     options.calculator,
		notifier:       options.notifier,
		hooks:          options.hooks,
		metrics:        options.metrics,
		logger:         options.logger,
		cfg:            cfg,
		assignments:    make(map[string]string),
		newAssignments: make(map[string]string),
	}

	if v.calculator == nil {
		v.calculator = calc.NewXXH3()
	}
	if v.logger == nil {
		v.logger = logger.NewNop()
	}
	if v.metrics == nil {
		v.metrics = metrics.NewNop()
	}

	if v.id == "" {
		v.id = uuid.NewString()
		v.generated = true
		// A brand-new id has no server-side assignments to fetch.
		v.assignmentsFetched = true
	}

	cfg.ValidateWithWarnings(v.logger)

	return v, nil
}

// ID returns the visitor's identifier.
func (v *Visitor) ID() string {
	return v.id
}

// Generated reports whether the id was generated locally during this lifetime.
func (v *Visitor) Generated() bool {
	return v.generated
}

// Offline reports whether the visitor is in sticky offline mode.
func (v *Visitor) Offline() bool {
	return v.offline
}

// Assignments returns a copy of the visitor's assignment registry.
func (v *Visitor) Assignments() AssignmentRegistry {
	return maps.Clone(AssignmentRegistry(v.assignments))
}

// NewAssignments returns a copy of the assignments computed during this
// visitor's lifetime. These are the assignments the remote service does not
// yet know about; the session layer hands them to the notifier at the end of
// the unit of work.
func (v *Visitor) NewAssignments() AssignmentRegistry {
	return maps.Clone(AssignmentRegistry(v.newAssignments))
}

// Assignment resolves the visitor's variant for a split.
//
// The cached assignment is returned when present. Otherwise the variant is
// computed deterministically from the split's weight table and, unless the
// visitor is offline, recorded into both the assignment registry and the new
// assignments before returning.
//
// Parameters:
//   - ctx: Context for registry fetches
//   - splitName: Name of the split to resolve
//
// Returns:
//   - string: The resolved variant
//   - error: ErrUnknownSplit if the registry does not contain the split,
//     ErrRegistryUnavailable if offline mode prevented fetching the registry
func (v *Visitor) Assignment(ctx context.Context, splitName string) (string, error) {
	registry := v.assignmentRegistry(ctx)
	if variant, ok := registry[splitName]; ok {
		v.metrics.RecordAssignment(splitName, variant, sourceCache)
		v.fireOnAssignment(ctx, splitName, variant, false)

		return variant, nil
	}

	weights, err := v.splitWeights(ctx, splitName)
	if err != nil {
		return "", err
	}

	variant, err := v.calculator.Variant(v.id, splitName, weights)
	if err != nil {
		return "", err
	}

	if v.offline {
		// Computed but not recorded: reads stay correct, nothing persists.
		v.metrics.RecordAssignment(splitName, variant, sourceOffline)

		return variant, nil
	}

	v.assignments[splitName] = variant
	v.newAssignments[splitName] = variant
	v.metrics.RecordAssignment(splitName, variant, sourceComputed)
	v.fireOnAssignment(ctx, splitName, variant, true)

	return variant, nil
}

// Vary resolves the visitor's variant for a split and executes the matching
// branch declared by the caller.
//
// The declare function receives a one-shot *Vary builder and must declare at
// least one When branch and exactly one Default branch. If the resolved
// variant matches no declared When, the default branch runs and its variant
// is re-recorded as the visitor's assignment (self-healing when a previously
// assigned variant has been removed from the split).
//
// Parameters:
//   - ctx: Context for registry fetches
//   - splitName: Name of the split to resolve
//   - declare: Branch declaration block
//
// Returns:
//   - any: The executed handler's return value, unchanged
//   - error: ErrMissingBlock, a structural DSL error, or ErrUnknownSplit
//
// Example:
//
//	result, err := v.Vary(ctx, "checkout_flow", func(d *splits.Vary) {
//	    d.When("one_page", func() any { return renderOnePage() })
//	    d.Default("classic", func() any { return renderClassic() })
//	})
func (v *Visitor) Vary(ctx context.Context, splitName string, declare func(*Vary)) (any, error) {
	if declare == nil {
		return nil, fmt.Errorf("%w %s", ErrMissingBlock, splitName)
	}

	assigned, err := v.Assignment(ctx, splitName)
	if err != nil && !errors.Is(err, ErrRegistryUnavailable) {
		return nil, err
	}

	d := newVary(splitName, assigned)
	declare(d)

	result, err := d.run()
	if err != nil {
		return nil, err
	}

	if d.defaulted {
		v.metrics.RecordVaryDefaulted(splitName)
		v.record(ctx, splitName, d.defaultVariant)
	}

	return result, nil
}

// AB resolves a two-variant (boolean) split.
//
// Sugar over Vary with exactly one When (the true branch) and one Default
// (the false branch). The true branch matches trueVariant, or the literal
// "true" when trueVariant is empty; the false branch is always the literal
// "false".
//
// Parameters:
//   - ctx: Context for registry fetches
//   - splitName: Name of the split to resolve
//   - trueVariant: Custom label for the true branch ("" for "true")
//
// Returns:
//   - bool: true when the visitor is assigned the true branch
//   - error: Same failure modes as Vary
//
// Example:
//
//	enabled, err := v.AB(ctx, "blue_button", "")
func (v *Visitor) AB(ctx context.Context, splitName, trueVariant string) (bool, error) {
	ab := NewABConfig(splitName, trueVariant)

	result, err := v.Vary(ctx, splitName, func(d *Vary) {
		d.When(ab.TrueVariant(), func() any { return true })
		d.Default(ab.FalseVariant(), func() any { return false })
	})
	if err != nil {
		return false, err
	}

	enabled, ok := result.(bool)

	return ok && enabled, nil
}

// MergeFrom combines the canonical (server-sourced) visitor's state into the
// receiver, producing the post-login identity in place.
//
// The receiver adopts other's identifier. Splits the server already knows
// about are removed from the receiver's new assignments (server truth
// supersedes locally-pending reports), and other's assignments are overlaid
// on the receiver's registry with other winning on conflicts. Assignments
// only the receiver has (e.g. a split evaluated for the first time in the
// same unit of work as the login) survive and remain pending delivery.
//
// Parameters:
//   - other: The canonical visitor whose state takes precedence
func (v *Visitor) MergeFrom(other *Visitor) {
	if other == nil {
		return
	}

	v.id = other.id
	v.generated = false

	for splitName := range other.assignments {
		delete(v.newAssignments, splitName)
	}
	maps.Copy(v.assignments, other.assignments)

	if other.assignmentsFetched {
		v.assignmentsFetched = true
	}
}

// LinkIdentifier links the visitor to an application identifier (e.g. a user
// id at login) and merges the canonical state the identity service returns.
//
// On success the receiver adopts the canonical id and assignment registry via
// MergeFrom. If the synchronous call times out and a notifier is configured,
// the link event is handed off for deferred at-least-once delivery and the
// unit of work continues with the local state; other errors are returned.
//
// Parameters:
//   - ctx: Context for the identity call (bounded by Config.IdentityTimeout)
//   - identifierType: Remote identifier type name (e.g. "myapp_user_id")
//   - value: The identifier value
//
// Returns:
//   - error: ErrIdentityClientRequired, or the identity call error when it
//     cannot be deferred
func (v *Visitor) LinkIdentifier(ctx context.Context, identifierType, value string) error {
	if v.identity == nil {
		return ErrIdentityClientRequired
	}

	callCtx, cancel := context.WithTimeout(ctx, v.cfg.IdentityTimeout)
	defer cancel()

	result, err := v.identity.CreateIdentifier(callCtx, identifierType, v.id, value)
	if err != nil {
		if isTimeout(err) && v.notifier != nil {
			if queueErr := v.notifier.QueueIdentifier(IdentifierEvent{
				VisitorID:      v.id,
				IdentifierType: identifierType,
				Value:          value,
			}); queueErr != nil {
				v.metrics.RecordIdentityMerge(false)

				return fmt.Errorf("defer identifier delivery: %w", queueErr)
			}

			v.metrics.RecordIdentityDeferred()
			v.logger.Warn("identity link timed out, deferred delivery to notifier",
				"identifierType", identifierType,
				"visitorID", v.id,
			)

			return nil
		}

		v.metrics.RecordIdentityMerge(false)

		return fmt.Errorf("create identifier %s: %w", identifierType, err)
	}

	previousID := v.id
	v.MergeFrom(visitorFromResult(result))
	v.metrics.RecordIdentityMerge(true)

	if v.hooks != nil && v.hooks.OnIdentityMerged != nil {
		if hookErr := v.hooks.OnIdentityMerged(ctx, previousID, v.id); hookErr != nil {
			v.logger.Error("OnIdentityMerged hook failed", "error", hookErr)
		}
	}

	return nil
}

// record persists a variant decided outside the calculator (the vary default
// fallback), overwriting any previously cached value for the split.
func (v *Visitor) record(ctx context.Context, splitName, variant string) {
	if v.offline {
		return
	}

	v.assignments[splitName] = variant
	v.newAssignments[splitName] = variant
	v.metrics.RecordAssignment(splitName, variant, sourceDefaulted)
	v.fireOnAssignment(ctx, splitName, variant, true)
}

// assignmentRegistry returns the visitor's assignment cache, fetching the
// server-side registry once for resumed ids. A fetch failure flips the
// visitor into sticky offline mode and leaves the cache as-is.
func (v *Visitor) assignmentRegistry(ctx context.Context) map[string]string {
	if v.assignmentsFetched {
		return v.assignments
	}
	v.assignmentsFetched = true

	fetchCtx, cancel := context.WithTimeout(ctx, v.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	registry, err := v.client.FetchAssignmentRegistry(fetchCtx, v.id)
	v.metrics.RecordRegistryFetch(kindAssignmentRegistry, time.Since(start).Seconds(), err == nil)
	if err != nil {
		v.goOffline(ctx, fmt.Errorf("fetch assignment registry: %w", err))

		return v.assignments
	}

	// Entries resolved locally before the fetch completed win: a variant
	// computed for a non-offline visitor never changes within a lifetime.
	for splitName, variant := range registry {
		if _, exists := v.assignments[splitName]; !exists {
			v.assignments[splitName] = variant
		}
	}

	return v.assignments
}

// splitWeights returns the weight table for a split, fetching the split
// registry once per lifetime. The split registry is a separate resource from
// the per-visitor assignment registry, so the fetch is still attempted for a
// visitor that went offline on the assignment side.
func (v *Visitor) splitWeights(ctx context.Context, splitName string) (Weights, error) {
	if !v.splitFetched {
		v.splitFetched = true

		fetchCtx, cancel := context.WithTimeout(ctx, v.cfg.FetchTimeout)
		defer cancel()

		start := time.Now()
		registry, err := v.client.FetchSplitRegistry(fetchCtx)
		v.metrics.RecordRegistryFetch(kindSplitRegistry, time.Since(start).Seconds(), err == nil)
		if err != nil {
			v.goOffline(ctx, fmt.Errorf("fetch split registry: %w", err))
		} else {
			v.splitRegistry = registry
		}
	}

	if v.splitRegistry == nil {
		return nil, fmt.Errorf("%w: cannot resolve %s", ErrRegistryUnavailable, splitName)
	}

	weights, ok := v.splitRegistry[splitName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSplit, splitName)
	}

	return weights, nil
}

func (v *Visitor) goOffline(ctx context.Context, err error) {
	if v.offline {
		return
	}
	v.offline = true

	v.metrics.RecordOffline()
	v.logger.Warn("registry unreachable, visitor entering offline mode",
		"visitorID", v.id,
		"error", err,
	)

	if v.hooks != nil && v.hooks.OnOffline != nil {
		if hookErr := v.hooks.OnOffline(ctx, err); hookErr != nil {
			v.logger.Error("OnOffline hook failed", "error", hookErr)
		}
	}
}

func (v *Visitor) fireOnAssignment(ctx context.Context, splitName, variant string, fresh bool) {
	if v.hooks == nil || v.hooks.OnAssignment == nil {
		return
	}
	if err := v.hooks.OnAssignment(ctx, v.id, splitName, variant, fresh); err != nil {
		v.logger.Error("OnAssignment hook failed", "split", splitName, "error", err)
	}
}

// visitorFromResult builds the canonical merge source from an identity-link
// response.
func visitorFromResult(result types.IdentifierResult) *Visitor {
	return &Visitor{
		id:                 result.ID,
		assignments:        maps.Clone(map[string]string(result.Assignments)),
		newAssignments:     make(map[string]string),
		assignmentsFetched: true,
	}
}

// isTimeout reports whether err represents a deadline or network timeout, the
// only identity-link failures that are deferred rather than surfaced.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
