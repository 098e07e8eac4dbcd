// Package splits assigns visitors to deterministic, reproducible experiment
// variants for named split tests.
//
// A Visitor resolves each split to a variant by hashing its id against the
// split's weight table, caches the result for its lifetime, and reconciles
// its assignments with the server when an anonymous visitor logs in.
//
// # Quick Start
//
// Basic usage with an HTTP registry:
//
//	import "github.com/noveng05/splits"
//
//	cfg := splits.DefaultConfig()
//	cfg.Endpoint = "https://splits.example.com"
//
//	client := registry.NewHTTP(cfg.Endpoint)
//	v, err := splits.ResumeVisitor(client, cookieID, splits.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	enabled, err := v.AB(ctx, "blue_button", "")
//
// # Key Features
//
//   - Deterministic Assignment: the same visitor id always resolves a split
//     to the same variant, across processes and restarts
//   - Weighted Variants: long-run assignment fractions converge to the
//     configured weight ratios
//   - Branch DSL: Vary declares one code path per variant with a mandatory
//     default that self-heals assignments to removed variants
//   - Identity Merge: MergeFrom reconciles an anonymous visitor's state with
//     the canonical server-side identity on login
//   - Offline Degradation: registry fetch failures put the visitor into
//     sticky offline mode; variants keep resolving, nothing persists
//
// # Architecture
//
// The Visitor orchestrates three collaborators:
//
//	RegistryClient  -> split weights + prior assignments (registry package)
//	VariantCalculator -> deterministic variant computation (calc package)
//	Notifier        -> async delivery of new assignments (notify package)
//
// The session package wires visitors into net/http request handling: cookie
// management, context propagation, and end-of-request flushing of new
// assignments.
//
// # Advanced Usage
//
// Custom calculator and hooks:
//
//	c := calc.NewXXH3(calc.WithSeed(7))
//
//	hooks := &splits.Hooks{
//	    OnAssignment: func(ctx context.Context, visitorID, split, variant string, fresh bool) error {
//	        // Record the exposure
//	        return nil
//	    },
//	}
//
//	v, err := splits.ResumeVisitor(client, id,
//	    splits.WithCalculator(c),
//	    splits.WithHooks(hooks),
//	    splits.WithLogger(logging.NewSlogDefault()),
//	)
package splits
