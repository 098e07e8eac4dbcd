package splits

import "fmt"

// Vary is a one-shot branch declaration builder bound to one split and one
// already-resolved variant.
//
// Callers declare branches inside the block passed to Visitor.Vary:
//
//	d.When("hammertime", func() any { ... })
//	d.Default("clobberin_time", func() any { ... })
//
// Structural validation happens when execution is requested: at least one
// When and exactly one Default are required. Exactly one handler runs,
// exactly once; its return value becomes Vary's return value unchanged.
type Vary struct {
	splitName string
	assigned  string

	whens []branch

	defaultSet     bool
	defaultVariant string
	defaultHandler func() any

	// defaulted records that execution fell through to the default branch,
	// which tells the owning Visitor to re-record the default's variant as
	// the assignment for this split.
	defaulted bool

	// structural defects observed during declaration, surfaced at run time
	err error
}

// branch is one declared (variant, handler) pair.
type branch struct {
	variant string
	handler func() any
}

func newVary(splitName, assigned string) *Vary {
	return &Vary{
		splitName: splitName,
		assigned:  assigned,
	}
}

// When declares a handler for one variant of the split.
//
// May be called multiple times, once per variant. Declaring the same variant
// twice keeps the first handler (the entry set is ordered).
//
// Parameters:
//   - variant: Variant name this branch handles
//   - handler: Code path executed when the visitor resolves to the variant
//
// Returns:
//   - *Vary: The builder, for chained declarations
func (d *Vary) When(variant string, handler func() any) *Vary {
	d.whens = append(d.whens, branch{variant: variant, handler: handler})

	return d
}

// Default declares the fallback branch executed when the resolved variant
// matches no declared When.
//
// Exactly one Default is required; a second call is a structural error.
//
// Parameters:
//   - variant: Variant name recorded as the assignment when defaulting
//   - handler: Code path executed on fallback
//
// Returns:
//   - *Vary: The builder, for chained declarations
func (d *Vary) Default(variant string, handler func() any) *Vary {
	if d.defaultSet {
		d.err = fmt.Errorf("%w for %s", ErrMultipleDefaults, d.splitName)

		return d
	}

	d.defaultSet = true
	d.defaultVariant = variant
	d.defaultHandler = handler

	return d
}

// run validates the declaration and dispatches exactly one handler.
func (d *Vary) run() (any, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(d.whens) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoWhen, d.splitName)
	}
	if !d.defaultSet {
		return nil, fmt.Errorf("%w for %s", ErrNoDefault, d.splitName)
	}

	for _, b := range d.whens {
		if b.variant == d.assigned {
			return b.handler(), nil
		}
	}

	d.defaulted = true

	return d.defaultHandler(), nil
}
