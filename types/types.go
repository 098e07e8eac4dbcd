package types

import (
	"fmt"
	"slices"
)

// Weights maps variant names to relative weights for one split.
//
// Weights are relative, not percentages: {"a": 1, "b": 3} assigns a quarter
// of visitors to "a". A zero weight is a retired variant: existing
// server-side assignments to it remain valid, but no new visitor receives it.
type Weights map[string]uint64

// Total returns the sum of all variant weights.
func (w Weights) Total() uint64 {
	var total uint64
	for _, weight := range w {
		total += weight
	}

	return total
}

// Variants returns the variant names in lexicographic order.
//
// The order is part of the assignment contract: the calculator walks
// cumulative weights in this order, so it must be identical across processes.
func (w Weights) Variants() []string {
	variants := make([]string, 0, len(w))
	for variant := range w {
		variants = append(variants, variant)
	}
	slices.Sort(variants)

	return variants
}

// Validate reports whether the table can drive an assignment.
//
// Returns:
//   - error: ErrInvalidWeights (wrapped) for an empty table or zero total
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: no variants", ErrInvalidWeights)
	}
	if w.Total() == 0 {
		return fmt.Errorf("%w: total weight is zero", ErrInvalidWeights)
	}

	return nil
}

// SplitRegistry maps split names to their variant weight tables.
type SplitRegistry map[string]Weights

// AssignmentRegistry maps split names to the variant a visitor is assigned.
type AssignmentRegistry map[string]string
