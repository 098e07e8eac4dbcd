package calc

import (
	"fmt"

	"github.com/noveng05/splits/internal/hash"
	"github.com/noveng05/splits/types"
)

// XXH3 implements deterministic variant calculation backed by the XXH3 hash.
type XXH3 struct {
	seed uint64
}

var _ types.VariantCalculator = (*XXH3)(nil)

// XXH3Option configures an XXH3 calculator.
type XXH3Option func(*XXH3)

// NewXXH3 creates a new XXH3-backed variant calculator.
//
// The calculator derives a bucket in [0, totalWeight) from the visitor id and
// split name, then enumerates variants in lexicographic order accumulating
// weights; the first variant whose cumulative weight exceeds the bucket wins.
// For a fixed weight table the long-run fraction of visitor ids mapped to a
// variant converges to weight/totalWeight.
//
// Parameters:
//   - opts: Optional configuration (WithSeed)
//
// Returns:
//   - *XXH3: Initialized calculator
//
// Example:
//
//	calc := calc.NewXXH3()
//	variant, err := calc.Variant(visitorID, "blue_button", weights)
func NewXXH3(opts ...XXH3Option) *XXH3 {
	c := &XXH3{seed: 0}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithSeed sets a custom hash seed.
//
// Changing the seed reshuffles every assignment, so it must stay fixed for
// the life of an experiment population. Use 0 (the default) unless two
// deployments need independent assignment spaces.
//
// Parameters:
//   - seed: Hash seed value
//
// Returns:
//   - XXH3Option: Configuration option
func WithSeed(seed uint64) XXH3Option {
	return func(c *XXH3) {
		c.seed = seed
	}
}

// Variant computes the variant for a visitor within a split.
//
// Parameters:
//   - visitorID: Stable opaque visitor identifier
//   - splitName: Name of the split being evaluated
//   - weights: Variant weight table for the split
//
// Returns:
//   - string: The assigned variant name
//   - error: types.ErrInvalidWeights (wrapped) if the table is empty or all zero
func (c *XXH3) Variant(visitorID, splitName string, weights types.Weights) (string, error) {
	if err := weights.Validate(); err != nil {
		return "", fmt.Errorf("split %s: %w", splitName, err)
	}

	bucket := hash.Bucket(visitorID, splitName, weights.Total(), c.seed)

	var cumulative uint64
	for _, variant := range weights.Variants() {
		cumulative += weights[variant]
		if bucket < cumulative {
			return variant, nil
		}
	}

	// Unreachable: bucket < Total() and the cumulative walk covers Total().
	return "", fmt.Errorf("split %s: %w: bucket %d not covered", splitName, types.ErrInvalidWeights, bucket)
}
