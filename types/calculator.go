package types

// VariantCalculator derives a variant from a visitor id, split name, and
// weight table.
//
// Calculator implementations must:
//   - Be deterministic: identical (visitorID, splitName, weights) always
//     yields the identical variant, across processes and time
//   - Be approximately uniform: over many visitor ids the fraction assigned
//     to a variant converges to weight/totalWeight
//   - Be stateless (no side effects)
//
// Determinism is what lets a visitor re-instantiated with the same id on the
// next request reconstruct the same assignment before the server-cached value
// is even consulted. Bit-exact compatibility with any particular hash choice
// is not part of the contract.
type VariantCalculator interface {
	// Variant computes the variant for a visitor within a split.
	//
	// Parameters:
	//   - visitorID: Stable opaque visitor identifier
	//   - splitName: Name of the split being evaluated
	//   - weights: Variant weight table for the split
	//
	// Returns:
	//   - string: The assigned variant name
	//   - error: ErrInvalidWeights (wrapped) if the table cannot drive an assignment
	Variant(visitorID, splitName string, weights Weights) (string, error)
}
