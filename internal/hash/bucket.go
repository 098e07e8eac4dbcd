// Package hash derives deterministic assignment buckets from visitor and
// split identifiers using XXH3.
package hash

import "github.com/zeebo/xxh3"

// Bucket maps (visitorID, splitName) to a stable value in [0, total).
//
// The visitor id is folded first and its hash becomes the seed for the split
// name, which avoids building an intermediate concatenated string and keeps
// the derivation zero-allocation. The same pair always lands in the same
// bucket for a given total and seed, across processes and time.
//
// Parameters:
//   - visitorID: Stable opaque visitor identifier
//   - splitName: Name of the split being evaluated
//   - total: Bucket space size; must be > 0 (callers validate the weight table)
//   - seed: Optional hash seed (0 means unseeded)
//
// Returns:
//   - uint64: Bucket index in [0, total)
func Bucket(visitorID, splitName string, total, seed uint64) uint64 {
	var h uint64
	if seed != 0 {
		h = xxh3.HashStringSeed(visitorID, seed)
	} else {
		h = xxh3.HashString(visitorID)
	}

	// Fold the split name using the visitor hash as seed so the pair is
	// hashed as a unit, not as two independent values.
	h = xxh3.HashStringSeed(splitName, h)

	return h % total
}
