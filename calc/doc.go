// Package calc provides variant calculator implementations.
//
// Calculators map (visitorID, splitName, weights) to a variant name
// deterministically. The default XXH3 calculator hashes the visitor id and
// split name into a bucket within the total weight and walks the variants in
// canonical order accumulating weights.
package calc
