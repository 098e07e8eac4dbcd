package notify

import (
	rand "math/rand/v2"
	"time"
)

// jitterBackoff returns the next delivery retry delay.
//
// Delays grow roughly geometrically from base (scaled by mult per step) up
// to capDur, with the growth randomized so that many dispatchers retrying
// against the same unhealthy sink do not fire in lockstep. The next delay is
// drawn from [base, prev*mult), never below base and never above capDur.
//
// Degenerate inputs are normalized rather than rejected: a non-positive base
// falls back to 50ms, a multiplier under 1.0 is treated as 1.0, and a cap
// below base clamps straight to the cap.
func jitterBackoff(prev, base time.Duration, mult float64, capDur time.Duration, rng *rand.Rand) time.Duration {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}

	if prev <= 0 {
		// First retry waits exactly the base delay.
		if capDur > 0 && base > capDur {
			return capDur
		}

		return base
	}

	spread := time.Duration(float64(prev)*mult) - base
	if spread <= 0 {
		spread = base
	}

	var jitter int64
	if rng != nil {
		jitter = rng.Int64N(int64(spread))
	} else {
		jitter = rand.Int64N(int64(spread)) //nolint:gosec // non-crypto backoff jitter
	}

	next := base + time.Duration(jitter)
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}

// newRetryRNG builds the jitter source for a dispatcher. A zero seed returns
// nil, which tells jitterBackoff to draw from the shared package-level PRNG;
// tests pass a fixed seed to make retry timing reproducible.
//
//nolint:gosec
func newRetryRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	s1 := uint64(seed)
	s2 := s1 ^ 0x9e3779b97f4a7c15

	return rand.New(rand.NewPCG(s1, s2))
}
