package poller

import (
	"math/rand"
	"time"
)

// Interval returns the un-jittered delay before check number attempt
// (zero-based): seed doubled per attempt, clamped to cap.
func Interval(attempt int, seed, cap time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if seed >= cap {
		return cap
	}
	// the shift overflows long before attempt reaches 62
	if attempt >= 62 {
		return cap
	}
	d := seed << uint(attempt)
	if d <= 0 || d > cap {
		return cap
	}
	return d
}

// Jitter spreads the delay by up to ±frac so concurrent pollers started
// together drift apart instead of checking in lockstep.
func Jitter(d time.Duration, frac float64, rnd *rand.Rand) time.Duration {
	if frac <= 0 || d <= 0 {
		return d
	}
	spread := (rnd.Float64()*2 - 1) * frac
	return time.Duration(float64(d) * (1 + spread))
}
