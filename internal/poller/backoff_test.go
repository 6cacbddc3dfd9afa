package poller

import (
	"math/rand"
	"testing"
	"time"
)

func TestIntervalSequence(t *testing.T) {
	seed := 5 * time.Second
	cap := 120 * time.Second
	want := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		80 * time.Second,
		120 * time.Second,
		120 * time.Second,
	}
	for attempt, w := range want {
		if got := Interval(attempt, seed, cap); got != w {
			t.Errorf("Interval(%d) = %s, want %s", attempt, got, w)
		}
	}
}

func TestIntervalEdgeCases(t *testing.T) {
	seed := 5 * time.Second
	cap := 120 * time.Second

	if got := Interval(-1, seed, cap); got != seed {
		t.Errorf("negative attempt = %s, want %s", got, seed)
	}
	if got := Interval(1000, seed, cap); got != cap {
		t.Errorf("huge attempt = %s, want cap %s", got, cap)
	}
	if got := Interval(0, 2*cap, cap); got != cap {
		t.Errorf("seed above cap = %s, want cap %s", got, cap)
	}
}

func TestJitterStaysWithinBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := 10 * time.Second
	lo := time.Duration(float64(base) * 0.9)
	hi := time.Duration(float64(base) * 1.1)
	for i := 0; i < 1000; i++ {
		got := Jitter(base, 0.10, rnd)
		if got < lo || got > hi {
			t.Fatalf("Jitter produced %s outside [%s, %s]", got, lo, hi)
		}
	}
}

func TestJitterZeroFracIsIdentity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	if got := Jitter(10*time.Second, 0, rnd); got != 10*time.Second {
		t.Errorf("Jitter with zero frac = %s", got)
	}
}
