// Package poller drives the client side of the video status workflow: it
// schedules reconciliation checks with exponential backoff and jitter until
// the video reaches a terminal state, the session errors, or the caller
// cancels.
package poller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
)

// ErrCanceled is returned by Wait when the session was canceled before a
// terminal state was observed.
var ErrCanceled = errors.New("poll session canceled")

// CheckResult is what one reconciliation check reports back.
type CheckResult struct {
	Status   domain.VideoStatus
	VideoURL string
}

// CheckFunc performs one status check. A rate-limited check must return an
// error matching domain.ErrRateLimited; any other error ends the session.
type CheckFunc func(ctx context.Context) (CheckResult, error)

// Config tunes the backoff schedule. Zero values fall back to the defaults
// used in production.
type Config struct {
	Seed           time.Duration // delay before the first check, and backoff base
	Cap            time.Duration // upper bound on the un-jittered delay
	JitterFrac     float64       // ± spread applied to backoff delays
	RateLimitDelay time.Duration // flat delay after a rate-limited check
}

func (c Config) withDefaults() Config {
	if c.Seed <= 0 {
		c.Seed = 5 * time.Second
	}
	if c.Cap <= 0 {
		c.Cap = 120 * time.Second
	}
	if c.JitterFrac == 0 {
		c.JitterFrac = 0.10
	}
	if c.RateLimitDelay <= 0 {
		c.RateLimitDelay = 60 * time.Second
	}
	return c
}

// Outcome is the final state of a poll session.
type Outcome struct {
	Result   CheckResult
	Attempts int // checks actually performed
	Err      error
}

// Poller runs one poll session for one video. It is single-use: create a
// new Poller per session.
type Poller struct {
	check  CheckFunc
	cfg    Config
	logger zerolog.Logger
	rnd    *rand.Rand

	startOnce  sync.Once
	cancelOnce sync.Once
	cancel     context.CancelFunc
	done       chan struct{}

	mu      sync.Mutex
	outcome Outcome
	events  []string
}

// New creates a poller that calls check on the configured schedule.
func New(check CheckFunc, cfg Config, logger zerolog.Logger) *Poller {
	return &Poller{
		check:  check,
		cfg:    cfg.withDefaults(),
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		done:   make(chan struct{}),
	}
}

// Start launches the session. The first check happens only after the seed
// delay, giving the render a head start. Start is idempotent.
func (p *Poller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		ctx, p.cancel = context.WithCancel(ctx)
		go p.run(ctx)
	})
}

// Cancel aborts the session: the pending timer is cleared, any in-flight
// request is aborted through its context, and an in-flight result that
// still arrives is discarded.
func (p *Poller) Cancel() {
	p.cancelOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
}

// Wait blocks until the session ends and returns its outcome.
func (p *Poller) Wait() Outcome {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Events returns a copy of the session log, one line per completed check.
// Nothing is appended after cancellation.
func (p *Poller) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

func (p *Poller) record(line string) {
	p.mu.Lock()
	p.events = append(p.events, line)
	p.mu.Unlock()
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	attempt := 0
	checks := 0
	delay := Jitter(Interval(attempt, p.cfg.Seed, p.cfg.Cap), p.cfg.JitterFrac, p.rnd)
	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.finish(Outcome{Attempts: checks, Err: ErrCanceled})
			return
		case <-timer.C:
		}

		result, err := p.check(ctx)
		checks++
		if ctx.Err() != nil {
			// canceled mid-check, the result no longer matters
			p.finish(Outcome{Attempts: checks, Err: ErrCanceled})
			return
		}
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				// penalize the schedule, then retry after a flat un-jittered delay
				attempt += 3
				delay = p.cfg.RateLimitDelay
				p.record(fmt.Sprintf("check %d: rate limited, retrying in %s", checks, delay))
				p.logger.Warn().Int("attempt", attempt).Msg("status check rate limited")
				continue
			}
			p.record(fmt.Sprintf("check %d: error: %v", checks, err))
			p.logger.Error().Err(err).Int("checks", checks).Msg("status check failed")
			p.finish(Outcome{Attempts: checks, Err: err})
			return
		}
		p.record(fmt.Sprintf("check %d: status %s", checks, result.Status))

		if result.Status.Terminal() {
			p.logger.Info().
				Str("status", string(result.Status)).
				Int("checks", checks).
				Msg("poll session finished")
			p.finish(Outcome{Result: result, Attempts: checks})
			return
		}

		attempt++
		delay = Jitter(Interval(attempt, p.cfg.Seed, p.cfg.Cap), p.cfg.JitterFrac, p.rnd)
	}
}

func (p *Poller) finish(o Outcome) {
	p.mu.Lock()
	p.outcome = o
	p.mu.Unlock()
}
