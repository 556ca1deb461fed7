package pacer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Pacer spaces out consecutive operations with a random delay drawn uniformly from [min, max].
// The first Wait returns immediately; every later Wait sleeps.
// A Pacer is not safe for concurrent use.
type Pacer struct {
	min, max time.Duration
	randN    func(n int64) int64
	sleep    func(ctx context.Context, d time.Duration) error
	started  bool
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithRand sets the source of randomness; randN must return a value in [0, n).
func WithRand(randN func(n int64) int64) Option {
	return func(p *Pacer) {
		if randN != nil {
			p.randN = randN
		}
	}
}

// WithSleep replaces the sleep function. Mostly useful in tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pacer) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// New creates a Pacer for the inclusive range [min, max].
func New(min, max time.Duration, opts ...Option) (*Pacer, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("%w: range [%s, %s]", ErrInvalidConfig, min, max)
	}
	p := &Pacer{
		min:   min,
		max:   max,
		randN: rand.Int64N,
		sleep: Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Next draws the next delay without sleeping.
func (p *Pacer) Next() time.Duration {
	span := int64(p.max - p.min)
	if span == 0 {
		return p.min
	}
	return p.min + time.Duration(p.randN(span+1))
}

// Wait sleeps for a random delay unless this is the first call.
// It returns the delay slept, or the context error if ctx ends first.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	if !p.started {
		p.started = true
		return 0, ctx.Err()
	}
	d := p.Next()
	return d, p.sleep(ctx, d)
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
