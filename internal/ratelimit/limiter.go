package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Clock abstracts wall-clock reads and sleeping so tests can run without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter admits at most Calls calls within any rolling Window.
//
// It is not safe for concurrent use; the matching engine drives it from a
// single goroutine.
type Limiter struct {
	calls  int
	window time.Duration
	clock  Clock
	recent *Window
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the wall clock and sleeper.
func WithClock(clock Clock) Option {
	return func(l *Limiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New creates a limiter allowing calls per window.
func New(calls int, window time.Duration, opts ...Option) (*Limiter, error) {
	if calls <= 0 {
		return nil, errors.New("rate limit calls must be positive")
	}
	if window <= 0 {
		return nil, errors.New("rate limit window must be positive")
	}
	l := &Limiter{
		calls:  calls,
		window: window,
		clock:  systemClock{},
		recent: NewWindow(calls),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Delay reports how long the next call would have to wait if admitted now.
func (l *Limiter) Delay() time.Duration {
	if !l.recent.Full() {
		return 0
	}
	oldest, _ := l.recent.Oldest()
	elapsed := l.clock.Now().Sub(oldest)
	if elapsed >= l.window {
		return 0
	}
	return l.window - elapsed
}

// Wait blocks until another call fits in the window and returns the time spent
// waiting. It returns early with the context error if ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	delay := l.Delay()
	if delay <= 0 {
		return 0, nil
	}
	if err := l.clock.Sleep(ctx, delay); err != nil {
		return 0, err
	}
	return delay, nil
}

// Record notes a call that completed now.
func (l *Limiter) Record() {
	l.recent.Push(l.clock.Now())
}

// Do waits for admission, runs fn, and records the call at the moment fn
// returns. fn is not run when the wait is cancelled.
func (l *Limiter) Do(ctx context.Context, fn func()) (time.Duration, error) {
	waited, err := l.Wait(ctx)
	if err != nil {
		return waited, err
	}
	fn()
	l.Record()
	return waited, nil
}

// Calls returns the configured number of calls per window.
func (l *Limiter) Calls() int { return l.calls }

// Window returns the configured window duration.
func (l *Limiter) Window() time.Duration { return l.window }
