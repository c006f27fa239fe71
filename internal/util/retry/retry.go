package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type policy struct {
	retries    int
	delay      time.Duration
	maxDelay   time.Duration
	multiplier float64
	onRetry    func(attempt int, err error)
}

// next returns the wait that follows d, capped at maxDelay.
func (p *policy) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * p.multiplier)
	if d > p.maxDelay {
		return p.maxDelay
	}
	return d
}

// Option adjusts the retry policy.
type Option func(*policy)

// WithExponentialBackoff calls op until it succeeds, returns a Fatal error,
// ctx is done or the retry budget is spent. Without options op is retried
// five times, starting at one second and doubling up to thirty.
func WithExponentialBackoff(ctx context.Context, op func() error, opts ...Option) error {
	p := &policy{
		retries:    5,
		delay:      time.Second,
		maxDelay:   30 * time.Second,
		multiplier: 2,
	}
	for _, opt := range opts {
		opt(p)
	}

	wait := p.delay
	for attempt := 1; ; attempt++ {
		err := op()
		switch {
		case err == nil:
			return nil
		case isFatal(err):
			return fmt.Errorf("giving up on attempt %d: %w", attempt, err)
		case attempt > p.retries:
			return fmt.Errorf("still failing after %d attempts: %w", attempt, err)
		}

		if p.onRetry != nil {
			p.onRetry(attempt, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("stopped after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}
		wait = p.next(wait)
	}
}

// WithMaxRetries sets how many times a failed call is repeated. The call
// runs at most n+1 times.
func WithMaxRetries(n int) Option {
	return func(p *policy) { p.retries = n }
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(p *policy) { p.delay = d }
}

// WithMaxDelay caps the wait between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(p *policy) { p.maxDelay = d }
}

// WithMultiplier sets the growth factor of the wait.
func WithMultiplier(m float64) Option {
	return func(p *policy) { p.multiplier = m }
}

// WithOnRetry sets a hook that sees each failure that is about to be retried.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(p *policy) { p.onRetry = fn }
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as not worth retrying. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

func isFatal(err error) bool {
	var f *fatalError
	return errors.As(err, &f)
}
