package translate

import (
	"context"
	"time"
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry, when set, runs before each backoff wait with the number of
	// the attempt about to be made.
	OnRetry func(attempt int, wait time.Duration)
}

func DefaultRetryPolicy(base time.Duration) RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: base}
}

// Backoff is the wait before attempt n (zero based): base * 2^n.
func (p RetryPolicy) Backoff(n int) time.Duration {
	return p.BaseDelay << uint(n)
}

// Do calls svc until it succeeds, fails with a non rate-limit error, or runs
// out of attempts.
func (p RetryPolicy) Do(ctx context.Context, svc Service, prompt string) (string, error) {
	max := p.MaxAttempts
	if max <= 0 {
		max = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var last error
	for attempt := 0; attempt < max; attempt++ {
		if attempt > 0 {
			wait := p.Backoff(attempt)
			if p.OnRetry != nil {
				p.OnRetry(attempt+1, wait)
			}
			if err := sleep(ctx, wait); err != nil {
				return "", &Error{Code: ErrorFailed, Attempts: attempt, Cause: err}
			}
		}
		reply, err := svc.Translate(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		if !IsRateLimited(err) {
			return "", &Error{Code: ErrorFailed, Attempts: attempt + 1, Cause: err}
		}
		last = err
	}
	return "", &Error{Code: ErrorRateLimited, Attempts: max, Cause: last}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
