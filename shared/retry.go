package shared

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sleeper suspends for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryPolicy retries transient remote failures with exponential backoff.
// Only errors classified as ErrorCategoryTransientRemote are retried.
type RetryPolicy struct {
	Name              string
	MaxAttempts       int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	Sleep             Sleeper
}

// NewDefaultRetryPolicy returns 3 attempts starting at 2s and doubling.
func NewDefaultRetryPolicy(name string) *RetryPolicy {
	return &RetryPolicy{
		Name:              name,
		MaxAttempts:       3,
		InitialDelay:      2 * time.Second,
		BackoffMultiplier: 2,
		Sleep:             ContextSleep,
	}
}

// NewRetryPolicyFromConfig builds a policy from the unified retry settings.
func NewRetryPolicyFromConfig(name string, cfg RetryConfig) *RetryPolicy {
	policy := NewDefaultRetryPolicy(name)
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.InitialDelay > 0 {
		policy.InitialDelay = cfg.InitialDelay
	}
	if cfg.BackoffMultiplier >= 1 {
		policy.BackoffMultiplier = cfg.BackoffMultiplier
	}
	return policy
}

// ContextSleep waits for d unless ctx is cancelled first.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WorstCaseDelay is the total suspension when every attempt fails transiently.
func (p *RetryPolicy) WorstCaseDelay() time.Duration {
	var total time.Duration
	delay := p.InitialDelay
	for attempt := 1; attempt < p.MaxAttempts; attempt++ {
		total += delay
		delay = time.Duration(float64(delay) * p.BackoffMultiplier)
	}
	return total
}

// Execute runs operation under policy. It returns the first success, the first
// non-transient error, the context error if a backoff wait is cancelled, or the
// last transient error once MaxAttempts invocations have been made.
func Execute[T any](ctx context.Context, policy *RetryPolicy, operation func(context.Context) (T, error)) (T, error) {
	var zero T

	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	logger := logrus.WithFields(logrus.Fields{
		"component": "RetryPolicy",
		"operation": policy.Name,
	})

	delay := policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := operation(ctx)
		if err == nil {
			if attempt > 1 {
				logger.WithField("attempt", attempt).Info("Operation succeeded after retry")
			}
			return result, nil
		}

		lastErr = err
		if !IsTransient(err) {
			logger.WithError(err).WithField("attempt", attempt).Debug("Non-retryable error, giving up")
			return zero, err
		}

		if attempt == maxAttempts {
			break
		}

		logger.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"delay":        delay,
			"error":        err,
		}).Warn("Transient remote error, retrying after backoff")

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			logger.WithError(sleepErr).Info("Retry wait cancelled")
			return zero, sleepErr
		}
		delay = time.Duration(float64(delay) * policy.BackoffMultiplier)
	}

	logger.WithFields(logrus.Fields{
		"max_attempts": maxAttempts,
		"final_error":  lastErr,
	}).Error("Operation failed after all retry attempts")

	return zero, lastErr
}
