package agents

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy is the explicit retry configuration injected into each pipeline
// step: a total attempt budget with a fixed delay between attempts. Any
// failure inside a step (transport, extraction, parse, or schema validation)
// consumes one attempt.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns the standard policy: 3 total attempts, 2 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
	}
}

// Do runs fn up to MaxAttempts times, sleeping Delay between attempts.
// Each retry re-runs the full step at full cost; no partial results are
// carried between attempts. When the budget is exhausted the last cause is
// wrapped in a StepError.
func (p RetryPolicy) Do(ctx context.Context, log *zap.Logger, step string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn("step attempt failed",
			zap.String("step", step),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(lastErr),
		)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return &StepError{Step: step, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(p.Delay):
		}
	}

	return &StepError{Step: step, Attempts: attempts, Err: lastErr}
}
