package dispatch

import (
	"context"
	"time"

	"github.com/marisa/noteflow/internal/analysis"
)

// State is the phase of a single artifact's dispatch lifecycle.
type State string

const (
	// StatePending means the artifact has not been attempted yet.
	StatePending State = "pending"
	// StateAttempting means a submission is in flight.
	StateAttempting State = "attempting"
	// StateRetryScheduled means a retryable failure occurred and another
	// attempt follows after backoff.
	StateRetryScheduled State = "retry_scheduled"
	// StateSucceeded is terminal: the response was obtained.
	StateSucceeded State = "succeeded"
	// StateFailed is terminal: the failure was not retryable or the retry
	// budget ran out.
	StateFailed State = "failed"
)

// submitFunc performs one API submission.
type submitFunc func(ctx context.Context) (*analysis.Result, error)

// attempt drives one artifact through the retry state machine.
type attempt struct {
	state    State
	attempts int
	delay    time.Duration
	lastErr  error
	result   *analysis.Result
}

// run advances the state machine until it reaches a terminal state. The
// budget allows maxRetries additional attempts after the first, so an
// artifact is submitted at most maxRetries+1 times. The backoff delay
// starts at baseDelay and doubles after each sleep.
func (a *attempt) run(ctx context.Context, submit submitFunc, maxRetries int, baseDelay time.Duration) {
	a.state = StatePending
	a.delay = baseDelay

	for {
		switch a.state {
		case StatePending:
			a.state = StateAttempting

		case StateRetryScheduled:
			if err := sleepCtx(ctx, a.delay); err != nil {
				a.lastErr = err
				a.state = StateFailed
				continue
			}
			a.delay *= 2
			a.state = StateAttempting

		case StateAttempting:
			a.attempts++
			result, err := submit(ctx)
			switch {
			case err == nil:
				a.result = result
				a.state = StateSucceeded
			case analysis.IsRetryable(err) && a.attempts <= maxRetries:
				a.lastErr = err
				a.state = StateRetryScheduled
			default:
				a.lastErr = err
				a.state = StateFailed
			}

		case StateSucceeded, StateFailed:
			return
		}
	}
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
