package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

func newBackoff(policy Policy) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.Multiplier = policy.Multiplier
	b.MaxElapsedTime = policy.MaxElapsedTime
	b.Reset()
	return b
}

// CalculateBackoffDuration returns the delay before the given attempt without
// jitter, for logging the schedule a retry will follow.
func CalculateBackoffDuration(attempt int, initial time.Duration, multiplier float64, max time.Duration) time.Duration {
	d := initial
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * multiplier)
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
