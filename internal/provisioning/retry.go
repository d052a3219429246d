package provisioning

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the connection-string poll. Tests set a zero Interval
// so the full attempt count runs without real timers.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultRetryPolicy matches the Atlas free-tier provisioning latency:
// up to 10 attempts, 5 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 10,
		Interval:    5 * time.Second,
	}
}

// newBackOff builds a fresh schedule for one poll run: a constant interval
// capped at MaxAttempts tries (the initial try plus MaxAttempts-1 retries)
func (p RetryPolicy) newBackOff() backoff.BackOff {
	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = uint64(p.MaxAttempts - 1)
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), retries)
}
