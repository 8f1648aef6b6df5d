package client

import (
	"net/http"
	"time"
)

// RetryPolicy controls how idempotent requests are retried. Only GETs are
// eligible; mutations are never replayed.
type RetryPolicy struct {
	// MaxAttempts counts the first try. A value below 1 means one attempt.
	MaxAttempts int
	// Backoff returns the pause before the given retry (1-based).
	Backoff func(attempt int) time.Duration

	sleep func(time.Duration)
}

// DefaultRetryPolicy retries twice, pausing 500ms before the first retry and
// doubling per retry after that.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return 500 * time.Millisecond << (attempt - 1)
		},
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) pause(attempt int) {
	if p.Backoff == nil {
		return
	}
	d := p.Backoff(attempt)
	if d <= 0 {
		return
	}
	if p.sleep != nil {
		p.sleep(d)
		return
	}
	time.Sleep(d)
}

// retryable reports whether the response (or transport error) warrants
// another attempt.
func retryable(status int, err error) bool {
	if err != nil {
		return true
	}
	return status >= http.StatusInternalServerError
}
