package parser

import "time"

// ErrorBudget is the most characters of an error message persisted on a record.
const ErrorBudget = 500

// Policy bounds parse attempts and output sizes.
type Policy struct {
	MaxAttempts     int
	BaseRetryDelay  time.Duration
	MaxRetryDelay   time.Duration
	MaxTextChars    int
	MaxSummaryChars int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		BaseRetryDelay:  5 * time.Second,
		MaxRetryDelay:   60 * time.Second,
		MaxTextChars:    20000,
		MaxSummaryChars: 1200,
	}
}

// RetryDelay is min(MaxRetryDelay, BaseRetryDelay*attempt). Linear, not
// exponential.
func (p Policy) RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseRetryDelay * time.Duration(attempt)
	if d > p.MaxRetryDelay {
		return p.MaxRetryDelay
	}
	return d
}
