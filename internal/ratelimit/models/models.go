package models

import "time"

// Policy caps requests per key within a sliding window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is only set when the request was rejected.
	RetryAfter time.Duration
}
