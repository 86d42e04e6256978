package models

import "time"

// LoginAttempt tracks consecutive failed logins for one identifier,
// stored under "ratelimit:login:<identifier>". The record is deleted
// on a successful login and treated as absent once the attempt window
// has passed.
type LoginAttempt struct {
	Attempts    int        `json:"attempts"`
	LastAttempt time.Time  `json:"lastAttempt"`
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`
}

// RateLimitResult is the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed           bool
	RemainingAttempts int
	LockedUntil       *time.Time
}
