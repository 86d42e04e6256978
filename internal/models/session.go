package models

import "time"

// Session is an issued admin session, stored under "session:<token>".
// IPAddress is captured at issuance for audit purposes only.
type Session struct {
	Token        string    `json:"token"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
	IPAddress    string    `json:"ipAddress,omitempty"`
}

// SessionValidation is the outcome of validating a session token.
type SessionValidation struct {
	Valid    bool
	Username string
	Reason   string
}

// Session validation failure reasons. These are returned verbatim in
// 401 responses for operator debugging.
const (
	SessionReasonNotFound = "Session not found"
	SessionReasonExpired  = "Session expired"
	SessionReasonInactive = "Session inactive"
)
