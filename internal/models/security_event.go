package models

import "time"

// SecurityEvent is an append-only audit record of a successful admin
// login, stored under "security:login:<unix-millis>".
type SecurityEvent struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Success   bool      `json:"success"`
}
