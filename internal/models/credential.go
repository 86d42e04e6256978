package models

import "time"

// Credential is the single admin credential record, stored under
// the "admin:credentials" key.
type Credential struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
