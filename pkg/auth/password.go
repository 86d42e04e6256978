package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MinPasswordLen = 8

// HashPassword returns the hex-encoded SHA-256 digest of the password.
// The digest is deliberately unsalted and deterministic: the stored
// hash format predates this implementation and existing credential
// records must keep verifying. Treat the format as versioned if it is
// ever strengthened.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the candidate password matches the
// stored digest. The comparison is constant-time over the digests.
func VerifyPassword(password, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(hash)) == 1
}

// ValidatePassword enforces the minimum password length, counted in
// runes so multibyte passwords are measured the same way the request
// validators measure them.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// GenerateSessionToken produces an opaque session token from the
// username, the current time, and a v4 UUID. The UUID carries the
// unguessability guarantee (crypto/rand backed); the readable parts
// only ensure uniqueness across identical instants.
func GenerateSessionToken(username string) string {
	data := fmt.Sprintf("%s:%d:%s", username, time.Now().UnixMilli(), uuid.NewString())
	return base64.StdEncoding.EncodeToString([]byte(data))
}
