package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficshawarma/storefront/internal/config"
	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/services"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

func newAuthService(store kvstore.Store) *services.AuthService {
	logger := newTestLogger()
	credentials := services.NewCredentialService(store, config.DefaultAdminUsername, config.DefaultAdminPassword, logger)
	rateLimiter := services.NewRateLimitService(store, services.RateLimitConfig{
		MaxAttempts:     5,
		AttemptWindow:   5 * time.Minute,
		LockoutDuration: 15 * time.Minute,
	}, logger)
	sessions := services.NewSessionService(store, services.SessionConfig{
		SessionDuration: 24 * time.Hour,
		ActivityTimeout: 2 * time.Hour,
	}, logger)
	return services.NewAuthService(store, credentials, rateLimiter, sessions, logger, pkglogger.NewAuditLogger(logger))
}

func TestAuthenticateAdminSuccess(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	result, err := svc.AuthenticateAdmin(ctx, config.DefaultAdminUsername, config.DefaultAdminPassword, "203.0.113.9")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "admin", result.Username)
	assert.Empty(t, result.Error)

	// A security event was appended to the store.
	events, err := store.GetByPrefix(ctx, "security:login:")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// The issued token validates.
	sessions, err := store.GetByPrefix(ctx, "session:")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestAuthenticateAdminWrongPassword(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	result, err := svc.AuthenticateAdmin(ctx, "admin", "wrong-password", "")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Error)
	assert.Empty(t, result.Token)
	require.NotNil(t, result.RemainingAttempts)
	assert.Equal(t, 4, *result.RemainingAttempts)
	assert.Nil(t, result.LockedUntil)
}

func TestAuthenticateAdminUnknownUsername(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)

	result, err := svc.AuthenticateAdmin(context.Background(), "root", config.DefaultAdminPassword, "")
	require.NoError(t, err)

	// Same response shape as a wrong password; the caller cannot tell
	// which check failed.
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Error)
	require.NotNil(t, result.RemainingAttempts)
	assert.Equal(t, 4, *result.RemainingAttempts)
}

func TestAuthenticateAdminRemainingAttemptsCountDown(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := svc.AuthenticateAdmin(ctx, "admin", "wrong", "")
		require.NoError(t, err)
		require.NotNil(t, result.RemainingAttempts)
		assert.Equal(t, 4-i, *result.RemainingAttempts)
	}
}

func TestAuthenticateAdminLockout(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := svc.AuthenticateAdmin(ctx, "admin", "wrong", "")
		require.NoError(t, err)
		assert.False(t, result.Success)
	}

	// The sixth attempt is rejected even with the correct password.
	result, err := svc.AuthenticateAdmin(ctx, "admin", config.DefaultAdminPassword, "")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Too many failed attempts")
	require.NotNil(t, result.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *result.LockedUntil, 5*time.Second)
	assert.Nil(t, result.RemainingAttempts)
}

func TestAuthenticateAdminSuccessClearsFailures(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AuthenticateAdmin(ctx, "admin", "wrong", "")
		require.NoError(t, err)
	}

	result, err := svc.AuthenticateAdmin(ctx, "admin", config.DefaultAdminPassword, "")
	require.NoError(t, err)
	require.True(t, result.Success)

	// The failure record is gone; a fresh failure starts a new count.
	failed, err := svc.AuthenticateAdmin(ctx, "admin", "wrong", "")
	require.NoError(t, err)
	require.NotNil(t, failed.RemainingAttempts)
	assert.Equal(t, 4, *failed.RemainingAttempts)
}

func TestAuthenticateAdminStoreFailure(t *testing.T) {
	svc := newAuthService(failingStore{})

	_, err := svc.AuthenticateAdmin(context.Background(), "admin", config.DefaultAdminPassword, "")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	result, err := svc.AuthenticateAdmin(ctx, "admin", config.DefaultAdminPassword, "")
	require.NoError(t, err)
	require.True(t, result.Success)

	require.NoError(t, svc.Logout(ctx, result.Token))

	sessions, err := store.GetByPrefix(ctx, "session:")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Empty and unknown tokens are no-ops.
	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "unknown"))
}
