package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
	pkgauth "github.com/trafficshawarma/storefront/pkg/auth"
)

// CredentialsKey is where the single admin credential record lives.
const CredentialsKey = "admin:credentials"

// CredentialService manages the admin credential record. There is
// exactly one record; it is created lazily with the default password
// on first use.
type CredentialService struct {
	store           kvstore.Store
	defaultUsername string
	defaultPassword string
	logger          *slog.Logger
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(store kvstore.Store, defaultUsername, defaultPassword string, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		store:           store,
		defaultUsername: defaultUsername,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// EnsureInitialized creates the admin credential record if absent, or
// migrates a legacy record that predates password hashing (no
// passwordHash field). Idempotent.
func (s *CredentialService) EnsureInitialized(ctx context.Context) error {
	raw, err := s.store.Get(ctx, CredentialsKey)
	if errors.Is(err, models.ErrNotFound) {
		now := time.Now()
		cred := models.Credential{
			Username:     s.defaultUsername,
			PasswordHash: pkgauth.HashPassword(s.defaultPassword),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.store.Set(ctx, CredentialsKey, cred); err != nil {
			return fmt.Errorf("failed to initialize admin credentials: %w", err)
		}
		s.logger.Info("admin credentials initialized")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load admin credentials: %w", err)
	}

	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return fmt.Errorf("failed to decode admin credentials: %w", err)
	}

	if cred.PasswordHash == "" {
		// Legacy record without a hash; rehash the default password
		// in place, keeping the original creation time.
		s.logger.Info("migrating legacy admin credentials")
		createdAt := cred.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		migrated := models.Credential{
			Username:     s.defaultUsername,
			PasswordHash: pkgauth.HashPassword(s.defaultPassword),
			CreatedAt:    createdAt,
			UpdatedAt:    time.Now(),
		}
		if err := s.store.Set(ctx, CredentialsKey, migrated); err != nil {
			return fmt.Errorf("failed to migrate admin credentials: %w", err)
		}
	}

	return nil
}

// Get returns the current credential record, or nil if none exists.
func (s *CredentialService) Get(ctx context.Context) (*models.Credential, error) {
	raw, err := s.store.Get(ctx, CredentialsKey)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin credentials: %w", err)
	}

	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode admin credentials: %w", err)
	}

	return &cred, nil
}

// ChangePassword replaces the stored password hash after verifying the
// current password and the new password's strength.
func (s *CredentialService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	cred, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		return models.ErrNotFound
	}

	if !pkgauth.VerifyPassword(oldPassword, cred.PasswordHash) {
		s.logger.Warn("password change rejected: current password incorrect")
		return models.ErrInvalidCredential
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrWeakPassword
	}

	cred.PasswordHash = pkgauth.HashPassword(newPassword)
	cred.UpdatedAt = time.Now()

	if err := s.store.Set(ctx, CredentialsKey, cred); err != nil {
		return fmt.Errorf("failed to save admin credentials: %w", err)
	}

	s.logger.Info("admin password changed")
	return nil
}
