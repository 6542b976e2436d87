package service

import (
	"context"
	"errors"
	"fmt"
	"go-cms-app/internal/auth"
	"go-cms-app/internal/data"
	"go-cms-app/internal/session"
)

// AuthService verifies credentials and keeps the authentication state of the
// caller's session.
type AuthService struct {
	users    UserRepository
	sessions session.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, sessions session.Manager) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// EnsureAdmin creates the user with the given credentials if no user with
// that name exists. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, data.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := s.users.Create(ctx, &data.User{Username: username, PasswordHash: hash}); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login authenticates the session when username exists and password matches
// its stored hash. On failure the session is left untouched.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return s.establish(ctx, user.Username)
}

// LoginExternal authenticates the session for an identity already verified by
// an external provider. The username must belong to a local user.
func (s *AuthService) LoginExternal(ctx context.Context, username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	return s.establish(ctx, user.Username)
}

func (s *AuthService) establish(ctx context.Context, username string) error {
	// A fresh token on privilege change prevents session fixation.
	if err := s.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	s.sessions.Put(ctx, session.KeyAuthenticated, true)
	s.sessions.Put(ctx, session.KeyUsername, username)
	return nil
}

// Logout clears all session state. Calling it on an unauthenticated session is a no-op.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Destroy(ctx)
}

// IsAuthenticated reports whether the caller's session has logged in.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.sessions.GetBool(ctx, session.KeyAuthenticated)
}

// Username returns the logged-in username, or "" for anonymous sessions.
func (s *AuthService) Username(ctx context.Context) string {
	return s.sessions.GetString(ctx, session.KeyUsername)
}
