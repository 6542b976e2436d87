//go:build unit

package service

import (
	"context"
	"go-cms-app/internal/session"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionContext(t *testing.T) (*scs.SessionManager, context.Context) {
	t.Helper()
	sm := scs.New()
	sm.Store = memstore.New()
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	return sm, ctx
}

func newSeededAuthService(t *testing.T) (*AuthService, *scs.SessionManager, context.Context) {
	t.Helper()
	sm, ctx := newSessionContext(t)
	svc := NewAuthService(newMockUserRepository(), sm)
	created, err := svc.EnsureAdmin(ctx, "admin", "123456")
	require.NoError(t, err)
	require.True(t, created)
	return svc, sm, ctx
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	sm, ctx := newSessionContext(t)
	users := newMockUserRepository()
	svc := NewAuthService(users, sm)

	created, err := svc.EnsureAdmin(ctx, "admin", "123456")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, users.createCalls)
	assert.NotEqual(t, "123456", users.users["admin"].PasswordHash, "password must be stored hashed")
}

func TestAuthService_Login(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"seeded admin", "admin", "123456", nil},
		{"wrong password", "admin", "wrong", ErrInvalidCredentials},
		{"unknown user", "root", "123456", ErrInvalidCredentials},
		{"case-sensitive username", "Admin", "123456", ErrInvalidCredentials},
		{"empty credentials", "", "", ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, ctx := newSeededAuthService(t)

			err := svc.Login(ctx, tc.username, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.False(t, svc.IsAuthenticated(ctx))
				assert.Empty(t, svc.Username(ctx))
				return
			}
			require.NoError(t, err)
			assert.True(t, svc.IsAuthenticated(ctx))
			assert.Equal(t, tc.username, svc.Username(ctx))
		})
	}
}

func TestAuthService_LoginRenewsToken(t *testing.T) {
	svc, sm, ctx := newSeededAuthService(t)
	before := sm.Token(ctx)

	require.NoError(t, svc.Login(ctx, "admin", "123456"))
	assert.NotEqual(t, before, sm.Token(ctx))
	assert.NotEmpty(t, sm.Token(ctx))
}

func TestAuthService_LoginExternal(t *testing.T) {
	svc, _, ctx := newSeededAuthService(t)

	assert.ErrorIs(t, svc.LoginExternal(ctx, "someone@example.com"), ErrInvalidCredentials)
	assert.False(t, svc.IsAuthenticated(ctx))

	require.NoError(t, svc.LoginExternal(ctx, "admin"))
	assert.True(t, svc.IsAuthenticated(ctx))
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	svc, sm, ctx := newSeededAuthService(t)
	require.NoError(t, svc.Login(ctx, "admin", "123456"))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Empty(t, sm.GetString(ctx, session.KeyUsername))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Empty(t, sm.GetString(ctx, session.KeyUsername))
}
