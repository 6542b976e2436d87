package session

import (
	"context"
	"net/http"
)

// Keys used in the session data.
const (
	KeyAuthenticated = "authenticated"
	KeyUsername      = "username"
	KeyFlash         = "flash"
	KeyFlashKind     = "flash_kind"
	KeyOIDCRedirect  = "oidc_redirect_to"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetBool(ctx context.Context, key string) bool
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Token(ctx context.Context) string
	Destroy(ctx context.Context) error
}
