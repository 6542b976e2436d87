package middleware

import (
	"context"
	"go-cms-app/internal/auth"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo describes the caller as seen by the session gate.
type UserInfo struct {
	Subject  string
	Username string
}

// IsAuthenticated reports whether the caller has logged in.
func (u *UserInfo) IsAuthenticated() bool {
	return u.Subject != auth.SubjectAnonymous
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: auth.SubjectAnonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
