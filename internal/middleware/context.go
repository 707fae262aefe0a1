package middleware

import (
	"context"
	"go-portfolio-app/internal/auth"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const (
	userContextKey = contextKey("user")
	csrfContextKey = contextKey("csrf")
)

// UserInfo represents the essential user information stored in the session and request context.
type UserInfo struct {
	ID       int64
	Username string
	Role     string
	IsAdmin  bool
}

// Authenticated reports whether the request carries a logged in user.
func (u *UserInfo) Authenticated() bool {
	return u.ID != 0
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Role: auth.RoleAnonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// CSRFToken returns the anti-forgery token bound to the current session.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}
