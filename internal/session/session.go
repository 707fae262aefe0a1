package session

import (
	"context"
	"net/http"
)

// Session keys shared by handlers and middleware.
const (
	KeyUserID    = "user_id"
	KeyCSRFToken = "csrf_token"
	KeyFlash     = "flash"
	KeyFlashKind = "flash_kind"
	KeyOIDCState = "oidc_state"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetInt64(ctx context.Context, key string) int64
	PopString(ctx context.Context, key string) string
	Remove(ctx context.Context, key string)
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
}
