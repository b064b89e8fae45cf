package auth

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// Checker resolves an opaque session token to the user it belongs to.
// Sessions are issued by the external auth service; this core only reads them.
type Checker interface {
	UserIDFromToken(ctx context.Context, token string) (string, error)
}

type contextKey int

const userIDContextKey contextKey = iota

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id set by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}
