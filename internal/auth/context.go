package auth

import (
	"context"
	"errors"
)

type contextKey string

const userIDKey = contextKey("userID")

var ErrNoUserInContext = errors.New("user ID not found in context")

// WithUserID stores the authenticated user's ID in ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext returns the authenticated user's ID, or ErrNoUserInContext.
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	id, ok := ctx.Value(userIDKey).(uint)
	if !ok {
		return 0, ErrNoUserInContext
	}
	return id, nil
}
