package httpd

import (
	"context"

	"github.com/effective-security/x/values"
	"github.com/google/uuid"
)

type contextKey int

const (
	keyRequestID contextKey = iota
)

// WithRequestID returns a new context carrying the correlation ID, minting
// one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, values.StringsCoalesce(id, uuid.New().String()))
}

// RequestID retrieves the correlation ID from the context.
// If the context does not carry one, it returns an empty string.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}
