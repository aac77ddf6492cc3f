package middleware

import (
	"context"

	"github.com/Mongkol7/E-Bookstore/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "gateway.session"

// WithSession injects the resolved session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext returns the authenticated session placed by the
// auth middleware, or nil on public routes.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}
