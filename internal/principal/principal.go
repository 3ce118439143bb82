// Package principal carries the authenticated user through a request context.
package principal

import (
	"context"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
)

type contextKey struct{}

// Principal is the identity resolved from a valid session.
type Principal struct {
	User      models.User
	SessionID string
	ExpiresAt time.Time
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
