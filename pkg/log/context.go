package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger attaches a request-scoped logger to ctx. The HTTP
// middleware uses it to thread the request id through every layer of a
// search.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx returns the logger attached to ctx, falling back to the global
// one for work that runs outside a request, such as startup and the
// async cache writes.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}
