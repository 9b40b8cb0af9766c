// Package kit holds the transport-agnostic endpoint type shared by the HTTP
// and MCP front ends.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is one action. HTTP handlers and MCP tools both dispatch to the
// same Endpoints.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first is outermost.
// Chain(a, b, c)(endpoint) == a(b(c(endpoint)))
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}

// Logging logs every call of the endpoint named name at Debug, and its
// failures at Warn.
func Logging(logger *slog.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			attrs := []any{
				"endpoint", name,
				"transport", Transport(ctx),
				"duration", time.Since(start),
			}
			if id := RequestID(ctx); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if err != nil {
				logger.Warn("endpoint failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.Debug("endpoint served", attrs...)
			return resp, nil
		}
	}
}
