// Package middleware implements the onion model middleware chain wrapping
// a server's per-request dispatch.
//
// Middleware wraps the dispatch step to add cross-cutting concerns
// (logging, timeout, rate limiting) without modifying the dispatcher
// itself.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
//
// Each middleware can:
//   - Do pre-processing (before calling next)
//   - Call next(ctx, req, out) to pass to the next layer
//   - Do post-processing (after next returns)
//   - Short-circuit by returning early without calling next (e.g., rate limiting)
package middleware

import (
	"context"

	"urpc/server"
)

// HandlerFunc dispatches one assembled request, writing its reply packet to
// out and returning the number of bytes written. Middleware-wrapped handlers
// share this signature; methods.Dispatcher.Dispatch takes no context, so it
// is adapted with a closure that drops ctx and calls Dispatch(req, out).
type HandlerFunc func(ctx context.Context, req server.Request, out []byte) (int, error)

// Middleware takes a handler and returns a new handler that wraps it.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middlewares into a single middleware, built from
// right to left so the first middleware in the list is the outermost layer
// (executed first on request, last on response).
//
// Example:
//
//	chain := Chain(Logging, Timeout, RateLimit)
//	handler := chain(dispatch) // dispatch: a HandlerFunc closure calling Dispatcher.Dispatch
//	// Execution: Logging → Timeout → RateLimit → Dispatch → RateLimit → Timeout → Logging
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
