package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"urpc/server"
)

// LoggingMiddleware records the method_idx, channel id, duration, and
// outcome of every dispatched request.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req server.Request, out []byte) (int, error) {
			start := time.Now()

			n, err := next(ctx, req, out)

			logger.Info("dispatched request",
				zap.Uint8("method_idx", req.Header.MethodIdx),
				zap.Uint8("chan_id", req.Header.ChanID),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return n, err
		}
	}
}
