package middleware

import (
	"context"
	"time"

	"urpc/protocol"
	"urpc/server"
)

// TimeOutMiddleware enforces a maximum duration for each dispatched request.
// If the handler doesn't complete within the timeout, an error reply is
// written immediately.
//
// Implementation:
//  1. Create a context with timeout (ctx.Done() fires when timeout expires)
//  2. Run the next handler in a goroutine, sending its result to a channel
//  3. Select between the result channel and ctx.Done()
//
// Note: the handler goroutine is NOT cancelled — it continues running in the
// background and, if it completes late, still writes into out. Callers that
// need true cancellation must check ctx.Done() inside their handler.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req server.Request, out []byte) (int, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				n   int
				err error
			}
			done := make(chan result, 1) // buffered: prevent goroutine leak if timeout fires
			go func() {
				n, err := next(ctx, req, out)
				done <- result{n, err}
			}()

			select {
			case r := <-done:
				return r.n, r.err
			case <-ctx.Done():
				header := protocol.ReplyHeader{ChanID: req.Header.ChanID, Opts: protocol.ReplyErrFlag}
				protocol.EncodeReplyHeader(&header, out)
				return protocol.RepHeaderLen, nil
			}
		}
	}
}
