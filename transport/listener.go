package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"urpc/middleware"
	"urpc/protocol"
	"urpc/server"
)

// Listener accepts connections and runs the assemble → middleware chain →
// dispatch → write loop per connection, one goroutine per in-flight request
// the way the original accept loop dispatched one goroutine per frame.
type Listener struct {
	listener    net.Listener
	cfg         server.Config
	middlewares []middleware.Middleware
	handler     middleware.HandlerFunc
	logger      *zap.Logger

	wg       sync.WaitGroup
	shutdown atomic.Bool
}

// NewListener creates a Listener that parses requests per cfg and dispatches
// them via handler, once Serve wraps handler in any middlewares registered
// with Use.
func NewListener(cfg server.Config, handler middleware.HandlerFunc, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{cfg: cfg, handler: handler, logger: logger}
}

// Use registers a middleware. Middlewares are applied in the order they are
// added; see package middleware for the onion execution order.
func (l *Listener) Use(mw middleware.Middleware) {
	l.middlewares = append(l.middlewares, mw)
}

// Serve listens on network/address and accepts connections until Shutdown
// is called.
func (l *Listener) Serve(network, address string) error {
	ln, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	l.listener = ln
	l.handler = middleware.Chain(l.middlewares...)(l.handler)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if l.shutdown.Load() {
				return nil
			}
			return err
		}
		go l.handleConn(conn)
	}
}

// handleConn runs the assembler for one connection. Reads are sequential
// (uRPC has no resync point so a single goroutine must own framing), but
// each fully assembled request is dispatched to its own goroutine — replies
// may legally arrive out of order, so a slow handler never holds up the
// rest of the connection.
func (l *Listener) handleConn(conn net.Conn) {
	defer conn.Close()
	parser := server.NewParser(l.cfg)
	writeMu := &sync.Mutex{}

	need := protocol.ReqHeaderLen
	buf := make([]byte, 1<<16)
	for {
		if need > len(buf) {
			buf = make([]byte, need)
		}
		if _, err := io.ReadFull(conn, buf[:need]); err != nil {
			return
		}

		nextNeed, req, err := parser.Parse(buf[:need])
		if err != nil {
			l.logger.Warn("parse error, closing connection", zap.Error(err))
			return
		}
		if req != nil {
			need = protocol.ReqHeaderLen
			reqCopy := *req
			reqCopy.Body = append([]byte(nil), req.Body...)
			reqCopy.SideBuf = append([]byte(nil), req.SideBuf...)
			l.wg.Add(1)
			go l.handleRequest(reqCopy, conn, writeMu)
		} else {
			need = nextNeed
		}
	}
}

// handleRequest dispatches one assembled request through the middleware
// chain and writes its reply, guarded by writeMu so concurrent replies on
// the same connection never interleave.
func (l *Listener) handleRequest(req server.Request, conn net.Conn, writeMu *sync.Mutex) {
	defer l.wg.Done()

	out := make([]byte, 1<<16)
	n, err := l.handler(context.Background(), req, out)
	if err != nil {
		l.logger.Warn("dispatch failed", zap.Uint8("method_idx", req.Header.MethodIdx), zap.Error(err))
		return
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if _, err := conn.Write(out[:n]); err != nil {
		l.logger.Warn("write reply failed", zap.Error(err))
	}
}

// Shutdown stops accepting new connections and waits up to timeout for
// in-flight requests to finish.
func (l *Listener) Shutdown(timeout time.Duration) error {
	l.shutdown.Store(true)
	if l.listener != nil {
		l.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("transport: timeout waiting for in-flight requests")
	}
}
