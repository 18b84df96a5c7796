// Package transport drives uRPC's core state machines over a real
// net.Conn: Conn multiplexes client calls the way ClientTransport
// multiplexed RPCMessage calls in the original transport — a dedicated
// read goroutine parses inbound bytes and routes completed replies to
// their waiting caller by channel id, while a write mutex serializes
// frames from concurrent callers onto the one underlying connection.
//
// Listener plays the server-side counterpart: it accepts connections and
// runs an assemble → middleware chain → dispatch → reply loop per
// connection, one goroutine per in-flight request so a slow handler never
// blocks the rest of the connection's pipeline.
package transport

import (
	"errors"
	"io"
	"net"
	"sync"

	"urpc/client"
	"urpc/protocol"
)

// ErrConnClosed is returned to calls still pending when Close is called, and
// to calls made after the connection has closed. Calls pending when the read
// loop exits on a read or parse error receive that error instead.
var ErrConnClosed = errors.New("transport: connection closed")

// Conn multiplexes uRPC client calls over a single net.Conn.
type Conn struct {
	conn net.Conn

	writeMu sync.Mutex // serializes writes so concurrent callers never interleave frames

	mu      sync.Mutex // guards cl and pending
	cl      *client.RpcClient
	pending map[uint8]chan struct{}
	closed  bool
	closeErr error
}

// NewConn wraps conn and starts its read loop.
func NewConn(conn net.Conn) *Conn {
	c := &Conn{
		conn:    conn,
		cl:      client.NewRpcClient(),
		pending: make(map[uint8]chan struct{}),
	}
	go c.recvLoop()
	return c
}

// emit runs build — which allocates a channel id on cl, installs its Waiting
// slot, and serializes the request into out — under c.mu, the same lock
// recvLoop holds while parsing inbound replies: cl is documented as not safe
// for concurrent use, so the allocate-and-arm step must never run alongside
// recvLoop's Parse call. Once build has returned the channel id (read via
// chanID, called after build so it observes the id build just allocated),
// emit registers that channel's notification channel and releases the lock
// before writing to the wire, so a slow write never blocks the read loop or
// other callers arming their own slots.
func (c *Conn) emit(build func(cl *client.RpcClient) (n int, err error), chanID func() uint8, out []byte) (chan struct{}, error) {
	ch := make(chan struct{})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnClosed
	}
	n, err := build(c.cl)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	id := chanID()
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_, err = c.conn.Write(out[:n])
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, err
	}
	return ch, nil
}

// wait blocks until ch is closed (the reply for that channel completed) or
// the connection closes, returning the connection's closing error in the
// latter case.
func (c *Conn) wait(ch chan struct{}) error {
	<-ch
	c.mu.Lock()
	err := c.closeErr
	c.mu.Unlock()
	return err
}

// recvLoop is the connection's sole reader: uRPC's assembler requires
// sequential feeding, so concurrent callers never read the socket directly —
// they only ever write, then wait on their channel's notification.
func (c *Conn) recvLoop() {
	need := protocol.RepHeaderLen
	buf := make([]byte, 1<<16)
	for {
		if need > len(buf) {
			buf = make([]byte, need)
		}
		if _, err := io.ReadFull(c.conn, buf[:need]); err != nil {
			c.shutdown(err)
			return
		}

		c.mu.Lock()
		nextNeed, done, err := c.cl.Parse(buf[:need])
		var ch chan struct{}
		if done != nil {
			ch = c.pending[*done]
			delete(c.pending, *done)
		}
		c.mu.Unlock()

		if err != nil {
			c.shutdown(err)
			return
		}
		if ch != nil {
			close(ch)
		}
		if nextNeed == 0 {
			need = protocol.RepHeaderLen
		} else {
			need = nextNeed
		}
	}
}

// shutdown unblocks every still-pending caller with err and marks the
// connection closed.
func (c *Conn) shutdown(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeErr = err
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}

// Close closes the underlying connection and fails every pending call.
func (c *Conn) Close() error {
	c.shutdown(ErrConnClosed)
	return c.conn.Close()
}

// maxFrame bounds the scratch buffer Call{NN,YN,NY,YY} allocate for the
// outgoing packet. Callers needing larger side buffers should size their
// own out buffer and use the client package's Request types directly.
const maxFrame = 1 << 16

// CallNN performs a synchronous QB=No/PB=No call: it emits q, blocks until
// the reply arrives (or the connection closes), and decodes it into a P.
func CallNN[Q, P any](c *Conn, req *client.RequestNN[Q, P], q Q) (p P, isErr bool, err error) {
	out := make([]byte, maxFrame)
	repBody := make([]byte, maxFrame)

	ch, err := c.emit(func(cl *client.RpcClient) (int, error) {
		return req.Request(cl, q, repBody, out)
	}, req.ChanID, out)
	if err != nil {
		return p, false, err
	}
	if err := c.wait(ch); err != nil {
		return p, false, err
	}

	c.mu.Lock()
	p, isErr, ok := req.TakeReply(c.cl)
	c.mu.Unlock()
	if !ok {
		return p, false, ErrConnClosed
	}
	return p, isErr, nil
}

// CallYN performs a synchronous QB=Yes/PB=No call.
func CallYN[Q, P any](c *Conn, req *client.RequestYN[Q, P], q Q, reqSideBuf []byte) (p P, isErr bool, err error) {
	out := make([]byte, maxFrame)
	repBody := make([]byte, maxFrame)

	ch, err := c.emit(func(cl *client.RpcClient) (int, error) {
		return req.Request(cl, q, reqSideBuf, repBody, out)
	}, req.ChanID, out)
	if err != nil {
		return p, false, err
	}
	if err := c.wait(ch); err != nil {
		return p, false, err
	}

	c.mu.Lock()
	p, isErr, ok := req.TakeReply(c.cl)
	c.mu.Unlock()
	if !ok {
		return p, false, ErrConnClosed
	}
	return p, isErr, nil
}

// CallNY performs a synchronous QB=No/PB=Yes call, returning the reply's
// side buffer as a subslice of repSideDst.
func CallNY[Q, P any](c *Conn, req *client.RequestNY[Q, P], q Q, repSideDst []byte) (p P, side []byte, isErr bool, err error) {
	out := make([]byte, maxFrame)
	repBody := make([]byte, maxFrame)

	ch, err := c.emit(func(cl *client.RpcClient) (int, error) {
		return req.Request(cl, q, repBody, repSideDst, out)
	}, req.ChanID, out)
	if err != nil {
		return p, nil, false, err
	}
	if err := c.wait(ch); err != nil {
		return p, nil, false, err
	}

	c.mu.Lock()
	p, side, isErr, ok := req.TakeReply(c.cl)
	c.mu.Unlock()
	if !ok {
		return p, nil, false, ErrConnClosed
	}
	return p, side, isErr, nil
}

// CallYY performs a synchronous QB=Yes/PB=Yes call.
func CallYY[Q, P any](c *Conn, req *client.RequestYY[Q, P], q Q, reqSideBuf, repSideDst []byte) (p P, side []byte, isErr bool, err error) {
	out := make([]byte, maxFrame)
	repBody := make([]byte, maxFrame)

	ch, err := c.emit(func(cl *client.RpcClient) (int, error) {
		return req.Request(cl, q, reqSideBuf, repBody, repSideDst, out)
	}, req.ChanID, out)
	if err != nil {
		return p, nil, false, err
	}
	if err := c.wait(ch); err != nil {
		return p, nil, false, err
	}

	c.mu.Lock()
	p, side, isErr, ok := req.TakeReply(c.cl)
	c.mu.Unlock()
	if !ok {
		return p, nil, false, ErrConnClosed
	}
	return p, side, isErr, nil
}
