package test

import (
	"context"
	"testing"
	"time"

	"urpc/client"
	"urpc/codec"
	"urpc/methods"
	"urpc/server"
	"urpc/transport"
)

// handlers wires the four built-in methods to simple, deterministic
// behavior so end-to-end scenarios can assert on exact bytes.
func handlers() methods.Handlers {
	return methods.Handlers{
		Ping: func(p methods.PingBody) methods.PingBody { return p },

		SendBytes: func(_ codec.Unit, sideBuf []byte) (methods.SendBytesReply, error) {
			return methods.SendBytesReply{}, nil
		},

		RecvBytes: func(_ methods.RecvBytesReq, sideBuf []byte) (codec.Unit, int, error) {
			n := 8
			for i := 0; i < n; i++ {
				sideBuf[i] = byte(i * 2)
			}
			return codec.Unit{}, n, nil
		},

		EchoBuffer: func(_ codec.Unit, reqSideBuf []byte, sideBuf []byte) (methods.EchoBufferReply, int, error) {
			n := copy(sideBuf, reqSideBuf)
			return methods.EchoBufferReply{}, n, nil
		},
	}
}

func startServer(t *testing.T, addr string, h methods.Handlers) *transport.Listener {
	t.Helper()
	d := &methods.Dispatcher{Codec: codec.JSON{}, Handlers: h}
	l := transport.NewListener(server.Config{MaxBufLen: 1 << 15}, func(ctx context.Context, req server.Request, out []byte) (int, error) {
		return d.Dispatch(req, out)
	}, nil)

	ready := make(chan struct{})
	go func() {
		close(ready)
		if err := l.Serve("tcp", addr); err != nil {
			t.Logf("serve exited: %v", err)
		}
	}()
	<-ready
	time.Sleep(50 * time.Millisecond)
	return l
}

func dial(t *testing.T, addr string) *transport.Conn {
	t.Helper()
	conn, err := transport.DialRetry("tcp", addr, 10, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	return transport.NewConn(conn)
}

// TestPingRoundTrip exercises scenario 1: a QB=No/PB=No call whose reply
// echoes the request body unchanged.
func TestPingRoundTrip(t *testing.T) {
	addr := "127.0.0.1:19210"
	l := startServer(t, addr, handlers())
	defer l.Shutdown(time.Second)

	c := dial(t, addr)
	defer c.Close()

	req := methods.NewPing(codec.JSON{})
	want := methods.PingBody{0, 1, 2, 3}
	got, isErr, err := transport.CallNN(c, &req, want)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if isErr {
		t.Fatalf("Ping: unexpected error reply")
	}
	if got != want {
		t.Fatalf("Ping: got %v, want %v", got, want)
	}
}

// TestSendBytesSideBuffer exercises scenario 2: a QB=Yes/PB=No call whose
// side buffer travels to the server without a meaningful reply body.
func TestSendBytesSideBuffer(t *testing.T) {
	addr := "127.0.0.1:19211"

	var received []byte
	h := handlers()
	h.SendBytes = func(_ codec.Unit, sideBuf []byte) (methods.SendBytesReply, error) {
		received = append([]byte(nil), sideBuf...)
		return methods.SendBytesReply{}, nil
	}

	l := startServer(t, addr, h)
	defer l.Shutdown(time.Second)

	c := dial(t, addr)
	defer c.Close()

	req := methods.NewSendBytes(codec.JSON{})
	side := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	_, isErr, err := transport.CallYN(c, &req, codec.Unit{}, side)
	if err != nil {
		t.Fatalf("SendBytes: %v", err)
	}
	if isErr {
		t.Fatalf("SendBytes: unexpected error reply")
	}
	if string(received) != string(side) {
		t.Fatalf("SendBytes: server saw %v, want %v", received, side)
	}
}

// TestRecvBytesSideBuffer exercises scenario 3: a QB=No/PB=Yes call whose
// reply side buffer is filled by the server handler.
func TestRecvBytesSideBuffer(t *testing.T) {
	addr := "127.0.0.1:19212"
	l := startServer(t, addr, handlers())
	defer l.Shutdown(time.Second)

	c := dial(t, addr)
	defer c.Close()

	req := methods.NewRecvBytes(codec.JSON{})
	dst := make([]byte, 64)
	_, side, isErr, err := transport.CallNY(c, &req, methods.RecvBytesReq{}, dst)
	if err != nil {
		t.Fatalf("RecvBytes: %v", err)
	}
	if isErr {
		t.Fatalf("RecvBytes: unexpected error reply")
	}
	want := []byte{0, 2, 4, 6, 8, 10, 12, 14}
	if string(side) != string(want) {
		t.Fatalf("RecvBytes: got side buffer %v, want %v", side, want)
	}
}

// TestUnknownMethodErrorReply exercises scenario 4: a method_idx the server
// doesn't recognize replies with opts.err=1 and an empty body.
func TestUnknownMethodErrorReply(t *testing.T) {
	addr := "127.0.0.1:19213"
	l := startServer(t, addr, handlers())
	defer l.Shutdown(time.Second)

	c := dial(t, addr)
	defer c.Close()

	req := client.NewRequestNN[methods.PingBody, methods.PingBody](99, codec.JSON{})
	_, isErr, err := transport.CallNN(c, &req, methods.PingBody{9, 9, 9, 9})
	if err != nil {
		t.Fatalf("unknown method call: %v", err)
	}
	if !isErr {
		t.Fatalf("expected an error reply for an unrecognized method_idx")
	}
}

// TestOutOfOrderDelivery exercises scenario 5: a slow call issued first can
// have its reply arrive after a faster call issued afterwards, and both
// originating callers still observe the correct result.
func TestOutOfOrderDelivery(t *testing.T) {
	addr := "127.0.0.1:19214"

	release := make(chan struct{})
	h := handlers()
	h.SendBytes = func(_ codec.Unit, sideBuf []byte) (methods.SendBytesReply, error) {
		<-release // hold this reply back so the Ping issued after it completes first
		return methods.SendBytesReply{}, nil
	}

	l := startServer(t, addr, h)
	defer l.Shutdown(time.Second)

	c := dial(t, addr)
	defer c.Close()

	slowDone := make(chan error, 1)
	go func() {
		req := methods.NewSendBytes(codec.JSON{})
		_, isErr, err := transport.CallYN(c, &req, codec.Unit{}, []byte{1, 2, 3})
		if err == nil && isErr {
			err = errIsErrReply
		}
		slowDone <- err
	}()

	time.Sleep(50 * time.Millisecond) // ensure SendBytes is issued (and blocked) first

	req := methods.NewPing(codec.JSON{})
	want := methods.PingBody{4, 5, 6, 7}
	got, isErr, err := transport.CallNN(c, &req, want)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if isErr {
		t.Fatalf("Ping: unexpected error reply")
	}
	if got != want {
		t.Fatalf("Ping: got %v, want %v", got, want)
	}

	close(release)
	if err := <-slowDone; err != nil {
		t.Fatalf("SendBytes: %v", err)
	}
}

var errIsErrReply = &testErr{"unexpected error reply"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
