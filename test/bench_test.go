package test

import (
	"context"
	"testing"
	"time"

	"urpc/client"
	"urpc/codec"
	"urpc/methods"
	"urpc/protocol"
	"urpc/server"
	"urpc/transport"
)

// BenchmarkSerialPing measures one goroutine issuing synchronous Ping calls
// back to back over a single connection — the multiplexed-connection
// counterpart of a plain request/reply round trip.
func BenchmarkSerialPing(b *testing.B) {
	addr := "127.0.0.1:29090"
	l := startServerB(b, addr, handlers())
	defer l.Shutdown(3 * time.Second)

	conn, err := transport.DialRetry("tcp", addr, 10, 20*time.Millisecond)
	if err != nil {
		b.Fatal(err)
	}
	c := transport.NewConn(conn)
	defer c.Close()

	req := methods.NewPing(codec.JSON{})
	body := methods.PingBody{1, 2, 3, 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, isErr, err := transport.CallNN(c, &req, body); err != nil || isErr {
			b.Fatalf("call %d: err=%v isErr=%v", i, err, isErr)
		}
	}
}

// BenchmarkConcurrentPing measures many goroutines sharing one Conn, showing
// the payoff of channel multiplexing over a single TCP connection: unlike a
// strictly sequential request/reply protocol, callers never block each other
// on the wire, only on the server's per-request goroutine scheduling.
func BenchmarkConcurrentPing(b *testing.B) {
	addr := "127.0.0.1:29091"
	l := startServerB(b, addr, handlers())
	defer l.Shutdown(3 * time.Second)

	conn, err := transport.DialRetry("tcp", addr, 10, 20*time.Millisecond)
	if err != nil {
		b.Fatal(err)
	}
	c := transport.NewConn(conn)
	defer c.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		req := methods.NewPing(codec.JSON{})
		body := methods.PingBody{5, 6, 7, 8}
		for pb.Next() {
			if _, isErr, err := transport.CallNN(c, &req, body); err != nil || isErr {
				b.Fatalf("err=%v isErr=%v", err, isErr)
			}
		}
	})
}

// BenchmarkClientAssembler isolates the client-side emit/parse/take round
// trip from the network: each iteration emits a Ping request, hand-builds
// the matching reply packet in memory, feeds its header and then its body to
// RpcClient.Parse, and retrieves it with TakeReply — the same sequence transport.Conn drives
// over a real socket, minus the socket.
func BenchmarkClientAssembler(b *testing.B) {
	cl := client.NewRpcClient()
	req := client.NewRequestNN[methods.PingBody, methods.PingBody](methods.MethodPing, codec.JSON{})

	out := make([]byte, 64)
	repBody := make([]byte, 64)
	body, err := codec.JSON{}.Marshal(methods.PingBody{1, 2, 3, 4})
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	reply := make([]byte, protocol.RepHeaderLen+len(body))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := req.Request(cl, methods.PingBody{1, 2, 3, 4}, repBody, out); err != nil {
			b.Fatalf("Request: %v", err)
		}

		header := protocol.ReplyHeader{ChanID: req.ChanID(), BodyLen: uint16(len(body))}
		protocol.EncodeReplyHeader(&header, reply)
		copy(reply[protocol.RepHeaderLen:], body)

		if _, _, err := cl.Parse(reply[:protocol.RepHeaderLen]); err != nil {
			b.Fatalf("Parse header: %v", err)
		}
		if _, done, err := cl.Parse(reply[protocol.RepHeaderLen:]); err != nil || done == nil {
			b.Fatalf("Parse: done=%v err=%v", done, err)
		}
		if _, isErr, ok := req.TakeReply(cl); !ok || isErr {
			b.Fatalf("TakeReply: ok=%v isErr=%v", ok, isErr)
		}
	}
}

// BenchmarkServerParseThroughput isolates server.Parser.Parse's cost: a
// zero-body, zero-side-buffer Ping request is the cheapest possible frame,
// so this measures pure header-decode overhead.
func BenchmarkServerParseThroughput(b *testing.B) {
	out := make([]byte, protocol.ReqHeaderLen)
	header := protocol.RequestHeader{MethodIdx: methods.MethodPing, ChanID: 1}
	protocol.EncodeRequestHeader(&header, out)

	p := server.NewParser(server.Config{MaxBufLen: 1 << 15})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, req, err := p.Parse(out); err != nil || req == nil {
			b.Fatalf("Parse: req=%v err=%v", req, err)
		}
	}
}

func startServerB(b *testing.B, addr string, h methods.Handlers) *transport.Listener {
	b.Helper()
	d := &methods.Dispatcher{Codec: codec.JSON{}, Handlers: h}
	l := transport.NewListener(server.Config{MaxBufLen: 1 << 15}, func(ctx context.Context, req server.Request, out []byte) (int, error) {
		return d.Dispatch(req, out)
	}, nil)

	ready := make(chan struct{})
	go func() {
		close(ready)
		l.Serve("tcp", addr)
	}()
	<-ready
	time.Sleep(50 * time.Millisecond)
	return l
}
