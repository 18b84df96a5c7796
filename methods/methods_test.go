package methods

import (
	"bytes"
	"testing"

	"urpc/client"
	"urpc/codec"
	"urpc/protocol"
	"urpc/server"
)

func TestPingEndToEnd(t *testing.T) {
	var j codec.JSON
	cl := client.NewRpcClient()
	ping := NewPing(j)

	reqBuf := make([]byte, 256)
	n, err := ping.Request(cl, PingBody{1, 2, 3, 4}, make([]byte, 64), reqBuf)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	parser := server.NewParser(server.Config{MaxBufLen: 4096})
	need, _, err := parser.Parse(reqBuf[:protocol.ReqHeaderLen])
	if err != nil {
		t.Fatalf("server Parse header: %v", err)
	}
	_, req, err := parser.Parse(reqBuf[protocol.ReqHeaderLen:n])
	if err != nil {
		t.Fatalf("server Parse: %v", err)
	}
	if req == nil {
		t.Fatalf("server Parse of the %d body bytes did not complete the request", need)
	}

	d := Dispatcher{Codec: j, Handlers: Handlers{
		Ping: func(b PingBody) PingBody { return b },
	}}
	repBuf := make([]byte, 256)
	rn, err := d.Dispatch(*req, repBuf)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	need, _, err = cl.Parse(repBuf[:protocol.RepHeaderLen])
	if err != nil {
		t.Fatalf("client Parse header: %v", err)
	}
	_, done, err := cl.Parse(repBuf[protocol.RepHeaderLen:rn])
	if err != nil {
		t.Fatalf("client Parse: %v", err)
	}
	if done == nil {
		t.Fatalf("client Parse of the %d body bytes did not complete the reply", need)
	}

	p, isErr, ok := ping.TakeReply(cl)
	if !ok || isErr {
		t.Fatalf("TakeReply: ok=%v isErr=%v", ok, isErr)
	}
	if !bytes.Equal(p[:], []byte{1, 2, 3, 4}) {
		t.Fatalf("reply = %v, want [1 2 3 4]", p)
	}
}

func TestUnknownMethodRepliesWithErrFlag(t *testing.T) {
	var j codec.JSON
	cl := client.NewRpcClient()
	ping := NewPing(j)

	reqBuf := make([]byte, 256)
	n, err := ping.Request(cl, PingBody{}, make([]byte, 64), reqBuf)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	reqBuf[0] = 99 // corrupt method_idx to an id no Dispatcher case handles

	parser := server.NewParser(server.Config{MaxBufLen: 4096})
	if _, _, err := parser.Parse(reqBuf[:protocol.ReqHeaderLen]); err != nil {
		t.Fatalf("server Parse header: %v", err)
	}
	_, req, err := parser.Parse(reqBuf[protocol.ReqHeaderLen:n])
	if err != nil {
		t.Fatalf("server Parse: %v", err)
	}

	d := Dispatcher{Codec: j}
	repBuf := make([]byte, 256)
	rn, err := d.Dispatch(*req, repBuf)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	cl.Parse(repBuf[:rn])
	_, isErr, ok := ping.TakeReply(cl)
	if !ok || !isErr {
		t.Fatalf("TakeReply: ok=%v isErr=%v, want ok=true isErr=true", ok, isErr)
	}
}
