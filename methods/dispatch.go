package methods

import (
	"urpc/codec"
	"urpc/protocol"
	"urpc/server"
)

// Handlers holds the business logic for each method this server supports.
// A zero Handlers with all fields nil still dispatches correctly: any
// method whose handler is nil is treated the same as an unrecognized
// method_idx.
type Handlers struct {
	Ping func(PingBody) PingBody

	// SendBytes receives the request's side buffer bytes (a view into the
	// connection's read buffer, valid only until the next Parse call).
	SendBytes func(body codec.Unit, sideBuf []byte) (SendBytesReply, error)

	// RecvBytes is lent sideBuf, the writable region of the output buffer
	// following the reply header, and must return how many bytes of it it
	// filled.
	RecvBytes func(body RecvBytesReq, sideBuf []byte) (codec.Unit, int, error)

	// EchoBuffer receives the request side buffer and is lent sideBuf the
	// same way RecvBytes is.
	EchoBuffer func(body codec.Unit, reqSideBuf []byte, sideBuf []byte) (EchoBufferReply, int, error)
}

// Dispatcher routes an assembled server.Request to the matching Handlers
// entry and serializes its reply, playing the role the original
// implementation's server_requests! macro expansion (a method_idx-keyed
// enum match) played for the Rust server loop.
type Dispatcher struct {
	Codec    codec.Codec
	Handlers Handlers
}

// Dispatch decodes req's body per its method_idx's shape, invokes the
// matching handler, and writes the reply packet to out. An unrecognized
// method_idx, or a nil handler for a recognized one, yields an error reply
// (opts.err=1) rather than a Go error: per the wire protocol this is a
// valid, in-band outcome, not a transport failure.
func (d *Dispatcher) Dispatch(req server.Request, out []byte) (int, error) {
	switch req.Header.MethodIdx {
	case MethodPing:
		return d.dispatchPing(req, out)
	case MethodSendBytes:
		return d.dispatchSendBytes(req, out)
	case MethodRecvBytes:
		return d.dispatchRecvBytes(req, out)
	case MethodEchoBuffer:
		return d.dispatchEchoBuffer(req, out)
	default:
		return writeErrReply(req.Header.ChanID, out), nil
	}
}

func (d *Dispatcher) dispatchPing(req server.Request, out []byte) (int, error) {
	h, err := server.FromBytesNN[PingBody, PingBody](d.Codec, req)
	if err != nil {
		return 0, err
	}
	if d.Handlers.Ping == nil {
		return h.ReplyErr(0, out)
	}
	return h.Reply(d.Handlers.Ping(h.Body), out)
}

func (d *Dispatcher) dispatchSendBytes(req server.Request, out []byte) (int, error) {
	h, err := server.FromBytesYN[codec.Unit, SendBytesReply](d.Codec, req)
	if err != nil {
		return 0, err
	}
	if d.Handlers.SendBytes == nil {
		return h.ReplyErr(0, out)
	}
	reply, err := d.Handlers.SendBytes(h.Body, h.SideBuf)
	if err != nil {
		return h.ReplyErr(0, out)
	}
	return h.Reply(reply, out)
}

func (d *Dispatcher) dispatchRecvBytes(req server.Request, out []byte) (int, error) {
	h, err := server.FromBytesNY[RecvBytesReq, codec.Unit](d.Codec, req)
	if err != nil {
		return 0, err
	}
	if d.Handlers.RecvBytes == nil {
		return h.ReplyErr(0, out)
	}
	sideBuf := h.GetSideBuf(out)
	payload, sideLen, err := d.Handlers.RecvBytes(h.Body, sideBuf)
	if err != nil {
		return h.ReplyErr(0, out)
	}
	return h.Reply(payload, sideLen, out)
}

func (d *Dispatcher) dispatchEchoBuffer(req server.Request, out []byte) (int, error) {
	h, err := server.FromBytesYY[codec.Unit, EchoBufferReply](d.Codec, req)
	if err != nil {
		return 0, err
	}
	if d.Handlers.EchoBuffer == nil {
		return h.ReplyErr(0, out)
	}
	sideBuf := h.GetSideBuf(out)
	payload, sideLen, err := d.Handlers.EchoBuffer(h.Body, h.SideBuf, sideBuf)
	if err != nil {
		return h.ReplyErr(0, out)
	}
	return h.Reply(payload, sideLen, out)
}

// writeErrReply writes a bare error reply for requests that never made it
// to a typed handle (unknown method_idx), returning the byte count written.
func writeErrReply(chanID uint8, out []byte) int {
	header := protocol.ReplyHeader{ChanID: chanID, Opts: protocol.ReplyErrFlag}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen
}
