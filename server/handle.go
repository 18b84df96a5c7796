package server

import (
	"urpc/codec"
	"urpc/protocol"
)

// RequestNN is a handle for a received request whose method has no side
// buffer on either side (QB=No, PB=No) — e.g. Ping. Body holds the decoded
// request payload; Reply/ReplyErr consume the handle to forbid, at run time, a
// second reply on the same channel: once either has been called, replied is
// set and any further call panics, mirroring a channel having exactly one
// reply slot to fill.
type RequestNN[Q, P any] struct {
	chanID  uint8
	codec   codec.Codec
	replied bool
	Body    Q
}

// FromBytesNN decodes req's body as Q. It fails with ErrUnexpectedSideBuf
// if req carries a side buffer, since this method's shape declares none.
func FromBytesNN[Q, P any](c codec.Codec, req Request) (RequestNN[Q, P], error) {
	if len(req.SideBuf) != 0 {
		return RequestNN[Q, P]{}, ErrUnexpectedSideBuf
	}
	var q Q
	if err := c.Unmarshal(req.Body, &q); err != nil {
		return RequestNN[Q, P]{}, err
	}
	return RequestNN[Q, P]{chanID: req.Header.ChanID, codec: c, Body: q}, nil
}

// Reply serializes payload as the reply body and writes the full reply
// packet (header + body) to out, returning the number of bytes written.
// Reply panics if called more than once on the same handle (whether the
// first call was Reply or ReplyErr).
func (r *RequestNN[Q, P]) Reply(payload P, out []byte) (int, error) {
	if r.replied {
		panic("server: Reply called on an already-replied handle")
	}
	r.replied = true

	body, err := r.codec.Marshal(payload)
	if err != nil {
		return 0, err
	}
	copy(out[protocol.RepHeaderLen:], body)
	header := protocol.ReplyHeader{ChanID: r.chanID, BodyLen: uint16(len(body))}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen + len(body), nil
}

// ReplyErr writes an error reply (opts bit 0 set, body_len=0, buf_len=0).
// code is accepted for call-site readability but is reserved and not
// carried on the wire. ReplyErr panics if called more than once on the same
// handle (whether the first call was Reply or ReplyErr).
func (r *RequestNN[Q, P]) ReplyErr(code byte, out []byte) (int, error) {
	if r.replied {
		panic("server: ReplyErr called on an already-replied handle")
	}
	r.replied = true

	header := protocol.ReplyHeader{ChanID: r.chanID, Opts: protocol.ReplyErrFlag}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen, nil
}

// RequestYN is a handle for a received request whose request carries a side
// buffer but whose reply does not (QB=Yes, PB=No) — e.g. SendBytes.
type RequestYN[Q, P any] struct {
	chanID  uint8
	codec   codec.Codec
	replied bool
	Body    Q
	SideBuf []byte
}

// FromBytesYN decodes req's body as Q and retains its side buffer bytes
// (a subslice of req.SideBuf, not a copy).
func FromBytesYN[Q, P any](c codec.Codec, req Request) (RequestYN[Q, P], error) {
	var q Q
	if err := c.Unmarshal(req.Body, &q); err != nil {
		return RequestYN[Q, P]{}, err
	}
	return RequestYN[Q, P]{chanID: req.Header.ChanID, codec: c, Body: q, SideBuf: req.SideBuf}, nil
}

// Reply serializes payload as the reply body and writes the full reply
// packet to out. See RequestNN.Reply for the single-reply guarantee.
func (r *RequestYN[Q, P]) Reply(payload P, out []byte) (int, error) {
	if r.replied {
		panic("server: Reply called on an already-replied handle")
	}
	r.replied = true

	body, err := r.codec.Marshal(payload)
	if err != nil {
		return 0, err
	}
	copy(out[protocol.RepHeaderLen:], body)
	header := protocol.ReplyHeader{ChanID: r.chanID, BodyLen: uint16(len(body))}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen + len(body), nil
}

// ReplyErr writes an error reply; see RequestNN.ReplyErr.
func (r *RequestYN[Q, P]) ReplyErr(code byte, out []byte) (int, error) {
	if r.replied {
		panic("server: ReplyErr called on an already-replied handle")
	}
	r.replied = true

	header := protocol.ReplyHeader{ChanID: r.chanID, Opts: protocol.ReplyErrFlag}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen, nil
}

// RequestNY is a handle for a received request whose reply carries a side
// buffer but whose request does not (QB=No, PB=Yes) — e.g. RecvBytes.
type RequestNY[Q, P any] struct {
	chanID  uint8
	codec   codec.Codec
	replied bool
	Body    Q
}

// FromBytesNY decodes req's body as Q. It fails with ErrUnexpectedSideBuf
// if req carries a side buffer, since this method's request shape declares
// none.
func FromBytesNY[Q, P any](c codec.Codec, req Request) (RequestNY[Q, P], error) {
	if len(req.SideBuf) != 0 {
		return RequestNY[Q, P]{}, ErrUnexpectedSideBuf
	}
	var q Q
	if err := c.Unmarshal(req.Body, &q); err != nil {
		return RequestNY[Q, P]{}, err
	}
	return RequestNY[Q, P]{chanID: req.Header.ChanID, codec: c, Body: q}, nil
}

// GetSideBuf lends the writable region of out immediately following the
// reply header, so the caller can fill the reply's side buffer bytes in
// place before calling Reply. Copying is never required: Reply relocates
// these bytes (if any) to make room for the body without an intermediate
// allocation.
func (r *RequestNY[Q, P]) GetSideBuf(out []byte) []byte {
	return out[protocol.RepHeaderLen:]
}

// Reply serializes payload as the reply body. sideLen is the number of
// bytes the caller already wrote via GetSideBuf; Reply shifts them forward
// to make room for the body (body precedes the side buffer on the wire),
// then backfills the header. No side buffer content is copied more than
// once. See RequestNN.Reply for the single-reply guarantee.
func (r *RequestNY[Q, P]) Reply(payload P, sideLen int, out []byte) (int, error) {
	if r.replied {
		panic("server: Reply called on an already-replied handle")
	}
	r.replied = true

	body, err := r.codec.Marshal(payload)
	if err != nil {
		return 0, err
	}
	if protocol.RepHeaderLen+len(body)+sideLen > len(out) {
		return 0, ErrSideBufTooLong
	}
	side := out[protocol.RepHeaderLen : protocol.RepHeaderLen+sideLen]
	copy(out[protocol.RepHeaderLen+len(body):], side)
	copy(out[protocol.RepHeaderLen:], body)

	header := protocol.ReplyHeader{ChanID: r.chanID, BodyLen: uint16(len(body)), BufLen: uint16(sideLen)}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen + len(body) + sideLen, nil
}

// ReplyErr writes an error reply; see RequestNN.ReplyErr.
func (r *RequestNY[Q, P]) ReplyErr(code byte, out []byte) (int, error) {
	if r.replied {
		panic("server: ReplyErr called on an already-replied handle")
	}
	r.replied = true

	header := protocol.ReplyHeader{ChanID: r.chanID, Opts: protocol.ReplyErrFlag}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen, nil
}

// RequestYY is a handle for a received request whose request and reply both
// carry a side buffer (QB=Yes, PB=Yes).
type RequestYY[Q, P any] struct {
	chanID  uint8
	codec   codec.Codec
	replied bool
	Body    Q
	SideBuf []byte
}

// FromBytesYY decodes req's body as Q and retains its side buffer bytes.
func FromBytesYY[Q, P any](c codec.Codec, req Request) (RequestYY[Q, P], error) {
	var q Q
	if err := c.Unmarshal(req.Body, &q); err != nil {
		return RequestYY[Q, P]{}, err
	}
	return RequestYY[Q, P]{chanID: req.Header.ChanID, codec: c, Body: q, SideBuf: req.SideBuf}, nil
}

// GetSideBuf lends the writable region of out immediately following the
// reply header. See RequestNY.GetSideBuf.
func (r *RequestYY[Q, P]) GetSideBuf(out []byte) []byte {
	return out[protocol.RepHeaderLen:]
}

// Reply serializes payload as the reply body, relocating the sideLen bytes
// already written via GetSideBuf to sit after it. See RequestNY.Reply and
// RequestNN.Reply for the single-reply guarantee.
func (r *RequestYY[Q, P]) Reply(payload P, sideLen int, out []byte) (int, error) {
	if r.replied {
		panic("server: Reply called on an already-replied handle")
	}
	r.replied = true

	body, err := r.codec.Marshal(payload)
	if err != nil {
		return 0, err
	}
	if protocol.RepHeaderLen+len(body)+sideLen > len(out) {
		return 0, ErrSideBufTooLong
	}
	side := out[protocol.RepHeaderLen : protocol.RepHeaderLen+sideLen]
	copy(out[protocol.RepHeaderLen+len(body):], side)
	copy(out[protocol.RepHeaderLen:], body)

	header := protocol.ReplyHeader{ChanID: r.chanID, BodyLen: uint16(len(body)), BufLen: uint16(sideLen)}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen + len(body) + sideLen, nil
}

// ReplyErr writes an error reply; see RequestNN.ReplyErr.
func (r *RequestYY[Q, P]) ReplyErr(code byte, out []byte) (int, error) {
	if r.replied {
		panic("server: ReplyErr called on an already-replied handle")
	}
	r.replied = true

	header := protocol.ReplyHeader{ChanID: r.chanID, Opts: protocol.ReplyErrFlag}
	protocol.EncodeReplyHeader(&header, out)
	return protocol.RepHeaderLen, nil
}
