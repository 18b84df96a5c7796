package client

import (
	"urpc/codec"
)

// RequestNN is the shape for a method whose request and reply both carry no
// side buffer (QB=No, PB=No) — e.g. Ping. The NN/NY/YN/YY family split gives
// each shape its own Request/TakeReply signature, so passing a side buffer
// to a method that declares none is a compile error rather than a runtime
// one.
type RequestNN[Q, P any] struct {
	methodIdx uint8
	codec     codec.Codec
	chanID    uint8
}

// NewRequestNN declares a RequestNN bound to methodIdx, serializing bodies
// with c.
func NewRequestNN[Q, P any](methodIdx uint8, c codec.Codec) RequestNN[Q, P] {
	return RequestNN[Q, P]{methodIdx: methodIdx, codec: c}
}

// Request emits the wire packet for a single call into out and registers a
// Waiting slot on cl for the reply. repBodyBuf is scratch space the caller
// lends to receive the reply's raw serialized body before TakeReply decodes
// it into a P; it must outlive the call until TakeReply succeeds.
//
// Request returns the number of bytes written to out. The caller owns
// sending those bytes on the wire and later calling TakeReply with the same
// cl once Parse reports this request's channel id done.
func (r *RequestNN[Q, P]) Request(cl *RpcClient, q Q, repBodyBuf, out []byte) (int, error) {
	body, err := r.codec.Marshal(q)
	if err != nil {
		return 0, err
	}
	chanID, n, err := cl.req(r.methodIdx, body, nil, repBodyBuf, nil, false, out)
	if err != nil {
		return 0, err
	}
	r.chanID = chanID
	return n, nil
}

// ChanID reports the channel id the most recent Request call allocated.
func (r *RequestNN[Q, P]) ChanID() uint8 { return r.chanID }

// TakeReply retrieves the completed reply for the most recent Request call,
// decoding its body into a P. ok is false if the reply is not yet Complete.
// When isErr is true, p is the zero value: the server replied with its
// error flag set (the reply_err code byte is reserved and not carried on
// the wire, so it cannot be recovered here).
func (r *RequestNN[Q, P]) TakeReply(cl *RpcClient) (p P, isErr bool, ok bool) {
	header, body, _, ok := cl.TakeReply(r.chanID)
	if !ok {
		return p, false, false
	}
	if header.Err() {
		return p, true, true
	}
	if err := r.codec.Unmarshal(body, &p); err != nil {
		return p, false, false
	}
	return p, false, true
}
