package client

import "urpc/codec"

// RequestNY is the shape for a method whose request carries no side buffer
// but whose reply does (QB=No, PB=Yes) — e.g. RecvBytes.
type RequestNY[Q, P any] struct {
	methodIdx uint8
	codec     codec.Codec
	chanID    uint8
}

// NewRequestNY declares a RequestNY bound to methodIdx.
func NewRequestNY[Q, P any](methodIdx uint8, c codec.Codec) RequestNY[Q, P] {
	return RequestNY[Q, P]{methodIdx: methodIdx, codec: c}
}

// Request emits q into out, registering a Waiting slot on cl. repSideDst is
// scratch space the caller lends to receive the reply's raw side buffer
// bytes; it must outlive the call until TakeReply succeeds.
func (r *RequestNY[Q, P]) Request(cl *RpcClient, q Q, repBodyBuf, repSideDst, out []byte) (int, error) {
	body, err := r.codec.Marshal(q)
	if err != nil {
		return 0, err
	}
	chanID, n, err := cl.req(r.methodIdx, body, nil, repBodyBuf, repSideDst, true, out)
	if err != nil {
		return 0, err
	}
	r.chanID = chanID
	return n, nil
}

// ChanID reports the channel id the most recent Request call allocated.
func (r *RequestNY[Q, P]) ChanID() uint8 { return r.chanID }

// TakeReply retrieves the completed reply: the body decoded into a P, and
// the raw side buffer bytes (a subslice of the repSideDst passed to
// Request, not a copy).
func (r *RequestNY[Q, P]) TakeReply(cl *RpcClient) (p P, side []byte, isErr bool, ok bool) {
	header, body, side, ok := cl.TakeReply(r.chanID)
	if !ok {
		return p, nil, false, false
	}
	if header.Err() {
		return p, nil, true, true
	}
	if err := r.codec.Unmarshal(body, &p); err != nil {
		return p, nil, false, false
	}
	return p, side, false, true
}
