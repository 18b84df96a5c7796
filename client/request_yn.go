package client

import "urpc/codec"

// RequestYN is the shape for a method whose request carries a side buffer
// but whose reply does not (QB=Yes, PB=No) — e.g. SendBytes.
type RequestYN[Q, P any] struct {
	methodIdx uint8
	codec     codec.Codec
	chanID    uint8
}

// NewRequestYN declares a RequestYN bound to methodIdx.
func NewRequestYN[Q, P any](methodIdx uint8, c codec.Codec) RequestYN[Q, P] {
	return RequestYN[Q, P]{methodIdx: methodIdx, codec: c}
}

// Request emits q and the raw bytes in reqSideBuf as a single packet into
// out, registering a Waiting slot on cl for the reply.
func (r *RequestYN[Q, P]) Request(cl *RpcClient, q Q, reqSideBuf, repBodyBuf, out []byte) (int, error) {
	body, err := r.codec.Marshal(q)
	if err != nil {
		return 0, err
	}
	chanID, n, err := cl.req(r.methodIdx, body, reqSideBuf, repBodyBuf, nil, false, out)
	if err != nil {
		return 0, err
	}
	r.chanID = chanID
	return n, nil
}

// ChanID reports the channel id the most recent Request call allocated.
func (r *RequestYN[Q, P]) ChanID() uint8 { return r.chanID }

// TakeReply retrieves the completed reply, decoding its body into a P.
func (r *RequestYN[Q, P]) TakeReply(cl *RpcClient) (p P, isErr bool, ok bool) {
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
