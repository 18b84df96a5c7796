package client

import "urpc/codec"

// RequestYY is the shape for a method whose request and reply both carry a
// side buffer (QB=Yes, PB=Yes).
type RequestYY[Q, P any] struct {
	methodIdx uint8
	codec     codec.Codec
	chanID    uint8
}

// NewRequestYY declares a RequestYY bound to methodIdx.
func NewRequestYY[Q, P any](methodIdx uint8, c codec.Codec) RequestYY[Q, P] {
	return RequestYY[Q, P]{methodIdx: methodIdx, codec: c}
}

// Request emits q and reqSideBuf as a single packet into out, registering a
// Waiting slot on cl that will receive its reply body into repBodyBuf and
// its reply side buffer into repSideDst.
func (r *RequestYY[Q, P]) Request(cl *RpcClient, q Q, reqSideBuf, repBodyBuf, repSideDst, out []byte) (int, error) {
	body, err := r.codec.Marshal(q)
	if err != nil {
		return 0, err
	}
	chanID, n, err := cl.req(r.methodIdx, body, reqSideBuf, repBodyBuf, repSideDst, true, out)
	if err != nil {
		return 0, err
	}
	r.chanID = chanID
	return n, nil
}

// ChanID reports the channel id the most recent Request call allocated.
func (r *RequestYY[Q, P]) ChanID() uint8 { return r.chanID }

// TakeReply retrieves the completed reply: the body decoded into a P, and
// the raw side buffer bytes (a subslice of the repSideDst passed to
// Request, not a copy).
func (r *RequestYY[Q, P]) TakeReply(cl *RpcClient) (p P, side []byte, isErr bool, ok bool) {
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
