// Package message tracks the lifecycle of one outstanding request/reply pair
// on the client side of uRPC.
//
// A reply Slot is the client-side record, keyed by channel id, that carries a
// caller's destination buffers from the moment a request is emitted through
// to the moment the matching reply has been fully parsed. The original Rust
// client used `mem::replace` on an enum to move the payload from one variant
// to the next without ever aliasing a destination buffer that's about to be
// written; a Slot reproduces that by zeroing its previous fields on every
// transition, so only one state's fields are ever populated at a time.
package message

import "urpc/protocol"

// State is the lifecycle stage of a reply Slot.
type State int

const (
	// Empty means the slot is unused and may be allocated to a new request.
	Empty State = iota
	// Waiting means a request has been emitted and the caller has lent
	// destination buffers for the eventual reply.
	Waiting
	// Receiving means the assembler has matched an inbound header to this
	// slot and is currently filling the destination buffers.
	Receiving
	// Complete means the reply has been fully received and is awaiting
	// pickup by the owning request handle.
	Complete
)

// Slot is one channel id's worth of reply bookkeeping. The zero value is
// Empty.
type Slot struct {
	state State

	bodyDst    []byte
	sideDst    []byte
	hasSideDst bool

	header protocol.ReplyHeader
	body   []byte
	side   []byte
}

// State reports the slot's current lifecycle stage.
func (s *Slot) State() State {
	return s.state
}

// SetWaiting transitions an Empty slot to Waiting, lending it the caller's
// reply destination buffers. It is an error to call SetWaiting on anything
// but an Empty slot.
func (s *Slot) SetWaiting(bodyDst, sideDst []byte, hasSideDst bool) error {
	switch s.state {
	case Empty:
	case Waiting:
		return ErrSlotWaiting
	case Receiving:
		return ErrSlotReceiving
	case Complete:
		return ErrSlotComplete
	}
	s.state = Waiting
	s.bodyDst = bodyDst
	s.sideDst = sideDst
	s.hasSideDst = hasSideDst
	return nil
}

// TakeWaiting consumes a Waiting slot's destination buffers and transitions
// it to Receiving. ok is false if the slot was not Waiting.
func (s *Slot) TakeWaiting() (bodyDst, sideDst []byte, hasSideDst bool, ok bool) {
	if s.state != Waiting {
		return nil, nil, false, false
	}
	bodyDst, sideDst, hasSideDst = s.bodyDst, s.sideDst, s.hasSideDst
	s.bodyDst, s.sideDst = nil, nil
	s.state = Receiving
	return bodyDst, sideDst, hasSideDst, true
}

// SetComplete transitions a Receiving slot to Complete, recording the fully
// parsed reply header and the filled (sub-sliced to actual length) body and
// side buffer.
func (s *Slot) SetComplete(header protocol.ReplyHeader, body, side []byte) {
	s.header = header
	s.body = body
	s.side = side
	s.state = Complete
}

// TakeComplete consumes a Complete slot's reply, resetting it to Empty. ok is
// false if the slot was not Complete.
func (s *Slot) TakeComplete() (header protocol.ReplyHeader, body, side []byte, ok bool) {
	if s.state != Complete {
		return protocol.ReplyHeader{}, nil, nil, false
	}
	header, body, side = s.header, s.body, s.side
	*s = Slot{}
	return header, body, side, true
}
