// Package client implements the client half of uRPC's core: the emitter
// that serializes requests into a caller buffer and the assembler that
// incrementally parses inbound reply bytes and routes them to the
// originating request by channel id.
//
// RpcClient is not safe for concurrent use by multiple goroutines — per the
// spec's concurrency model, a single instance owns its slot table and parser
// state outright, and multiple outstanding requests are expressed as
// multiple Waiting slots rather than concurrent access. Goroutine-safe use
// over a real net.Conn is built on top in package transport.
package client

import (
	"urpc/message"
	"urpc/protocol"
)

// pendingReply is the assembler's WaitBody state: a reply header has been
// parsed and its slot's destination buffers are staged, waiting for the
// body_len+buf_len bytes that complete it.
type pendingReply struct {
	header     protocol.ReplyHeader
	bodyDst    []byte
	sideDst    []byte
	hasSideDst bool
}

// RpcClient is the main component of the uRPC client: it multiplexes up to
// 255 outstanding requests (channel ids 1..255, see allocChan) over a single
// logical connection, keeping the
// state of the parsed bytes and storing replies that requests can retrieve
// later via TakeReply.
type RpcClient struct {
	next  uint8 // next channel id to try allocating, see allocChan
	slots [256]message.Slot

	waitingBody bool
	pending     pendingReply
}

// NewRpcClient creates a client with all 256 reply slots Empty.
func NewRpcClient() *RpcClient {
	return &RpcClient{next: 1}
}

// req is the shared emitter used by the four RequestNN/NY/YN/YY families.
// It allocates a channel id, installs a Waiting slot lending the caller's
// reply destinations, serializes the request packet into out, and returns
// the channel id and the number of bytes written.
func (c *RpcClient) req(
	methodIdx uint8,
	bodyBuf []byte,
	reqSideBuf []byte,
	repBodyDst []byte,
	repSideDst []byte,
	hasRepSideDst bool,
	out []byte,
) (chanID uint8, n int, err error) {
	chanID, err = c.allocChan()
	if err != nil {
		return 0, 0, err
	}
	if err := c.slots[chanID].SetWaiting(repBodyDst, repSideDst, hasRepSideDst); err != nil {
		return 0, 0, err
	}

	bodyLen := len(bodyBuf)
	bufLen := len(reqSideBuf)
	copy(out[protocol.ReqHeaderLen:], bodyBuf)
	copy(out[protocol.ReqHeaderLen+bodyLen:], reqSideBuf)

	header := protocol.RequestHeader{
		MethodIdx: methodIdx,
		ChanID:    chanID,
		Opts:      0,
		BodyLen:   uint16(bodyLen),
		BufLen:    uint16(bufLen),
	}
	protocol.EncodeRequestHeader(&header, out)

	return chanID, protocol.ReqHeaderLen + bodyLen + bufLen, nil
}

// Parse feeds received bytes into the reply assembler. It returns the number
// of additional bytes the caller must supply before the next meaningful
// transition, and — when a reply packet has just been fully assembled — the
// channel id it completed.
//
// Parse never blocks and never reads past what the state machine asked for;
// buf must contain at least as many bytes as the previous call's NeedBytes
// return (or RepHeaderLen on the very first call), or ErrReceivedTooShort is
// returned and the client must be discarded.
func (c *RpcClient) Parse(buf []byte) (need int, doneChan *uint8, err error) {
	if !c.waitingBody {
		if len(buf) < protocol.RepHeaderLen {
			return 0, nil, ErrReceivedTooShort
		}
		header, err := protocol.DecodeReplyHeader(buf)
		if err != nil {
			return 0, nil, err
		}

		slot := &c.slots[header.ChanID]
		bodyDst, sideDst, hasSideDst, ok := slot.TakeWaiting()
		if !ok {
			switch slot.State() {
			case message.Empty:
				return 0, nil, ErrSlotEmpty
			case message.Receiving:
				return 0, nil, message.ErrSlotReceiving
			case message.Complete:
				return 0, nil, message.ErrSlotComplete
			}
		}

		if int(header.BodyLen) > len(bodyDst) {
			return 0, nil, ErrBodyTooLong
		}
		if !hasSideDst {
			if header.BufLen > 0 {
				return 0, nil, ErrUnexpectedSideBuf
			}
		} else if int(header.BufLen) > len(sideDst) {
			return 0, nil, ErrSideBufTooLong
		}

		total := int(header.BodyLen) + int(header.BufLen)
		if total == 0 {
			chanID := header.ChanID
			var side []byte
			if hasSideDst {
				side = sideDst[:0]
			}
			slot.SetComplete(header, bodyDst[:0], side)
			return protocol.RepHeaderLen, &chanID, nil
		}

		c.waitingBody = true
		c.pending = pendingReply{header: header, bodyDst: bodyDst, sideDst: sideDst, hasSideDst: hasSideDst}
		return total, nil, nil
	}

	p := c.pending
	total := int(p.header.BodyLen) + int(p.header.BufLen)
	if len(buf) < total {
		return 0, nil, ErrReceivedTooShort
	}

	copy(p.bodyDst, buf[:p.header.BodyLen])
	var side []byte
	if p.hasSideDst {
		copy(p.sideDst, buf[p.header.BodyLen:total])
		side = p.sideDst[:p.header.BufLen]
	}

	chanID := p.header.ChanID
	c.slots[chanID].SetComplete(p.header, p.bodyDst[:p.header.BodyLen], side)
	c.waitingBody = false
	return protocol.RepHeaderLen, &chanID, nil
}

// TakeReply returns the fully assembled reply for chanID, if its slot is
// Complete, resetting the slot to Empty. ok is false in every other state.
func (c *RpcClient) TakeReply(chanID uint8) (header protocol.ReplyHeader, body, side []byte, ok bool) {
	return c.slots[chanID].TakeComplete()
}

// SlotCounts reports how many of the 256 reply slots are in each lifecycle
// stage. It exists purely for the slot_conservation testable property
// (spec section 8); nothing in the core depends on it.
func (c *RpcClient) SlotCounts() (empty, waiting, receiving, complete int) {
	for i := range c.slots {
		switch c.slots[i].State() {
		case message.Empty:
			empty++
		case message.Waiting:
			waiting++
		case message.Receiving:
			receiving++
		case message.Complete:
			complete++
		}
	}
	return
}
