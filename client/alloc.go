package client

import "urpc/message"

// allocChan picks a channel id whose reply slot is Empty.
//
// Policy (spec section 9 Open Question, resolved here): monotonic free-scan
// starting at 1. c.next remembers the last id handed out, so consecutive
// calls prefer unused ids in ascending order before wrapping and reusing an
// id that has since gone Empty again; slot 0 is never allocated at all, not
// just never first, so an all-zero receive buffer can never look like a
// valid reply to a real outstanding request. The spec only forbids slot 0 as
// the first id ever handed out; this narrows that to "never", which costs
// one of the 256 slots — allocChan can have at most 255 channels open
// concurrently, not 256.
func (c *RpcClient) allocChan() (uint8, error) {
	start := c.next
	if start == 0 {
		start = 1
	}
	id := start
	for {
		if c.slots[id].State() == message.Empty {
			c.next = id + 1
			if c.next == 0 {
				c.next = 1
			}
			return id, nil
		}
		id++
		if id == 0 {
			id = 1
		}
		if id == start {
			return 0, ErrNoFreeChannel
		}
	}
}
