package message

import "errors"

// Errors returned when a slot transition is attempted from a state that
// doesn't permit it. These surface to callers of client.RpcClient as the
// client-side protocol error taxonomy from spec section 7.
var (
	ErrSlotWaiting   = errors.New("message: slot already waiting for a reply")
	ErrSlotReceiving = errors.New("message: slot is receiving a reply")
	ErrSlotComplete  = errors.New("message: slot holds an unclaimed complete reply")
)
