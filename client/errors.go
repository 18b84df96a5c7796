package client

import "errors"

// Client-side protocol and transport-mismatch errors (spec section 7).
var (
	// ErrNoFreeChannel is returned by a Request call when every one of the
	// 255 allocatable reply slots (ids 1..255; slot 0 is never allocated) is
	// non-Empty.
	ErrNoFreeChannel = errors.New("client: no free channel id")

	// ErrSlotEmpty is returned by Parse when a reply header names a channel
	// id whose slot is Empty — there was no outstanding request for it.
	ErrSlotEmpty = errors.New("client: reply slot is empty")

	// ErrBodyTooLong is returned by Parse when a reply's body_len exceeds
	// the caller's reply body destination buffer.
	ErrBodyTooLong = errors.New("client: reply body exceeds destination buffer")

	// ErrUnexpectedSideBuf is returned by Parse when a reply carries a
	// non-zero buf_len for a method whose reply has no side buffer (PB=No).
	ErrUnexpectedSideBuf = errors.New("client: reply carries a side buffer the method does not declare")

	// ErrSideBufTooLong is returned by Parse when a reply's buf_len exceeds
	// the caller's reply side buffer destination.
	ErrSideBufTooLong = errors.New("client: reply side buffer exceeds destination buffer")

	// ErrReceivedTooShort is returned when Parse is fed fewer bytes than the
	// NeedBytes it most recently returned.
	ErrReceivedTooShort = errors.New("client: fed fewer bytes than NeedBytes requested")
)
