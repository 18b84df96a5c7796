package server

import "errors"

// Server-side shape and buffer errors (spec section 7).
var (
	// ErrUnexpectedSideBuf is returned by a FromBytes constructor when a
	// request header carries a non-zero buf_len for a method whose request
	// has no side buffer (QB=No).
	ErrUnexpectedSideBuf = errors.New("server: request carries a side buffer the method does not declare")

	// ErrSideBufTooLong is returned by the NY/YY Reply methods when the
	// sideLen side buffer bytes, placed after the reply header and body, do
	// not fit in the output buffer.
	ErrSideBufTooLong = errors.New("server: reply side buffer exceeds output buffer")
)
