// Package protocol implements uRPC's binary frame headers.
//
// Unlike mini-RPC's original 14-byte magic+version+codec frame, uRPC has no
// resync point: there is no magic number and no delimiter. A request header
// is 7 bytes, a reply header is 6 bytes, and both are followed by a body and
// an optional side buffer whose lengths the header itself carries.
//
// Request frame:
//
//	0     1       2     3        5        7
//	┌─────┬───────┬─────┬────────┬────────┬───────────────┬───────────────┐
//	│meth │chan_id│opts │body_len│ buf_len│  body ...      │ side buf ...  │
//	│ u8  │  u8   │ u8  │u16 LE  │u16 LE  │ body_len bytes │ buf_len bytes │
//	└─────┴───────┴─────┴────────┴────────┴───────────────┴───────────────┘
//
// Reply frame:
//
//	0       1     2        4        6
//	┌───────┬─────┬────────┬────────┬───────────────┬───────────────┐
//	│chan_id│opts │body_len│ buf_len│  body ...      │ side buf ...  │
//	│  u8   │ u8  │u16 LE  │u16 LE  │ body_len bytes │ buf_len bytes │
//	└───────┴─────┴────────┴────────┴───────────────┴───────────────┘
//
// Because there is no framing delimiter, a single decode error is terminal:
// callers must tear down and re-establish the transport rather than attempt
// to resynchronize on the byte stream.
package protocol

import (
	"encoding/binary"
	"errors"
)

// Fixed header sizes, in bytes.
const (
	ReqHeaderLen = 7
	RepHeaderLen = 6
)

// ReplyErrFlag is bit 0 of a reply's opts byte: set when the call failed.
const ReplyErrFlag byte = 1

var (
	// ErrBadHeader is returned when a buffer is shorter than the header it
	// is supposed to hold. Decoding does not check the reserved opts bits.
	ErrBadHeader = errors.New("protocol: malformed header")

	// ErrLenExceedsMax is returned when body_len or buf_len is not strictly
	// less than the configured max_buf_len.
	ErrLenExceedsMax = errors.New("protocol: body_len or buf_len exceeds max_buf_len")
)

// RequestHeader is the 7-byte header prefixing every request packet.
type RequestHeader struct {
	MethodIdx byte
	ChanID    byte
	Opts      byte
	BodyLen   uint16
	BufLen    uint16
}

// ReplyHeader is the 6-byte header prefixing every reply packet.
type ReplyHeader struct {
	ChanID  byte
	Opts    byte
	BodyLen uint16
	BufLen  uint16
}

// Err reports whether the reply's error flag (opts bit 0) is set.
func (h ReplyHeader) Err() bool {
	return h.Opts&ReplyErrFlag != 0
}

// EncodeRequestHeader writes h's 7-byte wire form to out[:ReqHeaderLen].
// The caller must ensure len(out) >= ReqHeaderLen.
func EncodeRequestHeader(h *RequestHeader, out []byte) {
	out[0] = h.MethodIdx
	out[1] = h.ChanID
	out[2] = h.Opts
	binary.LittleEndian.PutUint16(out[3:5], h.BodyLen)
	binary.LittleEndian.PutUint16(out[5:7], h.BufLen)
}

// DecodeRequestHeader parses a request header from the front of buf.
func DecodeRequestHeader(buf []byte) (RequestHeader, error) {
	if len(buf) < ReqHeaderLen {
		return RequestHeader{}, ErrBadHeader
	}
	return RequestHeader{
		MethodIdx: buf[0],
		ChanID:    buf[1],
		Opts:      buf[2],
		BodyLen:   binary.LittleEndian.Uint16(buf[3:5]),
		BufLen:    binary.LittleEndian.Uint16(buf[5:7]),
	}, nil
}

// EncodeReplyHeader writes h's 6-byte wire form to out[:RepHeaderLen].
// The caller must ensure len(out) >= RepHeaderLen.
func EncodeReplyHeader(h *ReplyHeader, out []byte) {
	out[0] = h.ChanID
	out[1] = h.Opts
	binary.LittleEndian.PutUint16(out[2:4], h.BodyLen)
	binary.LittleEndian.PutUint16(out[4:6], h.BufLen)
}

// DecodeReplyHeader parses a reply header from the front of buf.
func DecodeReplyHeader(buf []byte) (ReplyHeader, error) {
	if len(buf) < RepHeaderLen {
		return ReplyHeader{}, ErrBadHeader
	}
	return ReplyHeader{
		ChanID:  buf[0],
		Opts:    buf[1],
		BodyLen: binary.LittleEndian.Uint16(buf[2:4]),
		BufLen:  binary.LittleEndian.Uint16(buf[4:6]),
	}, nil
}
