// Package methods is the application's compile-time method table: the set
// of method_idx values both sides of a connection agree on, together with
// their request/reply shapes.
//
// The original implementation generated this table with a macro
// (client_requests!/server_requests!) that expanded a list of
// (id, name, Q, QB, P, PB) tuples into per-method types. Go has no
// compile-time macros, so the table is simply hand-written: one constant
// per method_idx and one client.RequestXX constructor per method in this
// file, and one server.FromBytesXX dispatch case per method in dispatch.go.
package methods

import (
	"urpc/client"
	"urpc/codec"
)

// Method indices. These are the wire-level method_idx values carried in
// every request header; they must match on both ends of a connection and,
// once deployed, should only ever be appended to — never renumbered.
const (
	MethodPing       uint8 = 0
	MethodSendBytes  uint8 = 1
	MethodRecvBytes  uint8 = 2
	MethodEchoBuffer uint8 = 3
)

// PingBody is the fixed-size payload Ping echoes back unchanged. It exists
// mainly as a connectivity and codec sanity check.
type PingBody [4]byte

// SendBytesReply is SendBytes's empty reply payload: the method's only
// observable effect is server-side (what it does with the side buffer is
// up to the handler), so there is nothing to report back.
type SendBytesReply struct{}

// RecvBytesReq is RecvBytes's empty request payload: the client has
// nothing to say beyond "send me your side buffer".
type RecvBytesReq struct{}

// EchoBufferReply is EchoBuffer's empty reply body payload: like RecvBytes,
// the interesting content travels entirely in the side buffer.
type EchoBufferReply struct{}

// NewPing declares the client-side handle for Ping: a body round trip with
// no side buffer on either side.
func NewPing(c codec.Codec) client.RequestNN[PingBody, PingBody] {
	return client.NewRequestNN[PingBody, PingBody](MethodPing, c)
}

// NewSendBytes declares the client-side handle for SendBytes: the client
// attaches a side buffer to the request, the reply carries no payload.
func NewSendBytes(c codec.Codec) client.RequestYN[codec.Unit, SendBytesReply] {
	return client.NewRequestYN[codec.Unit, SendBytesReply](MethodSendBytes, c)
}

// NewRecvBytes declares the client-side handle for RecvBytes: the request
// carries no side buffer, the reply's side buffer carries the payload.
func NewRecvBytes(c codec.Codec) client.RequestNY[RecvBytesReq, codec.Unit] {
	return client.NewRequestNY[RecvBytesReq, codec.Unit](MethodRecvBytes, c)
}

// NewEchoBuffer declares the client-side handle for EchoBuffer: a side
// buffer travels with the request and is echoed back as the reply's side
// buffer, exercising the YY shape end to end.
func NewEchoBuffer(c codec.Codec) client.RequestYY[codec.Unit, EchoBufferReply] {
	return client.NewRequestYY[codec.Unit, EchoBufferReply](MethodEchoBuffer, c)
}
