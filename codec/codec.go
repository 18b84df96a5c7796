// Package codec provides the body serialization layer uRPC's core treats as
// an external collaborator: the wire header carries only a byte count, never
// a schema — whatever codec encoded a body must be compiled identically into
// both peers via the shared method table.
//
// Two implementations are provided:
//   - XDR:  RFC 4506 External Data Representation. Deterministic, no field
//     names on the wire, native support for fixed-size arrays and
//     structs-as-tuples. The default.
//   - JSON: human-readable, useful for debugging a capture.
package codec

// Codec serializes and deserializes RPC bodies. Encoded length must be
// determined entirely by the value, never by the size of the destination
// buffer, so that a receiver can size its read purely from the header's
// body_len/buf_len fields.
type Codec interface {
	// Marshal serializes v, returning the encoded bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error
}
