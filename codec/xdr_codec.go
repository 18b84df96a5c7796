package codec

import (
	"bytes"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// XDR implements Codec on top of RFC 4506 External Data Representation.
//
// XDR's reflection-driven encoder maps Go's primitive integer types, fixed
// size arrays, and structs directly onto the wire with no length prefix
// beyond what variable-length fields (strings, slices) need — exactly the
// "primitive numeric types, fixed-size byte arrays, tuples, and the unit
// value" contract uRPC's bodies require. It is the default codec.
type XDR struct{}

// Marshal serializes v using XDR encoding.
func (XDR) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes data into v using XDR decoding.
func (XDR) Unmarshal(data []byte, v any) error {
	_, err := xdr.Unmarshal(bytes.NewReader(data), v)
	return err
}
