package codec

import "encoding/json"

// JSON implements Codec using the standard library's encoding/json.
//
// It is not deterministic-length in the same sense XDR is (field names are
// repeated on the wire), but it is useful for inspecting a capture by eye
// during development, mirroring the teacher's JSONCodec/BinaryCodec split.
type JSON struct{}

// Marshal serializes v as JSON.
func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
