package codec

// Unit is the wire-unit value, used by methods whose request or reply body
// carries no information beyond "it happened". An XDR struct with no fields
// encodes to zero bytes, so Unit round-trips as a zero-length body.
type Unit struct{}
