// Package server implements the server half of uRPC's core: the assembler
// that incrementally parses inbound request bytes into framed Requests, and
// the four generic RequestNN/NY/YN/YY handle families a business handler
// uses to read a request's body and write its reply.
package server

import "urpc/protocol"

// Request is one fully assembled, not-yet-dispatched request: the decoded
// header plus the raw (still codec-serialized) body and side buffer bytes,
// as subslices of whatever buffer Parse was fed — no copy is made here.
type Request struct {
	Header  protocol.RequestHeader
	Body    []byte
	SideBuf []byte
}

// Parser is the server-side request assembler: it keeps the state of the
// parsed bytes across calls to Parse and outputs a Request once one has
// been fully received.
//
// Parser is not safe for concurrent use; one Parser serves one connection.
type Parser struct {
	cfg Config

	waitingBody bool
	pending     protocol.RequestHeader
}

// NewParser creates a Parser that rejects any body_len or buf_len not
// strictly less than cfg.MaxBufLen.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// New is NewParser under the options-struct constructor name the rest of
// the ambient stack uses (transport.NewListener, transport.NewPool): the
// package has no standalone "Server" type of its own — transport.Listener
// plays that role, driving a Parser per connection — so New's cfg simply
// configures the Parser every handleConn creates.
func New(cfg Config) *Parser {
	return NewParser(cfg)
}

// Parse feeds received bytes into the assembler. It returns the number of
// additional bytes the caller must supply before the next transition, and —
// once a full request has been assembled — the Request itself.
//
// Parse never blocks and never reads past what it last asked for; buf must
// contain at least as many bytes as the previous call's need return (or
// ReqHeaderLen on the very first call after a Request is returned).
func (p *Parser) Parse(buf []byte) (need int, req *Request, err error) {
	if !p.waitingBody {
		header, err := protocol.DecodeRequestHeader(buf)
		if err != nil {
			return 0, nil, err
		}
		if header.BodyLen >= p.cfg.MaxBufLen || header.BufLen >= p.cfg.MaxBufLen {
			return 0, nil, protocol.ErrLenExceedsMax
		}

		total := int(header.BodyLen) + int(header.BufLen)
		if total == 0 {
			return 0, &Request{Header: header}, nil
		}

		p.waitingBody = true
		p.pending = header
		return total, nil, nil
	}

	header := p.pending
	total := int(header.BodyLen) + int(header.BufLen)
	if len(buf) < total {
		return 0, nil, protocol.ErrBadHeader
	}

	p.waitingBody = false
	return 0, &Request{
		Header:  header,
		Body:    buf[:header.BodyLen],
		SideBuf: buf[header.BodyLen:total],
	}, nil
}
