package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRequestHeader(t *testing.T) {
	h := RequestHeader{MethodIdx: 0, ChanID: 1, Opts: 0, BodyLen: 4, BufLen: 0}
	buf := make([]byte, ReqHeaderLen)
	EncodeRequestHeader(&h, buf)

	want := []byte{0x00, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded ping request header = % x, want % x", buf, want)
	}

	got, err := DecodeRequestHeader(buf)
	if err != nil {
		t.Fatalf("DecodeRequestHeader: %v", err)
	}
	if got != h {
		t.Fatalf("round trip = %+v, want %+v", got, h)
	}
}

func TestEncodeDecodeReplyHeader(t *testing.T) {
	h := ReplyHeader{ChanID: 1, Opts: 0, BodyLen: 4, BufLen: 0}
	buf := make([]byte, RepHeaderLen)
	EncodeReplyHeader(&h, buf)

	want := []byte{0x01, 0x00, 0x04, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded ping reply header = % x, want % x", buf, want)
	}

	got, err := DecodeReplyHeader(buf)
	if err != nil {
		t.Fatalf("DecodeReplyHeader: %v", err)
	}
	if got != h {
		t.Fatalf("round trip = %+v, want %+v", got, h)
	}
	if got.Err() {
		t.Fatalf("Err() = true, want false")
	}
}

func TestReplyHeaderErrFlag(t *testing.T) {
	h := ReplyHeader{ChanID: 3, Opts: ReplyErrFlag}
	if !h.Err() {
		t.Fatalf("Err() = false, want true for opts=%d", h.Opts)
	}
}

func TestDecodeRequestHeaderTooShort(t *testing.T) {
	_, err := DecodeRequestHeader(make([]byte, ReqHeaderLen-1))
	if err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestDecodeReplyHeaderTooShort(t *testing.T) {
	_, err := DecodeReplyHeader(make([]byte, RepHeaderLen-1))
	if err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}
