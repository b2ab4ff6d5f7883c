package transport

import (
	"bytes"
	"testing"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestReadFrameRejectsZeroLengthPayload(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{2, 0}) // totalLen=2, payloadLen=0
	if _, err := ReadFrame(&buf); err == nil {
		t.Fatalf("expected error for zero-length payload frame")
	}
}
