// Package wire is the binary codec for the reliable/unreliable transport:
// fixed-width little-endian primitives plus a legacy-encoding string field,
// generalized from the teacher's opcode packet reader/writer.
package wire

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/traditionalchinese"
)

// Reader reads fields from a decoded command/event payload. Byte 0 is
// always the Kind tag and is skipped by NewReader.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: 1}
}

func (r *Reader) Kind() byte {
	if len(r.data) == 0 {
		return 0
	}
	return r.data[0]
}

// ReadC reads 1 unsigned byte.
func (r *Reader) ReadC() byte {
	if r.off >= len(r.data) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

// ReadBool reads 1 byte as a boolean (0 = false, anything else = true).
func (r *Reader) ReadBool() bool {
	return r.ReadC() != 0
}

// ReadH reads 2 bytes as little-endian uint16.
func (r *Reader) ReadH() uint16 {
	if r.off+2 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

// ReadD reads 4 bytes as little-endian int32.
func (r *Reader) ReadD() int32 {
	if r.off+4 > len(r.data) {
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

// ReadF reads 4 bytes as an IEEE-754 little-endian float32.
func (r *Reader) ReadF() float32 {
	return math.Float32frombits(uint32(r.ReadD()))
}

// ReadQ reads 8 bytes as little-endian uint64 (entity IDs, ticks).
func (r *Reader) ReadQ() uint64 {
	if r.off+8 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

// ReadS reads a null-terminated legacy-encoded string and returns UTF-8.
// Chat text and display names from older regional clients arrive MS950
// (Big5) encoded; pure-ASCII input passes straight through untouched.
func (r *Reader) ReadS() string {
	start := r.off
	for r.off < len(r.data) {
		if r.data[r.off] == 0 {
			raw := r.data[start:r.off]
			r.off++
			return ms950ToUTF8(raw)
		}
		r.off++
	}
	return ms950ToUTF8(r.data[start:r.off])
}

func ms950ToUTF8(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	allASCII := true
	for _, b := range raw {
		if b >= 0x80 {
			allASCII = false
			break
		}
	}
	if allASCII {
		return string(raw)
	}
	decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) []byte {
	if r.off+n > len(r.data) {
		remaining := r.data[r.off:]
		r.off = len(r.data)
		return remaining
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
