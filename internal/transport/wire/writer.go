package wire

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/traditionalchinese"
)

// Writer builds a command/event payload. All multi-byte writes are
// little-endian. The final Bytes() output is padded to a 4-byte boundary.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func NewWriterWithKind(kind byte) *Writer {
	w := &Writer{buf: make([]byte, 0, 64)}
	w.WriteC(kind)
	return w
}

func (w *Writer) WriteC(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteC(1)
	} else {
		w.WriteC(0)
	}
}

func (w *Writer) WriteH(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteD(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteF(v float32) {
	w.WriteD(int32(math.Float32bits(v)))
}

func (w *Writer) WriteQ(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteS writes a null-terminated string, transcoding UTF-8 to MS950
// (Big5) for the regional clients that still expect that wire encoding.
func (w *Writer) WriteS(s string) {
	if len(s) == 0 {
		w.buf = append(w.buf, 0)
		return
	}
	encoded, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(s))
	if err != nil {
		w.buf = append(w.buf, []byte(s)...)
	} else {
		w.buf = append(w.buf, encoded...)
	}
	w.buf = append(w.buf, 0)
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Bytes returns the payload padded to a 4-byte boundary.
func (w *Writer) Bytes() []byte {
	padding := len(w.buf) % 4
	if padding != 0 {
		for i := padding; i < 4; i++ {
			w.buf = append(w.buf, 0)
		}
	}
	return w.buf
}

// RawBytes returns the payload without padding (handshake frame).
func (w *Writer) RawBytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}
