package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Cursor reads little-endian primitives sequentially from a byte buffer
type Cursor struct {
	buf    []byte
	offset int
}

// NewCursor creates a cursor positioned at the start of buf.
// The cursor does not copy buf; callers must not modify it while decoding.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the number of bytes consumed so far
func (c *Cursor) Offset() int {
	return c.offset
}

// Len returns the size of the underlying buffer
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.offset
}

// take returns the next n bytes and advances the offset, or fails without
// moving when fewer than n bytes are left.
func (c *Cursor) take(op string, n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &ReadError{Op: op, Offset: c.offset, Need: n, Have: c.Remaining(), Err: ErrOutOfData}
	}
	b := c.buf[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

// ReadUint8 reads a single unsigned byte
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take("uint8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt32 reads a 4-byte little-endian signed integer
func (c *Cursor) ReadInt32() (int32, error) {
	b, err := c.take("int32", 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadInt64 reads an 8-byte little-endian signed integer
func (c *Cursor) ReadInt64() (int64, error) {
	b, err := c.take("int64", 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// ReadFloat32 reads a 4-byte little-endian IEEE-754 float
func (c *Cursor) ReadFloat32() (float32, error) {
	b, err := c.take("float32", 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadBool reads one byte; any non-zero value is true
func (c *Cursor) ReadBool() (bool, error) {
	b, err := c.take("bool", 1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadString reads a string prefixed by a single length byte.
// Once read, the length byte stays consumed even if the payload is
// short or not valid UTF-8; the payload itself is only consumed on success.
func (c *Cursor) ReadString() (string, error) {
	start := c.offset
	n, err := c.ReadUint8()
	if err != nil {
		return "", &ReadError{Op: "string", Offset: start, Need: 1, Have: c.Remaining(), Err: ErrOutOfData}
	}
	if n == 0 {
		return "", nil
	}

	if c.Remaining() < int(n) {
		return "", &ReadError{Op: "string", Offset: start, Need: 1 + int(n), Have: 1 + c.Remaining(), Err: ErrOutOfData}
	}
	b := c.buf[c.offset : c.offset+int(n)]
	if !utf8.Valid(b) {
		return "", &ReadError{Op: "string", Offset: start, Need: 1 + int(n), Have: 1 + c.Remaining(), Err: ErrInvalidEncoding}
	}
	c.offset += int(n)
	return string(b), nil
}

// ReadBytes reads exactly n raw bytes. The returned slice is a copy.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take("bytes", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
