// Package itemtest builds inventory blobs for tests.
//
// Writer is the one encoder of the record layout used by tests; it also
// crafts malformed envelopes field by field.
package itemtest

import (
	"encoding/base64"
	"encoding/binary"
	"math"

	"github.com/ssargent/hoard/pkg/codec"
)

// Writer appends little-endian envelope fields
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Header writes the version and declared record count
func (w *Writer) Header(version, count int32) *Writer {
	w.Int32(version)
	w.Int32(count)
	return w
}

func (w *Writer) Uint8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) Int32(v int32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	return w
}

func (w *Writer) Int64(v int64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
	return w
}

func (w *Writer) Float32(v float32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
	return w
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.Uint8(1)
	}
	return w.Uint8(0)
}

// String writes a length-prefixed string. It panics if s does not fit one length byte.
func (w *Writer) String(s string) *Writer {
	if len(s) > codec.MaxStringLen {
		panic("itemtest: string longer than one length byte allows")
	}
	w.buf = append(w.buf, byte(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Item writes one complete record
func (w *Writer) Item(it codec.Item) *Writer {
	w.String(it.Name)
	w.Int32(it.Stack)
	w.Float32(it.Durability)
	w.Int32(it.PosX)
	w.Int32(it.PosY)
	w.Bool(it.Equipped)
	w.Int32(it.Quality)
	w.Int32(it.Variant)
	w.Int64(it.CrafterID)
	w.String(it.CrafterName)
	w.Raw(it.Trailer[:])
	return w
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Base64() string {
	return base64.StdEncoding.EncodeToString(w.buf)
}

// Encode returns a blob holding items. The header declares declared records,
// which need not match len(items).
func Encode(version, declared int32, items ...codec.Item) []byte {
	w := NewWriter().Header(version, declared)
	for _, it := range items {
		w.Item(it)
	}
	return w.Bytes()
}

// EncodeVersion encodes a complete inventory with the given header version
func EncodeVersion(version int32, items ...codec.Item) string {
	return base64.StdEncoding.EncodeToString(Encode(version, int32(len(items)), items...))
}

// Base64 encodes a complete version 1 inventory
func Base64(items ...codec.Item) string {
	return EncodeVersion(1, items...)
}

// Truncated encodes a version 1 inventory that declares more records than it holds
func Truncated(declared int32, items ...codec.Item) string {
	return base64.StdEncoding.EncodeToString(Encode(1, declared, items...))
}
