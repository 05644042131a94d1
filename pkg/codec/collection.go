package codec

import (
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
)

// HeaderSize is the size of the envelope header (version + count)
const HeaderSize = 8

// Diagnostic describes why a collection decode stopped early
type Diagnostic struct {
	Record int   // 1-based index of the record that failed
	Offset int   // cursor offset when the failure was detected
	Err    error // underlying read error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("error parsing item %d (offset: %d): %v", d.Record, d.Offset, d.Err)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Collection is the result of decoding an item envelope
type Collection struct {
	Version    int32       // format version from the header, informational only
	Declared   int32       // record count announced by the header
	Items      []Item      // records decoded before the first failure
	Consumed   int         // bytes read from the envelope
	Diagnostic *Diagnostic // set when decoding stopped before Declared records
}

// Complete reports whether every declared record was decoded.
// A negative declared count is never complete.
func (c *Collection) Complete() bool {
	return c.Diagnostic == nil && c.Declared >= 0 && int(c.Declared) == len(c.Items)
}

// Err returns an error for callers that treat a short decode as a failure.
func (c *Collection) Err() error {
	if c.Diagnostic != nil {
		return c.Diagnostic
	}
	if c.Declared < 0 {
		return fmt.Errorf("negative record count %d", c.Declared)
	}
	return nil
}

// WarnFunc receives the diagnostic of a partial decode
type WarnFunc func(Diagnostic)

// ItemCodec decodes item envelopes.
// It holds no per-decode state and is safe for concurrent use.
type ItemCodec struct {
	logger *zap.Logger
	warn   WarnFunc
}

// Option configures an ItemCodec
type Option func(*ItemCodec)

// WithLogger sets the logger used to report partial decodes
func WithLogger(l *zap.Logger) Option {
	return func(c *ItemCodec) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWarnFunc registers a callback invoked for every partial decode
func WithWarnFunc(fn WarnFunc) Option {
	return func(c *ItemCodec) {
		c.warn = fn
	}
}

// NewItemCodec creates a new item codec
func NewItemCodec(opts ...Option) *ItemCodec {
	c := &ItemCodec{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DecodeItem reads a single item from the cursor
func (ic *ItemCodec) DecodeItem(c *Cursor) (Item, error) {
	return DecodeItem(c)
}

// DecodeBase64 decodes a base64 envelope. Malformed base64 is the only
// failure returned for well-formed headers; record failures end the decode
// and are reported through Collection.Diagnostic.
func (ic *ItemCodec) DecodeBase64(encoded string) (*Collection, error) {
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w: %v", ErrInvalidEncoding, err)
	}
	return ic.Decode(buf)
}

// Decode decodes a raw (already base64-decoded) envelope
func (ic *ItemCodec) Decode(buf []byte) (*Collection, error) {
	c := NewCursor(buf)

	version, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("read envelope header: %w", withField(err, "version"))
	}
	count, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("read envelope header: %w", withField(err, "count"))
	}

	col := &Collection{
		Version:  version,
		Declared: count,
		Items:    make([]Item, 0, capacityFor(count, c.Remaining())),
	}

	for i := 0; i < int(count); i++ {
		it, err := DecodeItem(c)
		if err != nil {
			col.Diagnostic = &Diagnostic{Record: i + 1, Offset: c.Offset(), Err: err}
			ic.report(col)
			break
		}
		col.Items = append(col.Items, it)
	}

	col.Consumed = c.Offset()
	return col, nil
}

func (ic *ItemCodec) report(col *Collection) {
	d := col.Diagnostic
	ic.logger.Warn("item decode stopped early",
		zap.Int("record", d.Record),
		zap.Int("offset", d.Offset),
		zap.Int32("declared", col.Declared),
		zap.Int("decoded", len(col.Items)),
		zap.Error(d.Err),
	)
	if ic.warn != nil {
		ic.warn(*d)
	}
}

// capacityFor bounds the preallocation by what the buffer could hold.
func capacityFor(count int32, remaining int) int {
	if count <= 0 {
		return 0
	}
	limit := remaining / MinItemSize
	if int(count) < limit {
		return int(count)
	}
	return limit
}

// DecodeBase64 decodes a base64 envelope with a default codec
func DecodeBase64(encoded string) (*Collection, error) {
	return NewItemCodec().DecodeBase64(encoded)
}
