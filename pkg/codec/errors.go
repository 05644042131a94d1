package codec

import (
	"errors"
	"fmt"
)

// Error kinds reported by the cursor and the item decoder
var (
	ErrOutOfData       = errors.New("out of data")
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// ReadError describes a failed cursor read and where it happened
type ReadError struct {
	Op     string // read operation, e.g. "int32" or "string"
	Field  string // record field being decoded, empty for bare cursor reads
	Offset int    // cursor offset at which the read started
	Need   int    // bytes the read required
	Have   int    // bytes left in the buffer from Offset
	Err    error  // ErrOutOfData or ErrInvalidEncoding
}

func (e *ReadError) Error() string {
	what := e.Op
	if e.Field != "" {
		what = e.Field + " (" + e.Op + ")"
	}
	if errors.Is(e.Err, ErrOutOfData) {
		return fmt.Sprintf("read %s at offset %d: %v: need %d bytes, have %d", what, e.Offset, e.Err, e.Need, e.Have)
	}
	return fmt.Sprintf("read %s at offset %d: %v", what, e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// withField tags a cursor error with the record field that was being read.
func withField(err error, field string) error {
	var re *ReadError
	if errors.As(err, &re) {
		tagged := *re
		tagged.Field = field
		return &tagged
	}
	return fmt.Errorf("%s: %w", field, err)
}
