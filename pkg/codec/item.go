package codec

import "encoding/hex"

const (
	// TrailerSize is the number of undocumented bytes closing every item
	TrailerSize = trailerHeadSize + trailerTailSize

	trailerHeadSize = 8
	trailerTailSize = 1

	// MinItemSize is the encoded size of an item whose strings are both empty
	MinItemSize = 1 + 4 + 4 + 4 + 4 + 1 + 4 + 4 + 8 + 1 + TrailerSize

	// MaxStringLen is the longest string a single length byte can describe
	MaxStringLen = 255
)

// Trailer holds the opaque bytes that follow every item.
// Their meaning is unknown; they are kept verbatim.
type Trailer [TrailerSize]byte

// Head returns the leading 8-byte block
func (t Trailer) Head() [trailerHeadSize]byte {
	var h [trailerHeadSize]byte
	copy(h[:], t[:trailerHeadSize])
	return h
}

// Tail returns the final byte
func (t Trailer) Tail() byte {
	return t[trailerHeadSize]
}

// MarshalText renders the trailer as lowercase hex
func (t Trailer) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(TrailerSize))
	hex.Encode(out, t[:])
	return out, nil
}

// UnmarshalText parses a hex rendering produced by MarshalText
func (t *Trailer) UnmarshalText(text []byte) error {
	if hex.DecodedLen(len(text)) != TrailerSize {
		return &ReadError{Op: "trailer", Need: TrailerSize, Have: hex.DecodedLen(len(text)), Err: ErrInvalidEncoding}
	}
	_, err := hex.Decode(t[:], text)
	if err != nil {
		return &ReadError{Op: "trailer", Need: TrailerSize, Have: TrailerSize, Err: ErrInvalidEncoding}
	}
	return nil
}

// Item is one decoded inventory entry
type Item struct {
	Name        string  `json:"name"`
	Stack       int32   `json:"stack"`
	Durability  float32 `json:"durability"`
	PosX        int32   `json:"pos_x"`
	PosY        int32   `json:"pos_y"`
	Equipped    bool    `json:"equipped"`
	Quality     int32   `json:"quality"`
	Variant     int32   `json:"variant"`
	CrafterID   int64   `json:"crafter_id"`
	CrafterName string  `json:"crafter_name"`
	Trailer     Trailer `json:"trailer"`
}

// Crafted reports whether the item carries crafter information
func (it Item) Crafted() bool {
	return it.CrafterID != 0 || it.CrafterName != ""
}

// DecodeItem reads a single item at the cursor position.
// Errors from the cursor are returned tagged with the failing field;
// no partially decoded item is ever returned.
func DecodeItem(c *Cursor) (Item, error) {
	var (
		it  Item
		err error
	)

	if it.Name, err = c.ReadString(); err != nil {
		return Item{}, withField(err, "name")
	}
	if it.Stack, err = c.ReadInt32(); err != nil {
		return Item{}, withField(err, "stack")
	}
	if it.Durability, err = c.ReadFloat32(); err != nil {
		return Item{}, withField(err, "durability")
	}
	if it.PosX, err = c.ReadInt32(); err != nil {
		return Item{}, withField(err, "pos_x")
	}
	if it.PosY, err = c.ReadInt32(); err != nil {
		return Item{}, withField(err, "pos_y")
	}
	if it.Equipped, err = c.ReadBool(); err != nil {
		return Item{}, withField(err, "equipped")
	}
	if it.Quality, err = c.ReadInt32(); err != nil {
		return Item{}, withField(err, "quality")
	}
	if it.Variant, err = c.ReadInt32(); err != nil {
		return Item{}, withField(err, "variant")
	}
	if it.CrafterID, err = c.ReadInt64(); err != nil {
		return Item{}, withField(err, "crafter_id")
	}
	if it.CrafterName, err = c.ReadString(); err != nil {
		return Item{}, withField(err, "crafter_name")
	}

	// The trailer is stored as an 8-byte block followed by a single byte.
	head, err := c.ReadBytes(trailerHeadSize)
	if err != nil {
		return Item{}, withField(err, "trailer")
	}
	tail, err := c.ReadUint8()
	if err != nil {
		return Item{}, withField(err, "trailer")
	}
	copy(it.Trailer[:], head)
	it.Trailer[trailerHeadSize] = tail

	return it, nil
}
