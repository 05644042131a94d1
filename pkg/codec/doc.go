// Package codec decodes the binary item records found in Valheim inventory
// blobs.
//
// A character's inventory is exported by the save converter as a base64
// string. Once decoded, the blob is an envelope holding a header and a run of
// fixed-layout item records. The package is read-only: it never produces
// this format.
//
// # Envelope Format
//
//	[Version(4)][Count(4)][Item]*Count
//
// Fields:
//   - Version: 32-bit signed format version (little-endian). It is recorded
//     but no decoding decision depends on it.
//   - Count: 32-bit signed number of records that follow (little-endian)
//
// # Item Format
//
//	[NameLen(1)][Name][Stack(4)][Durability(4)][PosX(4)][PosY(4)]
//	[Equipped(1)][Quality(4)][Variant(4)][CrafterID(8)]
//	[CrafterLen(1)][CrafterName][Trailer(8)][Trailer(1)]
//
// Fields:
//   - Name, CrafterName: UTF-8 text with a single length byte (0-255)
//   - Stack, PosX, PosY, Quality, Variant: 32-bit signed integers
//   - Durability: 32-bit IEEE-754 float
//   - Equipped: one byte, any non-zero value means true
//   - CrafterID: 64-bit signed player id, 0 when the item was not crafted
//   - Trailer: 9 bytes of unknown meaning, carried verbatim
//
// All multi-byte values are little-endian. There is no magic number, no
// checksum and no record delimiter; record boundaries follow from the layout.
// The smallest possible record is MinItemSize bytes.
//
// # Usage
//
//	ic := codec.NewItemCodec(codec.WithLogger(logger))
//
//	col, err := ic.DecodeBase64(blob)
//	if err != nil {
//	    return err // not base64, or shorter than the header
//	}
//
//	for _, it := range col.Items {
//	    fmt.Println(it.Name, it.Stack)
//	}
//
//	if !col.Complete() {
//	    // col.Diagnostic says which record failed and where
//	}
//
// # Error Handling
//
// Cursor reads fail with ErrOutOfData when the buffer is exhausted and
// ErrInvalidEncoding when string bytes are not UTF-8. Both are wrapped in a
// *ReadError carrying the offset and field name. DecodeItem returns these
// errors as-is.
//
// Collection decoding is best-effort. The first record that fails to decode
// ends the loop; the records decoded so far are returned together with a
// Diagnostic, which is also logged at warn level and passed to the optional
// WarnFunc. Only malformed base64 or a truncated header is returned as an
// error. Callers that need all-or-nothing semantics use Collection.Err.
//
// # Thread Safety
//
// ItemCodec keeps no state between calls and is safe for concurrent use.
// A Cursor belongs to a single decode and must not be shared.
package codec
