//go:build fuzz
// +build fuzz

package codec_test

import (
	"encoding/base64"
	"testing"

	"github.com/ssargent/hoard/internal/itemtest"
	"github.com/ssargent/hoard/pkg/codec"
)

// FuzzDecode_MalformedData checks that arbitrary envelopes never panic and
// that the reported progress is consistent.
func FuzzDecode_MalformedData(f *testing.F) {
	ic := codec.NewItemCodec()

	f.Add([]byte{})
	f.Add([]byte{1, 0, 0, 0})
	f.Add(itemtest.NewWriter().Header(1, 1).Bytes())
	f.Add(itemtest.NewWriter().Header(1, -1).Bytes())
	f.Add(itemtest.NewWriter().Header(1, 2).Item(codec.Item{Name: "Wood", Stack: 50}).Bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<16 {
			t.Skip("Input too large for fuzz test")
		}

		col, err := ic.Decode(data)
		if err != nil {
			if len(data) >= codec.HeaderSize {
				t.Fatalf("header of %d bytes rejected: %v", len(data), err)
			}
			return
		}

		if col.Consumed > len(data) {
			t.Fatalf("consumed %d bytes of %d", col.Consumed, len(data))
		}
		if col.Declared > 0 && len(col.Items) > int(col.Declared) {
			t.Fatalf("decoded %d items but %d declared", len(col.Items), col.Declared)
		}
		if col.Diagnostic != nil && col.Diagnostic.Record != len(col.Items)+1 {
			t.Fatalf("diagnostic names record %d after %d items", col.Diagnostic.Record, len(col.Items))
		}
	})
}

// FuzzDecodeItem_RoundTrip encodes random field values and decodes them back
func FuzzDecodeItem_RoundTrip(f *testing.F) {
	f.Add("SwordIron", int32(1), float32(75.5), int32(3), int32(1), true, int32(2), int32(0), int64(987654321), "Warrior", []byte{})
	f.Add("", int32(0), float32(0), int32(0), int32(0), false, int32(0), int32(0), int64(0), "", []byte{1, 2, 3})

	f.Fuzz(func(t *testing.T, name string, stack int32, dur float32, x, y int32, eq bool, q, v int32, cid int64, crafter string, trailer []byte) {
		if len(name) > codec.MaxStringLen || len(crafter) > codec.MaxStringLen {
			t.Skip("string too long for the format")
		}
		if dur != dur {
			t.Skip("NaN never compares equal")
		}

		want := codec.Item{Name: name, Stack: stack, Durability: dur, PosX: x, PosY: y, Equipped: eq,
			Quality: q, Variant: v, CrafterID: cid, CrafterName: crafter}
		copy(want.Trailer[:], trailer)

		blob := itemtest.Base64(want)
		col, err := codec.NewItemCodec().DecodeBase64(blob)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}

		raw, _ := base64.StdEncoding.DecodeString(blob)
		validUTF8 := col.Diagnostic == nil
		if !validUTF8 {
			// strings that are not UTF-8 are rejected, never mangled
			return
		}
		if len(col.Items) != 1 || col.Items[0] != want {
			t.Fatalf("round trip mismatch: got %+v, want %+v", col.Items, want)
		}
		if col.Consumed != len(raw) {
			t.Fatalf("consumed %d bytes of %d", col.Consumed, len(raw))
		}
	})
}
