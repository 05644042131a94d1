package codec_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/hoard/internal/itemtest"
	"github.com/ssargent/hoard/pkg/codec"
)

// ExampleItemCodec_DecodeBase64 demonstrates decoding an inventory blob
func ExampleItemCodec_DecodeBase64() {
	blob := itemtest.Base64(
		codec.Item{Name: "Wood", Stack: 50, Durability: 100, Quality: 1},
		codec.Item{Name: "BowHuntsman", Stack: 1, Durability: 200, Equipped: true, Quality: 4, CrafterName: "Archer"},
	)

	ic := codec.NewItemCodec()
	col, err := ic.DecodeBase64(blob)
	if err != nil {
		log.Fatal(err)
	}

	for _, it := range col.Items {
		fmt.Printf("%s x%d q%d equipped=%t crafter=%q\n", it.Name, it.Stack, it.Quality, it.Equipped, it.CrafterName)
	}
	fmt.Printf("Complete: %t\n", col.Complete())

	// Output:
	// Wood x50 q1 equipped=false crafter=""
	// BowHuntsman x1 q4 equipped=true crafter="Archer"
	// Complete: true
}

// ExampleItemCodec_partialDecode demonstrates the best-effort contract
func ExampleItemCodec_partialDecode() {
	ic := codec.NewItemCodec(codec.WithWarnFunc(func(d codec.Diagnostic) {
		fmt.Printf("warning: record %d failed at offset %d\n", d.Record, d.Offset)
	}))

	// The header announces one record but the blob ends right after it.
	col, err := ic.DecodeBase64("AQAAAAEAAAA=")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Items: %d of %d\n", len(col.Items), col.Declared)
	fmt.Printf("Out of data: %t\n", errors.Is(col.Err(), codec.ErrOutOfData))

	// Output:
	// warning: record 1 failed at offset 8
	// Items: 0 of 1
	// Out of data: true
}

// ExampleCursor demonstrates reading primitives directly
func ExampleCursor() {
	c := codec.NewCursor([]byte{0x05, 'T', 'o', 'r', 'c', 'h', 0x2a, 0x00, 0x00, 0x00, 0x02})

	name, _ := c.ReadString()
	stack, _ := c.ReadInt32()
	lit, _ := c.ReadBool()

	fmt.Println(name, stack, lit, c.Offset())

	_, err := c.ReadInt32()
	fmt.Println(errors.Is(err, codec.ErrOutOfData))

	// Output:
	// Torch 42 true 11
	// true
}

// ExampleDecodeBase64_invalid demonstrates the only fatal decode error
func ExampleDecodeBase64_invalid() {
	_, err := codec.DecodeBase64("AQAA!AAA")
	fmt.Println(errors.Is(err, codec.ErrInvalidEncoding))

	// Output:
	// true
}
