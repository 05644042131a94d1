package codec_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hoard/internal/itemtest"
	"github.com/ssargent/hoard/pkg/codec"
)

func TestCursor_ReadUint8(t *testing.T) {
	c := codec.NewCursor([]byte{42, 100, 200})

	for i, want := range []uint8{42, 100, 200} {
		got, err := c.ReadUint8()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, i+1, c.Offset())
	}

	_, err := c.ReadUint8()
	assert.ErrorIs(t, err, codec.ErrOutOfData)
	assert.Equal(t, 3, c.Offset())
}

func TestCursor_ReadInt32(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want int32
	}{
		{name: "positive", data: []byte{0x39, 0x30, 0x00, 0x00}, want: 12345},
		{name: "negative", data: []byte{0x6c, 0xd9, 0xff, 0xff}, want: -9876},
		{name: "min", data: []byte{0x00, 0x00, 0x00, 0x80}, want: math.MinInt32},
		{name: "max", data: []byte{0xff, 0xff, 0xff, 0x7f}, want: math.MaxInt32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := codec.NewCursor(tc.data)
			got, err := c.ReadInt32()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 4, c.Offset())
		})
	}
}

func TestCursor_ReadInt64(t *testing.T) {
	data := itemtest.NewWriter().Int64(9876543210).Int64(-1).Bytes()
	c := codec.NewCursor(data)

	got, err := c.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(9876543210), got)
	assert.Equal(t, 8, c.Offset())

	got, err = c.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)
	assert.Equal(t, 16, c.Offset())
}

func TestCursor_ReadFloat32(t *testing.T) {
	data := itemtest.NewWriter().Float32(3.14159).Float32(-0.5).Bytes()
	c := codec.NewCursor(data)

	got, err := c.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.14159), got)
	assert.Equal(t, 4, c.Offset())

	got, err = c.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(-0.5), got)
}

func TestCursor_ReadBool(t *testing.T) {
	testCases := []struct {
		b    byte
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{255, true},
	}

	for _, tc := range testCases {
		c := codec.NewCursor([]byte{tc.b})
		got, err := c.ReadBool()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "byte %d", tc.b)
		assert.Equal(t, 1, c.Offset())
	}
}

func TestCursor_ReadString(t *testing.T) {
	t.Run("empty string consumes only the length byte", func(t *testing.T) {
		c := codec.NewCursor([]byte{0, 'x'})
		got, err := c.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "", got)
		assert.Equal(t, 1, c.Offset())
	})

	t.Run("ascii", func(t *testing.T) {
		c := codec.NewCursor(itemtest.NewWriter().String("Sword").Bytes())
		got, err := c.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "Sword", got)
		assert.Equal(t, 6, c.Offset())
	})

	t.Run("multi-byte utf-8", func(t *testing.T) {
		s := "⚔️🛡"
		c := codec.NewCursor(itemtest.NewWriter().String(s).Bytes())
		got, err := c.ReadString()
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Equal(t, 1+len(s), c.Offset())
	})

	t.Run("maximum length", func(t *testing.T) {
		s := string(make([]byte, codec.MaxStringLen))
		c := codec.NewCursor(itemtest.NewWriter().String(s).Bytes())
		got, err := c.ReadString()
		require.NoError(t, err)
		assert.Len(t, got, codec.MaxStringLen)
		assert.Equal(t, 256, c.Offset())
	})

	t.Run("truncated payload", func(t *testing.T) {
		c := codec.NewCursor([]byte{5, 'a', 'b'})
		_, err := c.ReadString()
		assert.ErrorIs(t, err, codec.ErrOutOfData)
		assert.Equal(t, 1, c.Offset(), "length byte stays consumed")

		var re *codec.ReadError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 0, re.Offset)
		assert.Equal(t, 6, re.Need)
		assert.Equal(t, 3, re.Have)
	})

	t.Run("missing length byte", func(t *testing.T) {
		c := codec.NewCursor(nil)
		_, err := c.ReadString()
		assert.ErrorIs(t, err, codec.ErrOutOfData)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		c := codec.NewCursor([]byte{2, 0xff, 0xfe})
		_, err := c.ReadString()
		assert.ErrorIs(t, err, codec.ErrInvalidEncoding)
		assert.NotErrorIs(t, err, codec.ErrOutOfData)
		assert.Equal(t, 1, c.Offset(), "length byte stays consumed")
	})

	t.Run("offset never moves backwards", func(t *testing.T) {
		c := codec.NewCursor([]byte{1, 'x', 4, 'a'})
		s, err := c.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "x", s)
		assert.Equal(t, 2, c.Offset())

		_, err = c.ReadString()
		assert.ErrorIs(t, err, codec.ErrOutOfData)
		assert.Equal(t, 3, c.Offset())

		var re *codec.ReadError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 2, re.Offset)
	})
}

func TestCursor_ReadBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	c := codec.NewCursor(data)

	got, err := c.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 3, c.Offset())

	// returned bytes do not alias the buffer
	got[0] = 99
	assert.Equal(t, byte(1), data[0])

	_, err = c.ReadBytes(3)
	assert.ErrorIs(t, err, codec.ErrOutOfData)
	assert.Equal(t, 3, c.Offset())

	_, err = c.ReadBytes(-1)
	assert.ErrorIs(t, err, codec.ErrOutOfData)
}

func TestCursor_OutOfData(t *testing.T) {
	reads := map[string]func(*codec.Cursor) error{
		"int32":   func(c *codec.Cursor) error { _, err := c.ReadInt32(); return err },
		"int64":   func(c *codec.Cursor) error { _, err := c.ReadInt64(); return err },
		"float32": func(c *codec.Cursor) error { _, err := c.ReadFloat32(); return err },
		"bool":    func(c *codec.Cursor) error { _, err := c.ReadBool(); return err },
	}

	for name, read := range reads {
		t.Run(name, func(t *testing.T) {
			c := codec.NewCursor([]byte{})
			err := read(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, codec.ErrOutOfData)
			assert.Equal(t, 0, c.Offset())
			assert.Contains(t, err.Error(), name)
		})
	}

	c := codec.NewCursor([]byte{1, 2, 3})
	_, err := c.ReadInt32()
	assert.ErrorIs(t, err, codec.ErrOutOfData)
	assert.Equal(t, 0, c.Offset(), "short read must not move the cursor")
	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, 3, c.Len())
}
