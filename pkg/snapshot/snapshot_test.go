package snapshot

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hoard/pkg/codec"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// headerOnly is an envelope declaring count records with none present.
func headerOnly(count byte) string {
	return base64.StdEncoding.EncodeToString([]byte{1, 0, 0, 0, count, 0, 0, 0})
}

func TestStore_SaveGet(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.Save(context.Background(), Snapshot{Label: "before boss", Source: "Ragnar.fch", Blob: headerOnly(0)})
	require.NoError(t, err)
	assert.NotEqual(t, "", saved.ID.String())
	assert.False(t, saved.CapturedAt.IsZero())

	got, err := s.Get(saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "before boss", got.Label)
	assert.Equal(t, "Ragnar.fch", got.Source)
	assert.Equal(t, saved.Blob, got.Blob)
	assert.True(t, saved.CapturedAt.Equal(got.CapturedAt))
}

func TestStore_SaveKeepsCaptureTime(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)

	saved, err := s.Save(context.Background(), Snapshot{Label: "old", Blob: headerOnly(0), CapturedAt: at})
	require.NoError(t, err)
	assert.True(t, at.Equal(saved.CapturedAt))
	assert.True(t, at.Equal(saved.ID.Time()))
}

func TestStore_SaveRejectsInvalidBlob(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save(context.Background(), Snapshot{Label: "bad", Blob: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidBlob)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_SaveCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, Snapshot{Blob: headerOnly(0)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_List(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, label := range []string{"first", "second", "third"} {
		_, err := s.Save(context.Background(), Snapshot{
			Label:      label,
			Blob:       headerOnly(0),
			CapturedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Label)
	assert.Equal(t, "second", list[1].Label)
	assert.Equal(t, "first", list[2].Label)
}

func TestStore_List_SameSecond(t *testing.T) {
	t.Run("generated capture times", func(t *testing.T) {
		s := openTestStore(t)

		var want []string
		for i := 0; i < 10; i++ {
			saved, err := s.Save(context.Background(), Snapshot{Label: fmt.Sprintf("snap-%d", i), Blob: headerOnly(0)})
			require.NoError(t, err)
			want = append([]string{saved.ID.String()}, want...)
		}

		list, err := s.List()
		require.NoError(t, err)
		require.Len(t, list, 10)
		for i, snap := range list {
			assert.Equal(t, want[i], snap.ID.String(), "position %d", i)
			if i > 0 {
				assert.True(t, snap.CapturedAt.Before(list[i-1].CapturedAt))
			}
		}
	})

	t.Run("sub-second capture times saved out of order", func(t *testing.T) {
		s := openTestStore(t)
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for _, ms := range []int{500, 100, 900, 300} {
			_, err := s.Save(context.Background(), Snapshot{
				Label:      fmt.Sprintf("%dms", ms),
				Blob:       headerOnly(0),
				CapturedAt: base.Add(time.Duration(ms) * time.Millisecond),
			})
			require.NoError(t, err)
		}

		list, err := s.List()
		require.NoError(t, err)
		var labels []string
		for _, snap := range list {
			labels = append(labels, snap.Label)
		}
		assert.Equal(t, []string{"900ms", "500ms", "300ms", "100ms"}, labels)
	})

	t.Run("identical capture times keep save order", func(t *testing.T) {
		s := openTestStore(t)
		at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for _, label := range []string{"a", "b", "c", "d"} {
			_, err := s.Save(context.Background(), Snapshot{Label: label, Blob: headerOnly(0), CapturedAt: at})
			require.NoError(t, err)
		}

		list, err := s.List()
		require.NoError(t, err)
		var labels []string
		for _, snap := range list {
			labels = append(labels, snap.Label)
		}
		assert.Equal(t, []string{"d", "c", "b", "a"}, labels)
	})
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.Save(context.Background(), Snapshot{Label: "gone", Blob: headerOnly(0)})
	require.NoError(t, err)

	require.NoError(t, s.Delete(saved.ID.String()))

	_, err = s.Get(saved.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(saved.ID.String()), ErrNotFound)
}

func TestStore_InvalidID(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("not-a-ksuid")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, s.Delete(""), ErrInvalidID)
}

func TestStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	saved, err := s.Save(context.Background(), Snapshot{Label: "durable", Blob: headerOnly(1)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Label)
}

func TestSnapshot_Decode(t *testing.T) {
	snap := Snapshot{Blob: headerOnly(1)}

	col, err := snap.Decode(codec.NewItemCodec())
	require.NoError(t, err)
	assert.Equal(t, int32(1), col.Declared)
	assert.Empty(t, col.Items)
	assert.NotNil(t, col.Diagnostic)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("snap0"), prefixEnd([]byte("snap/")))
}
