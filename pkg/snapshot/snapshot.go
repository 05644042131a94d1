// Package snapshot keeps captured inventory blobs in an embedded pebble store.
//
// Snapshots are keyed by KSUID. The KSUID payload leads with the capture time
// in nanoseconds and a per-store sequence, so a key-ordered scan returns
// snapshots in capture order even within a single second. The raw base64 blob is stored rather than the decoded items; items
// are decoded on read, so improvements to the decoder apply to old snapshots.
package snapshot

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/hoard/pkg/codec"
)

var (
	ErrNotFound    = errors.New("snapshot not found")
	ErrInvalidID   = errors.New("invalid snapshot id")
	ErrInvalidBlob = errors.New("snapshot blob is not valid base64")
)

var keyPrefix = []byte("snap/")

// payloadSize is the length of a KSUID payload.
const payloadSize = 16

// Snapshot is one captured inventory
type Snapshot struct {
	ID         ksuid.KSUID `json:"id"`
	Label      string      `json:"label"`
	Source     string      `json:"source,omitempty"`
	CapturedAt time.Time   `json:"captured_at"`
	Blob       string      `json:"blob"`
}

// Decode decodes the snapshot's blob
func (s Snapshot) Decode(ic *codec.ItemCodec) (*codec.Collection, error) {
	return ic.DecodeBase64(s.Blob)
}

// Store persists snapshots
type Store struct {
	db *pebble.DB

	mu   sync.Mutex
	last time.Time // latest generated capture time
	seq  uint32
}

// Open opens or creates a snapshot store in dir
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores snap and returns it with ID and CapturedAt filled in
func (s *Store) Save(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if _, err := base64.StdEncoding.DecodeString(snap.Blob); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	id, capturedAt, err := s.nextID(snap.CapturedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	snap.ID = id
	snap.CapturedAt = capturedAt

	data, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.db.Set(key(id), data, pebble.Sync); err != nil {
		return Snapshot{}, fmt.Errorf("failed to write snapshot: %w", err)
	}

	return snap, nil
}

// Get returns the snapshot with the given ID
func (s *Store) Get(id string) (Snapshot, error) {
	kid, err := ParseID(id)
	if err != nil {
		return Snapshot{}, err
	}

	data, closer, err := s.db.Get(key(kid))
	if errors.Is(err, pebble.ErrNotFound) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer closer.Close()

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns all snapshots, newest first
func (s *Store) List() ([]Snapshot, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: prefixEnd(keyPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open iterator: %w", err)
	}
	defer iter.Close()

	var out []Snapshot
	for valid := iter.Last(); valid; valid = iter.Prev() {
		var snap Snapshot
		if err := json.Unmarshal(iter.Value(), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	kid, _ := ParseID(id)
	if err := s.db.Delete(key(kid), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// nextID returns an ID that sorts after every ID this store generated for an
// earlier or equal capture time. A zero at is replaced by the current time,
// nudged forward when the clock has not advanced since the last save.
func (s *Store) nextID(at time.Time) (ksuid.KSUID, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at.IsZero() {
		at = time.Now().UTC()
		if !at.After(s.last) {
			at = s.last.Add(time.Nanosecond)
		}
		s.last = at
	}
	s.seq++

	payload := make([]byte, payloadSize)
	binary.BigEndian.PutUint64(payload[0:8], uint64(at.UnixNano()))
	binary.BigEndian.PutUint32(payload[8:12], s.seq)
	if _, err := rand.Read(payload[12:]); err != nil {
		return ksuid.Nil, time.Time{}, err
	}

	id, err := ksuid.FromParts(at, payload)
	if err != nil {
		return ksuid.Nil, time.Time{}, err
	}
	return id, at, nil
}

// ParseID validates a textual snapshot ID
func ParseID(id string) (ksuid.KSUID, error) {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return kid, nil
}

func key(id ksuid.KSUID) []byte {
	k := append([]byte(nil), keyPrefix...)
	return append(k, id.Bytes()...)
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}
