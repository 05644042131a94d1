// Package savejson locates inventory blobs inside save-file JSON exports.
//
// The save converter emits a large JSON document in which each inventory is
// a base64 string stored under a well-known object key. Extract walks the
// document without binding it to Go types, so unknown export layouts work
// as long as the key names are known.
package savejson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

// DefaultKey is the object key holding inventory blobs in character exports
const DefaultKey = "inventory"

var (
	// ErrNoBlobs is returned when no matching key holds a string value
	ErrNoBlobs = errors.New("no inventory blobs found")
	// ErrMalformedJSON is returned for documents that are not valid JSON
	ErrMalformedJSON = errors.New("malformed save json")
)

// Blob is a base64 string found in the document
type Blob struct {
	Path string `json:"path"` // location in the document, e.g. players[0].inventory
	Data string `json:"data"` // base64 text as stored
}

// Extract returns every string stored under one of keys, in document order.
// When keys is empty DefaultKey is used.
func Extract(doc []byte, keys ...string) ([]Blob, error) {
	if !json.Valid(doc) {
		return nil, ErrMalformedJSON
	}
	if len(keys) == 0 {
		keys = []string{DefaultKey}
	}

	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	value, dataType, _, err := jsonparser.Get(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	w := &walker{keys: want}
	if err := w.walk(value, dataType, ""); err != nil {
		return nil, err
	}
	if len(w.blobs) == 0 {
		return nil, ErrNoBlobs
	}
	return w.blobs, nil
}

type walker struct {
	keys  map[string]struct{}
	blobs []Blob
}

func (w *walker) walk(value []byte, dataType jsonparser.ValueType, path string) error {
	switch dataType {
	case jsonparser.Object:
		return jsonparser.ObjectEach(value, func(key, v []byte, dt jsonparser.ValueType, _ int) error {
			name, err := jsonparser.ParseString(key)
			if err != nil {
				return fmt.Errorf("%w: key at %s: %v", ErrMalformedJSON, path, err)
			}
			child := joinKey(path, name)

			if _, ok := w.keys[name]; ok && dt == jsonparser.String {
				s, err := jsonparser.ParseString(v)
				if err != nil {
					return fmt.Errorf("%w: value at %s: %v", ErrMalformedJSON, child, err)
				}
				w.blobs = append(w.blobs, Blob{Path: child, Data: s})
				return nil
			}
			return w.walk(v, dt, child)
		})

	case jsonparser.Array:
		var walkErr error
		i := 0
		_, err := jsonparser.ArrayEach(value, func(v []byte, dt jsonparser.ValueType, _ int, err error) {
			if walkErr == nil {
				if err != nil {
					walkErr = err
				} else {
					walkErr = w.walk(v, dt, path+"["+strconv.Itoa(i)+"]")
				}
			}
			i++
		})
		if walkErr != nil {
			return walkErr
		}
		if err != nil {
			return fmt.Errorf("%w: array at %s: %v", ErrMalformedJSON, path, err)
		}
		return nil

	default:
		return nil
	}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
