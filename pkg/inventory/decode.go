// Package inventory analyses decoded inventories.
package inventory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/savejson"
)

// maxParallelDecodes bounds the goroutines used by DecodeAll
const maxParallelDecodes = 8

// Decoded pairs a blob with its decoded collection
type Decoded struct {
	Path       string            `json:"path"`
	Collection *codec.Collection `json:"-"`
}

// DecodeAll decodes blobs concurrently. Results keep the input order.
// A blob that is not valid base64 fails the whole call; partial decodes
// do not.
func DecodeAll(ctx context.Context, ic *codec.ItemCodec, blobs []savejson.Blob) ([]Decoded, error) {
	out := make([]Decoded, len(blobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)

	for i, blob := range blobs {
		i, blob := i, blob
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col, err := ic.DecodeBase64(blob.Data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", blob.Path, err)
			}
			out[i] = Decoded{Path: blob.Path, Collection: col}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
