package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/inventory"
	"github.com/ssargent/hoard/pkg/savejson"
)

// addInputFlags registers the flags shared by commands that read inventories
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Read input from file ('-' for stdin)")
	cmd.Flags().Bool("save", false, "Treat input as a save JSON document and decode every blob in it")
	cmd.Flags().StringSlice("keys", nil, "JSON keys holding blobs in a save document (default from config)")
}

// readInput returns the blob argument, the --file contents, or stdin
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	file, _ := cmd.Flags().GetString("file")

	switch {
	case len(args) > 0 && file != "":
		return nil, errors.New("pass a blob argument or --file, not both")
	case len(args) > 0:
		return []byte(args[0]), nil
	case file == "" || file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}
}

// readBlobs returns the blobs named by the input flags without decoding them
func readBlobs(cmd *cobra.Command, args []string, a *app) ([]savejson.Blob, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}

	if asSave, _ := cmd.Flags().GetBool("save"); asSave {
		keys, _ := cmd.Flags().GetStringSlice("keys")
		if len(keys) == 0 {
			keys = a.cfg.Decode.BlobKeys
		}
		blobs, err := savejson.Extract(data, keys...)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("found inventory blobs", zap.Int("count", len(blobs)))
		return blobs, nil
	}

	blob := strings.TrimSpace(string(data))
	if blob == "" {
		return nil, errors.New("no input: pass a blob, --file, or pipe one on stdin")
	}
	return []savejson.Blob{{Data: blob}}, nil
}

// loadInventories reads the command input and decodes every blob in it
func loadInventories(cmd *cobra.Command, args []string, a *app) ([]inventory.Decoded, error) {
	blobs, err := readBlobs(cmd, args, a)
	if err != nil {
		return nil, err
	}

	ic := codec.NewItemCodec(codec.WithLogger(a.logger))
	return inventory.DecodeAll(cmd.Context(), ic, blobs)
}
