/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/inventory"
	"github.com/ssargent/hoard/pkg/snapshot"
)

// snapshotCmd groups the snapshot store commands
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage inventory snapshots",
	Long: `Keep inventory blobs in the local snapshot store under the data directory.

Snapshots hold the raw blob and are decoded when read.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [blob]",
	Short: "Store an inventory blob as a snapshot",
	Long: `Store an inventory blob as a snapshot.

Examples:
  hoard snapshot save --label before-raid --file inventory.txt
  hoard snapshot save --save --file world.json --label nightly`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		label, _ := cmd.Flags().GetString("label")
		source, _ := cmd.Flags().GetString("source")

		blobs, err := readBlobs(cmd, args, a)
		if err != nil {
			return err
		}

		store, err := openSnapshotStore(a)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, b := range blobs {
			src := source
			if b.Path != "" {
				src = joinSource(source, b.Path)
			}
			snap, err := store.Save(cmd.Context(), snapshot.Snapshot{Label: label, Source: src, Blob: b.Data})
			if err != nil {
				return err
			}
			a.logger.Debug("snapshot saved", zap.String("id", snap.ID.String()), zap.String("source", src))
			fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
		}
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshotStore(appFrom(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.List()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), snaps)
		}
		if len(snaps) == 0 {
			cmd.Println("No snapshots found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "ID\tLABEL\tSOURCE\tCAPTURED")
		for _, s := range snaps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Label, s.Source, s.CapturedAt.Format(time.RFC3339))
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a snapshot and its blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshotStore(appFrom(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Get(args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), snap)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "ID:\t%s\n", snap.ID)
		fmt.Fprintf(w, "Label:\t%s\n", snap.Label)
		if snap.Source != "" {
			fmt.Fprintf(w, "Source:\t%s\n", snap.Source)
		}
		fmt.Fprintf(w, "Captured:\t%s\n", snap.CapturedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Blob:\t%s\n", snap.Blob)
		return nil
	},
}

var snapshotItemsCmd = &cobra.Command{
	Use:   "items <id>",
	Short: "Decode the items of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		store, err := openSnapshotStore(a)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Get(args[0])
		if err != nil {
			return err
		}

		col, err := snap.Decode(codec.NewItemCodec(codec.WithLogger(a.logger)))
		if err != nil {
			return err
		}
		d := inventory.Decoded{Path: snap.Label, Collection: col}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), newCollectionView(d))
		}
		printCollection(cmd.OutOrStdout(), d)
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshotStore(appFrom(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotShowCmd, snapshotItemsCmd, snapshotDeleteCmd)

	addInputFlags(snapshotSaveCmd)
	snapshotSaveCmd.Flags().StringP("label", "l", "", "Label for the snapshot")
	snapshotSaveCmd.Flags().String("source", "", "Where the blob came from, e.g. a save file name")

	for _, c := range []*cobra.Command{snapshotListCmd, snapshotShowCmd, snapshotItemsCmd} {
		c.Flags().Bool("json", false, "Print output as JSON")
	}
}

// openSnapshotStore opens the store under the configured data directory
func openSnapshotStore(a *app) (*snapshot.Store, error) {
	dir := filepath.Join(a.cfg.DataDir, "snapshots")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return snapshot.Open(dir)
}

func joinSource(source, path string) string {
	if source == "" {
		return path
	}
	return source + "#" + path
}
