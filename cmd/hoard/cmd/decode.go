/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [blob]",
	Short: "Decode an inventory blob",
	Long: `Decode a base64 inventory blob and print its items.

The blob is taken from the argument, from --file, or from stdin. With --save
the input is a save JSON export and every blob found under the configured
keys is decoded.

Records after a malformed one are not decoded; the items read before it are
still printed together with a warning. Use --strict to fail instead.

Examples:
  hoard decode AQAAAAEAAAAEV29vZDIAAAAAAMhC...
  hoard decode --file inventory.txt --json
  hoard decode --save --file world.json --keys inventory,chest`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		decoded, err := loadInventories(cmd, args, a)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		if asJSON {
			views := make([]collectionView, 0, len(decoded))
			for _, d := range decoded {
				views = append(views, newCollectionView(d))
			}
			if err := writeJSON(out, views); err != nil {
				return err
			}
		} else {
			for i, d := range decoded {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printCollection(out, d)
			}
		}

		strict, _ := cmd.Flags().GetBool("strict")
		if strict || a.cfg.Decode.Strict {
			for _, d := range decoded {
				if err := d.Collection.Err(); err != nil {
					return fmt.Errorf("%s decoded partially: %w", inventoryTitle(d), err)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	addInputFlags(decodeCmd)
	decodeCmd.Flags().Bool("json", false, "Print decoded items as JSON")
	decodeCmd.Flags().Bool("strict", false, "Exit with an error when a blob decodes only partially")
}
