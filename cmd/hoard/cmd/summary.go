/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [blob]",
	Short: "Summarise an inventory",
	Long: `Decode an inventory and print counts by name, quality levels, durability,
crafters, categories and damaged items.

Examples:
  hoard summary --file inventory.txt
  hoard summary --save --file world.json --threshold 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		decoded, err := loadInventories(cmd, args, a)
		if err != nil {
			return err
		}

		threshold := a.cfg.Decode.DamageThreshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		top, _ := cmd.Flags().GetInt("top")

		out := cmd.OutOrStdout()
		for i, d := range decoded {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printSummary(out, d, threshold, top)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addInputFlags(summaryCmd)
	summaryCmd.Flags().Float64("threshold", 50, "Durability below which items are reported as damaged (default from config)")
	summaryCmd.Flags().Int("top", 10, "Number of item names to list")
}
