package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/inventory"
)

// collectionView is the JSON shape of one decoded inventory
type collectionView struct {
	Path       string       `json:"path,omitempty"`
	Version    int32        `json:"version"`
	Declared   int32        `json:"declared"`
	Complete   bool         `json:"complete"`
	Items      []codec.Item `json:"items"`
	Diagnostic string       `json:"diagnostic,omitempty"`
}

func newCollectionView(d inventory.Decoded) collectionView {
	col := d.Collection
	v := collectionView{
		Path:     d.Path,
		Version:  col.Version,
		Declared: col.Declared,
		Complete: col.Complete(),
		Items:    col.Items,
	}
	if v.Items == nil {
		v.Items = []codec.Item{}
	}
	if err := col.Err(); err != nil {
		v.Diagnostic = err.Error()
	}
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// inventoryTitle names an inventory in human output
func inventoryTitle(d inventory.Decoded) string {
	if d.Path == "" {
		return "inventory"
	}
	return d.Path
}

// printCollection writes a decoded inventory as a table
func printCollection(w io.Writer, d inventory.Decoded) {
	col := d.Collection
	fmt.Fprintf(w, "%s: version %d, %d of %d items\n", inventoryTitle(d), col.Version, len(col.Items), col.Declared)

	if len(col.Items) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTACK\tDURABILITY\tPOS\tEQUIPPED\tQUALITY\tVARIANT\tCRAFTER")
		for _, it := range col.Items {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d,%d\t%s\t%d\t%d\t%s\n",
				it.Name, it.Stack, it.Durability, it.PosX, it.PosY,
				yesNo(it.Equipped), it.Quality, it.Variant, it.CrafterName)
		}
		tw.Flush()
	}

	if err := col.Err(); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

// printSummary writes the analysis of one inventory
func printSummary(w io.Writer, d inventory.Decoded, threshold float64, top int) {
	items := d.Collection.Items
	s := inventory.Summarize(items)

	fmt.Fprintf(w, "%s: %d items, %d equipped\n", inventoryTitle(d), s.Total, s.Equipped)
	if err := d.Collection.Err(); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if len(s.ByName) > 0 {
		fmt.Fprintln(tw, "\nMost common:")
		for _, nc := range s.Top(top) {
			fmt.Fprintf(tw, "  %s\t%d\n", nc.Name, nc.Count)
		}
	}

	if len(s.Quality) > 0 {
		fmt.Fprintln(tw, "\nQuality:")
		levels := make([]int32, 0, len(s.Quality))
		for q := range s.Quality {
			levels = append(levels, q)
		}
		sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
		for _, q := range levels {
			fmt.Fprintf(tw, "  %d\t%d\n", q, s.Quality[q])
		}
	}

	if ds := s.Durability; ds != nil {
		fmt.Fprintf(tw, "\nDurability:\t%.1f avg\t%.1f min\t%.1f max\n", ds.Average, ds.Min, ds.Max)
	}

	if len(s.Crafters) > 0 {
		fmt.Fprintln(tw, "\nCrafters:")
		names := make([]string, 0, len(s.Crafters))
		for name := range s.Crafters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(tw, "  %s\t%d\n", name, s.Crafters[name])
		}
	}

	if cats := inventory.Categorize(items, inventory.DefaultCategories); len(cats) > 0 {
		fmt.Fprintln(tw, "\nCategories:")
		for _, c := range cats {
			fmt.Fprintf(tw, "  %s\t%d\n", c.Category, len(c.Items))
		}
	}

	if damaged := inventory.Damaged(items, threshold); len(damaged) > 0 {
		fmt.Fprintf(tw, "\nDamaged (below %.0f):\n", threshold)
		for _, it := range damaged {
			fmt.Fprintf(tw, "  %s\t%.1f\n", it.Name, it.Durability)
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
