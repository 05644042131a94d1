package inventory

import (
	"sort"
	"strings"

	"github.com/ssargent/hoard/pkg/codec"
)

// NameCount is the number of slots holding items of one name
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DurabilityStats summarises durability over items that have any
type DurabilityStats struct {
	Items   int     `json:"items"`
	Average float64 `json:"average"`
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
}

// Summary is an aggregate view of an inventory
type Summary struct {
	Total      int              `json:"total"`
	Equipped   int              `json:"equipped"`
	ByName     []NameCount      `json:"by_name"`
	Quality    map[int32]int    `json:"quality"`
	Durability *DurabilityStats `json:"durability,omitempty"`
	Crafters   map[string]int   `json:"crafters,omitempty"`
}

// Summarize computes counts, quality levels, durability and crafters.
// ByName is ordered by count, most frequent first, ties by name.
func Summarize(items []codec.Item) Summary {
	s := Summary{
		Total:   len(items),
		Quality: make(map[int32]int),
	}

	names := make(map[string]int)
	var (
		durSum   float64
		durStats DurabilityStats
	)

	for _, it := range items {
		if it.Equipped {
			s.Equipped++
		}
		names[it.Name]++
		s.Quality[it.Quality]++

		if it.Durability > 0 {
			if durStats.Items == 0 || it.Durability < durStats.Min {
				durStats.Min = it.Durability
			}
			if durStats.Items == 0 || it.Durability > durStats.Max {
				durStats.Max = it.Durability
			}
			durStats.Items++
			durSum += float64(it.Durability)
		}

		if it.CrafterName != "" {
			if s.Crafters == nil {
				s.Crafters = make(map[string]int)
			}
			s.Crafters[it.CrafterName]++
		}
	}

	if durStats.Items > 0 {
		durStats.Average = durSum / float64(durStats.Items)
		s.Durability = &durStats
	}

	s.ByName = make([]NameCount, 0, len(names))
	for name, n := range names {
		s.ByName = append(s.ByName, NameCount{Name: name, Count: n})
	}
	sort.Slice(s.ByName, func(i, j int) bool {
		if s.ByName[i].Count != s.ByName[j].Count {
			return s.ByName[i].Count > s.ByName[j].Count
		}
		return s.ByName[i].Name < s.ByName[j].Name
	})

	return s
}

// Top returns at most n entries of ByName
func (s Summary) Top(n int) []NameCount {
	if n < 0 || n >= len(s.ByName) {
		return s.ByName
	}
	return s.ByName[:n]
}

// Damaged returns items whose durability is above zero and below threshold,
// most damaged first.
func Damaged(items []codec.Item, threshold float64) []codec.Item {
	var out []codec.Item
	for _, it := range items {
		if it.Durability > 0 && float64(it.Durability) < threshold {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Durability < out[j].Durability
	})
	return out
}

// Equipped returns the equipped items in inventory order
func Equipped(items []codec.Item) []codec.Item {
	var out []codec.Item
	for _, it := range items {
		if it.Equipped {
			out = append(out, it)
		}
	}
	return out
}

// Category groups items whose name contains one of Keywords
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// DefaultCategories is a rough grouping by item name
var DefaultCategories = []Category{
	{Name: "Weapons", Keywords: []string{"Sword", "Axe", "Bow", "Spear", "Mace", "Knife", "Club"}},
	{Name: "Armor", Keywords: []string{"Armor", "Helmet", "Legs", "Cape"}},
	{Name: "Tools", Keywords: []string{"Pickaxe", "Hoe", "Hammer", "Cultivator"}},
	{Name: "Food", Keywords: []string{"Meat", "Fish", "Berry", "Mushroom", "Bread", "Pie"}},
	{Name: "Resources", Keywords: []string{"Wood", "Stone", "Iron", "Copper", "Tin", "Bronze"}},
}

// CategoryItems is one category with its matching items
type CategoryItems struct {
	Category string       `json:"category"`
	Items    []codec.Item `json:"items"`
}

// Categorize matches items against categories by substring.
// Categories keep their order, empty ones are omitted, and an item can land
// in more than one category.
func Categorize(items []codec.Item, categories []Category) []CategoryItems {
	var out []CategoryItems
	for _, cat := range categories {
		var matched []codec.Item
		for _, it := range items {
			if matchesAny(it.Name, cat.Keywords) {
				matched = append(matched, it)
			}
		}
		if len(matched) > 0 {
			out = append(out, CategoryItems{Category: cat.Name, Items: matched})
		}
	}
	return out
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
