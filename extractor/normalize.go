package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

const imagePlaceholder = "no_image.png"

// Normalize cleans and deduplicates raw brand records:
//
//   - records without an id are dropped
//   - prices are clamped to non-negative finite values
//   - gender values are lowercased and deduplicated; a record seen as
//     both male and female collapses to unisex
//   - records sharing an id merge into one, first occurrence winning
//     scalar fields; genders union and list-valued "sizes" extras union
//   - an empty image becomes a stable placeholder
//
// Output preserves first-seen order and the pass is idempotent.
func Normalize(shoes []types.Shoe) []types.Shoe {
	var order []string
	byID := make(map[string]*types.Shoe)
	genders := make(map[string]map[string]bool)

	for _, s := range shoes {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			continue
		}
		s.ID = id
		s.PriceSale = clampPrice(s.PriceSale)
		s.PriceOriginal = clampPrice(s.PriceOriginal)
		if s.Image == "" {
			s.Image = imagePlaceholder
		}

		existing, seen := byID[id]
		if !seen {
			copied := s
			byID[id] = &copied
			order = append(order, id)
			genders[id] = make(map[string]bool)
		} else {
			mergeSizes(existing, s.Extra)
		}
		for _, g := range s.Gender {
			g = strings.ToLower(strings.TrimSpace(g))
			if g != "" {
				genders[id][g] = true
			}
		}
	}

	out := make([]types.Shoe, 0, len(order))
	for _, id := range order {
		s := byID[id]
		s.Gender = collapseGender(genders[id])
		out = append(out, *s)
	}
	return out
}

func clampPrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// collapseGender turns a gender set into the canonical slice. A record
// tagged with both binary genders is a unisex product listed under two
// categories, not two products; any other union stays as-is, sorted.
func collapseGender(set map[string]bool) []string {
	if set["male"] && set["female"] {
		return []string{"unisex"}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// mergeSizes unions the list-valued "sizes" extra from a duplicate record
// into the record that won the merge.
func mergeSizes(dst *types.Shoe, extra map[string]any) {
	add := toStringList(extra["sizes"])
	if len(add) == 0 {
		return
	}
	have := toStringList(nil)
	if dst.Extra != nil {
		have = toStringList(dst.Extra["sizes"])
	}
	seen := make(map[string]bool, len(have))
	for _, s := range have {
		seen[s] = true
	}
	for _, s := range add {
		if !seen[s] {
			have = append(have, s)
			seen[s] = true
		}
	}
	if dst.Extra == nil {
		dst.Extra = map[string]any{}
	}
	dst.Extra["sizes"] = have
}

func toStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
