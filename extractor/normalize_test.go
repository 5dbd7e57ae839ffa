package extractor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

func TestNormalizeClampsPrices(t *testing.T) {
	out := Normalize([]types.Shoe{
		{ID: "a", PriceSale: -5, PriceOriginal: math.NaN()},
		{ID: "b", PriceSale: math.Inf(1), PriceOriginal: 1999},
	})
	require.Len(t, out, 2)
	assert.Equal(t, 0.0, out[0].PriceSale)
	assert.Equal(t, 0.0, out[0].PriceOriginal)
	assert.Equal(t, 0.0, out[1].PriceSale)
	assert.Equal(t, 1999.0, out[1].PriceOriginal)
}

func TestNormalizeCollapsesGenderToUnisex(t *testing.T) {
	// The same toddler shoe shows up under both the boys and girls walks.
	out := Normalize([]types.Shoe{
		{ID: "IE001", Title: "Superstar Crib", Gender: []string{"male"}, AgeGroup: "toddlers"},
		{ID: "IE001", Title: "Superstar Crib", Gender: []string{"female"}, AgeGroup: "toddlers"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"unisex"}, out[0].Gender)
}

func TestNormalizeKeepsSingleGender(t *testing.T) {
	out := Normalize([]types.Shoe{
		{ID: "x", Gender: []string{"Male", "male"}},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"male"}, out[0].Gender)
}

func TestNormalizeKeepsPartialUnionSorted(t *testing.T) {
	// Only a full {male, female} union collapses; any other mix stays as
	// the sorted union.
	out := Normalize([]types.Shoe{
		{ID: "x", Gender: []string{"unisex"}},
		{ID: "x", Gender: []string{"male"}},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"male", "unisex"}, out[0].Gender)
}

func TestNormalizeFirstOccurrenceWins(t *testing.T) {
	out := Normalize([]types.Shoe{
		{ID: "x", Title: "First", PriceSale: 100, Gender: []string{"male"}},
		{ID: "x", Title: "Second", PriceSale: 200, Gender: []string{"male"}},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "First", out[0].Title)
	assert.Equal(t, 100.0, out[0].PriceSale)
}

func TestNormalizeUnionsSizes(t *testing.T) {
	out := Normalize([]types.Shoe{
		{ID: "nb-574", Gender: []string{"male"}, Extra: map[string]any{"sizes": []string{"8", "8.5"}}},
		{ID: "nb-574", Gender: []string{"male"}, Extra: map[string]any{"sizes": []string{"8.5", "9"}}},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"8", "8.5", "9"}, out[0].Extra["sizes"])
}

func TestNormalizeDropsMissingID(t *testing.T) {
	out := Normalize([]types.Shoe{
		{ID: "  ", Title: "ghost"},
		{ID: "real", Title: "kept"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "real", out[0].ID)
}

func TestNormalizePlaceholderImage(t *testing.T) {
	out := Normalize([]types.Shoe{{ID: "x"}})
	require.Len(t, out, 1)
	assert.Equal(t, "no_image.png", out[0].Image)
}

func TestToddlerCategoryScenario(t *testing.T) {
	// An infants category carries both genders in its static config; a card
	// with a single listed price fills both price fields upstream.
	raw := types.Shoe{
		ID:            "IE8463",
		Title:         "Superstar Crib Shoes",
		PriceSale:     2200,
		PriceOriginal: 2200,
		Gender:        []string{"male", "female"},
		AgeGroup:      "toddlers",
		Brand:         "adidas",
	}

	out := Normalize([]types.Shoe{raw})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"unisex"}, out[0].Gender)
	assert.Equal(t, "toddlers", out[0].AgeGroup)
	assert.Equal(t, out[0].PriceSale, out[0].PriceOriginal)
}

func TestNormalizePreservesOrderAndIsIdempotent(t *testing.T) {
	in := []types.Shoe{
		{ID: "c", Gender: []string{"female"}},
		{ID: "a", Gender: []string{"male"}},
		{ID: "c", Gender: []string{"female"}},
		{ID: "b", Gender: []string{"unisex"}},
	}
	once := Normalize(in)
	require.Len(t, once, 3)
	assert.Equal(t, "c", once[0].ID)
	assert.Equal(t, "a", once[1].ID)
	assert.Equal(t, "b", once[2].ID)

	twice := Normalize(once)
	assert.Equal(t, once, twice)
}
