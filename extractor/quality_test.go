package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

func validShoe(id string) types.Shoe {
	return types.Shoe{
		ID:            id,
		Title:         "Runner",
		URL:           "https://example.com/" + id,
		Image:         "https://example.com/" + id + ".jpg",
		PriceSale:     1000,
		PriceOriginal: 1200,
		Gender:        []string{"male"},
		AgeGroup:      "adult",
		Brand:         "fake",
	}
}

func TestCheckQualityPasses(t *testing.T) {
	report := CheckQuality([]types.Shoe{validShoe("a"), validShoe("b")}, testLogger{}, nil)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Violations)
}

func TestCheckQualityFlagsNegativePrice(t *testing.T) {
	bad := validShoe("a")
	bad.PriceSale = -5

	report := CheckQuality([]types.Shoe{bad}, testLogger{}, nil)
	assert.False(t, report.Passed)
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0], "id=a")
	assert.Contains(t, report.Violations[0], "field=price_sale")
	assert.Contains(t, report.Violations[0], "negative_price")
}

func TestCheckQualityFlagsMissingFields(t *testing.T) {
	report := CheckQuality([]types.Shoe{{ID: "x", Brand: "unknown"}}, testLogger{}, nil)
	assert.False(t, report.Passed)
	// Title, URL and brand are all missing.
	assert.Len(t, report.Violations, 3)
}

func TestCheckQualityFlagsDuplicateIDs(t *testing.T) {
	report := CheckQuality([]types.Shoe{validShoe("a"), validShoe("a")}, testLogger{}, nil)
	assert.False(t, report.Passed)
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0], "duplicate_id")
}

func TestCheckQualityFlagsUnknownGender(t *testing.T) {
	bad := validShoe("a")
	bad.Gender = []string{"men"}

	report := CheckQuality([]types.Shoe{bad}, testLogger{}, nil)
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0], "unknown_gender")
}

func TestCheckQualityFlagsUncollapsedGender(t *testing.T) {
	bad := validShoe("a")
	bad.Gender = []string{"male", "female"}

	report := CheckQuality([]types.Shoe{bad}, testLogger{}, nil)
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0], "uncollapsed_gender")
}

func TestCheckQualityNeverMutatesRecords(t *testing.T) {
	bad := validShoe("a")
	bad.PriceSale = -5
	in := []types.Shoe{bad}

	_ = CheckQuality(in, testLogger{}, nil)
	assert.Equal(t, -5.0, in[0].PriceSale)
}
