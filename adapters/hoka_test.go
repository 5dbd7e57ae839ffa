package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hokaListingHTML = `<html><body>
<div class="product" data-pid="1134270-BBLC">
  <div class="tile-product-name">Clifton 9</div>
  <a class="js-pdp-link" href="/en/ph/mens-road/clifton-9/1134270.html">Clifton 9</a>
  <img class="tile-image" src="https://dms.hoka.com/clifton9.jpg">
  <span class="sales">&#8369;7,990.00</span>
  <span class="original-price">&#8369;8,490.00</span>
</div>
<div class="product" data-pid="1127952-WHT">
  <div class="tile-product-name">Bondi 8</div>
  <a class="js-pdp-link" href="https://www.hoka.com/en/ph/mens-road/bondi-8/1127952.html">Bondi 8</a>
  <div class="image-container" data-images='{"1127952-WHT":{"default":{"medium":[{"url":"https://dms.hoka.com/bondi8-medium.jpg"}]}}}'></div>
  <span class="sales">&#8369;9,490.00</span>
</div>
<div class="product">
  <div class="tile-product-name">Orphan card</div>
</div>
</body></html>`

func TestHokaParsePage(t *testing.T) {
	h := NewHokaAdapter(testConfig(), testLogger{}, &fakeFetcher{})
	shoes, err := h.ParsePage(context.Background(), []byte(hokaListingHTML), "/mens-road")
	require.NoError(t, err)
	require.Len(t, shoes, 2, "cards without data-pid never match the selector")

	first := shoes[0]
	assert.Equal(t, "1134270-BBLC", first.ID)
	assert.Equal(t, "Clifton 9", first.Title)
	assert.Equal(t, "road", first.SubTitle)
	assert.Equal(t, "https://www.hoka.com/en/ph/mens-road/clifton-9/1134270.html", first.URL)
	assert.Equal(t, "https://dms.hoka.com/clifton9.jpg", first.Image)
	assert.InDelta(t, 7990, first.PriceSale, 0.001)
	assert.InDelta(t, 8490, first.PriceOriginal, 0.001)
	assert.Equal(t, "/mens-road", first.Extra["category"])

	// No <img>: image comes from the data-images JSON; a missing original
	// price falls back to the sale price.
	second := shoes[1]
	assert.Equal(t, "https://dms.hoka.com/bondi8-medium.jpg", second.Image)
	assert.InDelta(t, 9490, second.PriceSale, 0.001)
	assert.InDelta(t, 9490, second.PriceOriginal, 0.001)
}

func TestHokaPageURL(t *testing.T) {
	h := NewHokaAdapter(testConfig(), testLogger{}, &fakeFetcher{})
	assert.Equal(t, "https://www.hoka.com/en/ph/mens-road/", h.PageURL("/mens-road", 0))
	assert.Equal(t, "https://www.hoka.com/en/ph/mens-road/?sz=24", h.PageURL("/mens-road", 1))
	assert.Equal(t, "https://www.hoka.com/en/ph/mens-road/?sz=36", h.PageURL("/mens-road", 2))
}

func TestHokaCategoryTable(t *testing.T) {
	h := NewHokaAdapter(testConfig(), testLogger{}, &fakeFetcher{})
	cats := h.Categories()
	assert.Len(t, cats, 21)

	// Every listed category has config, and the site's path spelling is
	// preserved exactly.
	for _, cat := range cats {
		cfg := h.CategoryConfig(cat)
		assert.NotEmpty(t, cfg.Gender, cat)
		assert.NotEmpty(t, cfg.SubTitle, cat)
	}
	assert.Contains(t, cats, "/mens-trail-hiking-shoes")
	assert.Contains(t, cats, "/mens-recovery-comfort-shoes")
	assert.Contains(t, cats, "/mens-lifestyle")
	assert.Contains(t, cats, "/womens-lifestyle")

	kids := h.CategoryConfig("/kids")
	assert.Equal(t, []string{"unisex"}, kids.Gender)
	assert.Equal(t, "youth", kids.AgeGroup)
	assert.Equal(t, "kids", kids.SubTitle)

	hiking := h.CategoryConfig("/womens-trail-hiking-shoes")
	assert.Equal(t, "trail-hiking", hiking.SubTitle)
}
