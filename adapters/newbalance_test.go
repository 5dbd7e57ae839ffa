package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newBalanceListingHTML = `<html><body>
<div class="ProductItem">
  <h2 class="ProductItem__Title"><a href="/products/new-balance-574?variant=41234567">New Balance 574</a></h2>
  <img class="ProductItem__Image" src="//cdn.shopify.com/files/nb574_{width}x.jpg" srcset="//cdn.shopify.com/files/nb574_200x.jpg 200w, //cdn.shopify.com/files/nb574_400x.jpg 400w">
  <span class="Price--highlight">&#8369;4,495.00</span>
  <span class="Price--compareAt">&#8369;5,295.00</span>
</div>
<div class="ProductItem">
  <h2 class="ProductItem__Title"><a href="/products/new-balance-placeholder"></a></h2>
</div>
<div class="ProductItem">
  <h2 class="ProductItem__Title"><a href="/products/new-balance-327">New Balance 327</a></h2>
  <img class="ProductItem__Image" srcset="//cdn.shopify.com/files/nb327_200x.jpg 200w, //cdn.shopify.com/files/nb327_400x.jpg 400w">
  <span class="Price--highlight">&#8369;5,695.00</span>
</div>
</body></html>`

const sizeCategory = "/collections/new-balance?filter.v.option.size=US+M+8.5"

func TestNewBalanceParsePageSizeFragment(t *testing.T) {
	n := NewNewBalanceAdapter(testConfig(), testLogger{}, &fakeFetcher{})
	shoes, err := n.ParsePage(context.Background(), []byte(newBalanceListingHTML), sizeCategory)
	require.NoError(t, err)
	require.Len(t, shoes, 2, "the priceless placeholder card must be dropped")

	first := shoes[0]
	assert.Equal(t, "new-balance-574?variant=41234567", first.ID)
	assert.Equal(t, "New Balance 574", first.Title)
	assert.Equal(t, "https://cdn.shopify.com/files/nb574_400x.jpg", first.Image)
	assert.InDelta(t, 4495, first.PriceSale, 0.001)
	assert.InDelta(t, 5295, first.PriceOriginal, 0.001)
	assert.Equal(t, []string{"US M 8.5"}, first.Extra["sizes"])
	assert.Equal(t, "newbalance", first.Brand)

	second := shoes[1]
	assert.Equal(t, "new-balance-327", second.ID)
	assert.Equal(t, "https://cdn.shopify.com/files/nb327_400x.jpg", second.Image)
	assert.InDelta(t, 5695, second.PriceSale, 0.001)
	assert.InDelta(t, 5695, second.PriceOriginal, 0.001, "original falls back to sale")
}

func TestNewBalanceSizesFromDetailPage(t *testing.T) {
	detailHTML := `<html><body>
	<label>US M 8</label>
	<button>US M 9</button>
	<button>Add to cart</button>
	<label>US M 8</label>
	</body></html>`

	card := `<html><body>
	<div class="ProductItem">
	  <h2 class="ProductItem__Title"><a href="/products/new-balance-990">New Balance 990</a></h2>
	  <span class="Price--highlight">&#8369;10,995.00</span>
	</div>
	</body></html>`

	tagCategory := "/collections/new-balance?filter.p.tag=All+Mens"
	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://atmos.ph/products/new-balance-990": []byte(detailHTML),
	}}

	n := NewNewBalanceAdapter(testConfig(), testLogger{}, fetcher)
	shoes, err := n.ParsePage(context.Background(), []byte(card), tagCategory)
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, []string{"US M 8", "US M 9"}, shoes[0].Extra["sizes"])
}

func TestNormalizeNewBalanceID(t *testing.T) {
	assert.Equal(t, "nb-574", normalizeNewBalanceID("/products/nb-574"))
	assert.Equal(t, "nb-574?variant=99", normalizeNewBalanceID("/products/nb-574/?variant=99"))
	assert.Equal(t, "nb-574", normalizeNewBalanceID("https://atmos.ph/products/nb-574"))
}

func TestNewBalanceCategoryTable(t *testing.T) {
	n := NewNewBalanceAdapter(testConfig(), testLogger{}, &fakeFetcher{})
	// 19 male sizes + 11 female sizes + the two tag filters.
	assert.Len(t, n.Categories(), 32)
	cfg := n.CategoryConfig(sizeCategory)
	assert.Equal(t, []string{"male"}, cfg.Gender)
	assert.Equal(t, "size US M 8.5", cfg.SubTitle)
}
