package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdidas() *AdidasAdapter {
	return NewAdidasAdapter(testConfig(), testLogger{}, &fakeFetcher{})
}

func TestAdidasPageURL(t *testing.T) {
	a := newTestAdidas()

	assert.Equal(t,
		"https://www.adidas.com.ph/plp-app/api/taxonomy/men-originals-shoes",
		a.PageURL("men-shoes", 0))
	assert.Equal(t,
		"https://www.adidas.com.ph/plp-app/api/taxonomy/men-originals-shoes?start=48",
		a.PageURL("men-shoes", 1))
	assert.Equal(t,
		"https://www.adidas.com.ph/plp-app/api/taxonomy/women-originals-shoes?start=96",
		a.PageURL("women-shoes", 2))
}

func TestAdidasParsePageArray(t *testing.T) {
	body := []byte(`[
		{"id":"JQ1234","title":"Samba OG","subTitle":"Originals","url":"/samba-og/JQ1234.html",
		 "image":"https://assets.adidas.com/samba.jpg",
		 "priceData":{"price":6500,"salePrice":4550}},
		{"id":"IG5678","title":"Gazelle","subTitle":"Originals","url":"https://www.adidas.com.ph/gazelle/IG5678.html",
		 "image":"https://assets.adidas.com/gazelle.jpg",
		 "priceData":{"price":6000}}
	]`)

	a := newTestAdidas()
	shoes, err := a.ParsePage(context.Background(), body, "men-shoes")
	require.NoError(t, err)
	require.Len(t, shoes, 2)

	assert.Equal(t, "JQ1234", shoes[0].ID)
	assert.Equal(t, "Samba OG", shoes[0].Title)
	assert.Equal(t, "https://www.adidas.com.ph/samba-og/JQ1234.html", shoes[0].URL)
	assert.InDelta(t, 4550, shoes[0].PriceSale, 0.001)
	assert.InDelta(t, 6500, shoes[0].PriceOriginal, 0.001)
	assert.Equal(t, []string{"male"}, shoes[0].Gender)
	assert.Equal(t, "adult", shoes[0].AgeGroup)
	assert.Equal(t, "adidas", shoes[0].Brand)

	// No sale price: sale falls back to the list price.
	assert.InDelta(t, 6000, shoes[1].PriceSale, 0.001)
	assert.InDelta(t, 6000, shoes[1].PriceOriginal, 0.001)
}

func TestAdidasParsePageWrappedObject(t *testing.T) {
	body := []byte(`{"products":[{"id":"ID9012","title":"Superstar","priceData":{"price":5800,"salePrice":5800}}]}`)

	a := newTestAdidas()
	shoes, err := a.ParsePage(context.Background(), body, "infants-shoes")
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, []string{"male", "female"}, shoes[0].Gender)
	assert.Equal(t, "toddlers", shoes[0].AgeGroup)
}

func TestAdidasParsePageBadShape(t *testing.T) {
	a := newTestAdidas()
	_, err := a.ParsePage(context.Background(), []byte(`<html>not json</html>`), "men-shoes")
	require.Error(t, err)
	var structural *StructuralError
	assert.ErrorAs(t, err, &structural)
}
