package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

const (
	adidasBaseURL  = "https://www.adidas.com.ph"
	adidasPageSize = 48
)

// adidasCategoryConfig maps taxonomy keys to static record metadata.
// Infants carry both genders on purpose; the normalizer collapses the
// union to unisex.
var adidasCategoryConfig = map[string]types.CategoryConfig{
	"men-shoes":     {Gender: []string{"male"}, AgeGroup: "adult"},
	"women-shoes":   {Gender: []string{"female"}, AgeGroup: "adult"},
	"boys-shoes":    {Gender: []string{"male"}, AgeGroup: "youth"},
	"girls-shoes":   {Gender: []string{"female"}, AgeGroup: "youth"},
	"infants-shoes": {Gender: []string{"male", "female"}, AgeGroup: "toddlers"},
}

var adidasCategories = []string{
	"men-shoes", "women-shoes", "boys-shoes", "girls-shoes", "infants-shoes",
}

// AdidasAdapter extracts from the adidas PLP JSON API.
type AdidasAdapter struct {
	*BaseAdapter
}

// NewAdidasAdapter creates the adidas adapter.
func NewAdidasAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *AdidasAdapter {
	return &AdidasAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (a *AdidasAdapter) Brand() string { return "adidas" }

func (a *AdidasAdapter) Categories() []string { return adidasCategories }

func (a *AdidasAdapter) CategoryConfig(category string) types.CategoryConfig {
	return adidasCategoryConfig[category]
}

func (a *AdidasAdapter) Pagination() types.PaginationSpec {
	return types.PaginationSpec{
		StartPage: 0,
		PageSize:  adidasPageSize,
		Policy:    types.StopOnShortPage,
		DelayMin:  1 * time.Second,
		DelayMax:  3 * time.Second,
	}
}

// taxonomyTerm rewrites the public category key into the originals taxonomy
// the PLP API actually serves.
func taxonomyTerm(category string) string {
	if strings.HasSuffix(category, "-originals-shoes") {
		return category
	}
	if strings.HasSuffix(category, "-shoes") {
		return strings.TrimSuffix(category, "-shoes") + "-originals-shoes"
	}
	return category + "-originals-shoes"
}

// PageURL builds the API URL for one page; the first page carries no start
// parameter.
func (a *AdidasAdapter) PageURL(category string, page int) string {
	base := fmt.Sprintf("%s/plp-app/api/taxonomy/%s", adidasBaseURL, taxonomyTerm(category))
	start := page * adidasPageSize
	if start == 0 {
		return base
	}
	return fmt.Sprintf("%s?start=%d", base, start)
}

type adidasProduct struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SubTitle  string `json:"subTitle"`
	URL       string `json:"url"`
	Image     string `json:"image"`
	PriceData struct {
		Price     float64 `json:"price"`
		SalePrice float64 `json:"salePrice"`
	} `json:"priceData"`
}

// ParsePage decodes one API response. The endpoint answers either a bare
// product array or an object wrapping it under "products".
func (a *AdidasAdapter) ParsePage(_ context.Context, body []byte, category string) ([]types.Shoe, error) {
	var items []adidasProduct
	if err := json.Unmarshal(body, &items); err != nil {
		var wrapper struct {
			Products []adidasProduct `json:"products"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, &StructuralError{Brand: "adidas", Detail: fmt.Sprintf("unexpected API response shape: %v", err)}
		}
		items = wrapper.Products
	}

	cfg := a.CategoryConfig(category)
	shoes := make([]types.Shoe, 0, len(items))
	for _, p := range items {
		s := types.NewShoe()
		s.ID = p.ID
		s.Title = p.Title
		s.SubTitle = p.SubTitle
		s.URL = AbsoluteURL(adidasBaseURL, p.URL)
		s.Image = p.Image
		s.PriceSale = p.PriceData.SalePrice
		s.PriceOriginal = p.PriceData.Price
		if s.PriceSale == 0 {
			s.PriceSale = s.PriceOriginal
		}
		if s.PriceOriginal == 0 {
			s.PriceOriginal = s.PriceSale
		}
		s.Gender = append([]string(nil), cfg.Gender...)
		s.AgeGroup = cfg.AgeGroup
		s.Brand = "adidas"
		shoes = append(shoes, s)
	}
	return shoes, nil
}
