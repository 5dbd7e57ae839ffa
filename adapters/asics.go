package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

const (
	asicsBaseURL  = "https://www.asics.com/ph/en-ph"
	asicsPageSize = 24
)

var asicsCategoryConfig = map[string]types.CategoryConfig{
	// MEN
	"/running013":       {Gender: []string{"male"}, AgeGroup: "adult"},
	"/sportstyle013":    {Gender: []string{"male"}, AgeGroup: "adult"},
	"/indoor013":        {Gender: []string{"male"}, AgeGroup: "adult"},
	"/volleyball013":    {Gender: []string{"male"}, AgeGroup: "adult"},
	"/tennis013":        {Gender: []string{"male"}, AgeGroup: "adult"},
	"/trailrunning013":  {Gender: []string{"male"}, AgeGroup: "adult"},
	"/basketball013":    {Gender: []string{"male"}, AgeGroup: "adult"},
	"/soccer013":        {Gender: []string{"male"}, AgeGroup: "adult"},
	"/cricket013":       {Gender: []string{"male"}, AgeGroup: "adult"},
	"/others013":        {Gender: []string{"male"}, AgeGroup: "adult"},
	// WOMEN
	"/running023":       {Gender: []string{"female"}, AgeGroup: "adult"},
	"/sportstyle023":    {Gender: []string{"female"}, AgeGroup: "adult"},
	"/indoor023":        {Gender: []string{"female"}, AgeGroup: "adult"},
	"/volleyball023":    {Gender: []string{"female"}, AgeGroup: "adult"},
	"/netball023":       {Gender: []string{"female"}, AgeGroup: "adult"},
	"/tennis023":        {Gender: []string{"female"}, AgeGroup: "adult"},
	"/trailrunning023":  {Gender: []string{"female"}, AgeGroup: "adult"},
	"/basketball023":    {Gender: []string{"female"}, AgeGroup: "adult"},
	"/soccer023":        {Gender: []string{"female"}, AgeGroup: "adult"},
	// KIDS
	"/running033":        {Gender: []string{"unisex"}, AgeGroup: "youth"},
	"/kids-indoor-shoes": {Gender: []string{"unisex"}, AgeGroup: "youth"},
	"/kids-tennis-shoes": {Gender: []string{"unisex"}, AgeGroup: "youth"},
	"/casual033":         {Gender: []string{"unisex"}, AgeGroup: "youth"},
}

var asicsCategories = []string{
	"/running013", "/sportstyle013", "/indoor013", "/volleyball013", "/tennis013",
	"/trailrunning013", "/basketball013", "/soccer013", "/cricket013", "/others013",
	"/running023", "/sportstyle023", "/indoor023", "/volleyball023", "/netball023",
	"/tennis023", "/trailrunning023", "/basketball023", "/soccer023",
	"/running033", "/kids-indoor-shoes", "/kids-tennis-shoes", "/casual033",
}

// AsicsAdapter scrapes the asics.com category grid.
type AsicsAdapter struct {
	*BaseAdapter
}

// NewAsicsAdapter creates the asics adapter.
func NewAsicsAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *AsicsAdapter {
	return &AsicsAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (a *AsicsAdapter) Brand() string { return "asics" }

func (a *AsicsAdapter) Categories() []string { return asicsCategories }

func (a *AsicsAdapter) CategoryConfig(category string) types.CategoryConfig {
	return asicsCategoryConfig[category]
}

func (a *AsicsAdapter) Pagination() types.PaginationSpec {
	return types.PaginationSpec{
		StartPage: 0,
		PageSize:  asicsPageSize,
		Policy:    types.StopOnEmptyPage,
		DelayMin:  1 * time.Second,
		DelayMax:  1 * time.Second,
	}
}

func (a *AsicsAdapter) PageURL(category string, page int) string {
	return fmt.Sprintf("%s%s/?start=%d&sz=%d", asicsBaseURL, category, page*asicsPageSize, asicsPageSize)
}

// ParsePage extracts product tiles. The subtitle is one of the few fields
// asics exposes in the tile itself rather than through category config.
func (a *AsicsAdapter) ParsePage(_ context.Context, body []byte, category string) ([]types.Shoe, error) {
	doc, err := a.ParseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("asics: parse page: %w", err)
	}

	cfg := a.CategoryConfig(category)
	var shoes []types.Shoe

	doc.Find("div.product-tile").Each(func(i int, tile *goquery.Selection) {
		shoe, err := a.parseTile(tile, cfg)
		if err != nil {
			a.logger.Errorf("asics: tile %d in %s: %v", i, category, err)
			return
		}
		shoes = append(shoes, shoe)
	})

	return shoes, nil
}

func (a *AsicsAdapter) parseTile(tile *goquery.Selection, cfg types.CategoryConfig) (types.Shoe, error) {
	pid, ok := tile.Attr("data-itemid")
	if !ok || strings.TrimSpace(pid) == "" {
		return types.Shoe{}, fmt.Errorf("tile missing data-itemid")
	}

	s := types.NewShoe()
	s.ID = strings.TrimSpace(pid)
	s.Title = strings.TrimSpace(tile.Find("div.product-name").Text())
	s.SubTitle = strings.TrimSpace(tile.Find(".product-tile__text.product-tile__text--small.xx-small-reg").Text())

	if href, ok := tile.Closest("a.product-tile__link").Attr("href"); ok {
		href = strings.TrimRight(strings.TrimSpace(href), "/")
		s.URL = fmt.Sprintf("%s/%s.html", href, s.ID)
	}

	s.Image = a.extractImage(tile, s.ID)

	sale := strings.TrimSpace(tile.Find("span.price-sales").Text())
	orig := strings.TrimSpace(tile.Find("span.price-original").Text())
	if orig == "" {
		orig = strings.TrimSpace(tile.Find("span.price-standard").Text())
	}
	if orig == "" {
		orig = sale
	}
	saleVal, saleOK := ParsePrice(sale)
	origVal, _ := ParsePrice(orig)
	if !saleOK {
		saleVal = origVal
	}
	s.PriceSale = saleVal
	s.PriceOriginal = origVal

	s.Gender = append([]string(nil), cfg.Gender...)
	s.AgeGroup = cfg.AgeGroup
	s.Brand = "asics"
	return s, nil
}

// extractImage walks the tile's fallback chain: the lazy-load attribute,
// then the plain src, then the alternate-image JSON attribute, and as a
// last resort an image URL synthesized from the two-part item id. Inline
// data URIs and implausibly short strings count as placeholders.
func (a *AsicsAdapter) extractImage(tile *goquery.Selection, pid string) string {
	img := tile.Find("img.product-tile__image")
	candidate := ""

	if img.Length() > 0 {
		candidate = strings.TrimSpace(img.AttrOr("data-src-load-more", ""))
		if isPlaceholderImage(candidate) {
			candidate = strings.TrimSpace(img.AttrOr("src", ""))
			if isPlaceholderImage(candidate) {
				candidate = ""
			}
		}
		if candidate == "" {
			if alt, ok := img.Attr("data-alt-image"); ok {
				var altData struct {
					Src string `json:"src"`
				}
				if err := json.Unmarshal([]byte(alt), &altData); err == nil {
					candidate = altData.Src
				}
			}
		}
	}

	if isPlaceholderImage(candidate) {
		parts := strings.Split(pid, "-")
		if len(parts) == 2 {
			candidate = fmt.Sprintf("https://images.asics.com/is/image/asics/%s_%s_SR_RT_AJP?$productlist$", parts[0], parts[1])
		}
	}
	return candidate
}

func isPlaceholderImage(candidate string) bool {
	return candidate == "" || strings.HasPrefix(candidate, "data:") || len(candidate) < 30
}
