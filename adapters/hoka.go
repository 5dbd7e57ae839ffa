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
	hokaOrigin   = "https://www.hoka.com"
	hokaBaseURL  = hokaOrigin + "/en/ph"
	hokaPageSize = 12
)

var hokaCategoryConfig = map[string]types.CategoryConfig{
	"/mens-road":                   {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "road"},
	"/mens-trail":                  {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "trail"},
	"/mens-trail-hiking-shoes":     {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "trail-hiking"},
	"/mens-walking":                {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "walking"},
	"/mens-fitness":                {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "fitness"},
	"/mens-recovery-comfort-shoes": {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "recovery-comfort"},
	"/mens-stability-shoes":        {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "stability"},
	"/mens-wides":                  {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "wides"},
	"/mens-sandals":                {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "sandals"},
	"/mens-lifestyle":              {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "lifestyle"},

	"/womens-road":                   {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "road"},
	"/womens-trail":                  {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "trail"},
	"/womens-trail-hiking-shoes":     {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "trail-hiking"},
	"/womens-walking":                {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "walking"},
	"/womens-fitness":                {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "fitness"},
	"/womens-recovery-comfort-shoes": {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "recovery-comfort"},
	"/womens-stability-shoes":        {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "stability"},
	"/womens-wides":                  {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "wides"},
	"/womens-sandals":                {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "sandals"},
	"/womens-lifestyle":              {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "lifestyle"},

	"/kids": {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "kids"},
}

var hokaCategories = []string{
	"/mens-road", "/mens-trail", "/mens-trail-hiking-shoes", "/mens-walking",
	"/mens-fitness", "/mens-recovery-comfort-shoes", "/mens-stability-shoes",
	"/mens-wides", "/mens-sandals", "/mens-lifestyle",
	"/womens-road", "/womens-trail", "/womens-trail-hiking-shoes", "/womens-walking",
	"/womens-fitness", "/womens-recovery-comfort-shoes", "/womens-stability-shoes",
	"/womens-wides", "/womens-sandals", "/womens-lifestyle",
	"/kids",
}

// HokaAdapter scrapes hoka.com category listings. The site has no page
// parameter; ?sz= grows the single listing, so pagination stops once the
// returned product count stabilizes.
type HokaAdapter struct {
	*BaseAdapter
}

func NewHokaAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *HokaAdapter {
	return &HokaAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (h *HokaAdapter) Brand() string { return "hoka" }

func (h *HokaAdapter) Categories() []string { return hokaCategories }

func (h *HokaAdapter) CategoryConfig(category string) types.CategoryConfig {
	return hokaCategoryConfig[category]
}

func (h *HokaAdapter) Pagination() types.PaginationSpec {
	return types.PaginationSpec{
		StartPage: 0,
		PageSize:  hokaPageSize,
		Policy:    types.StopOnStableCount,
		DelayMin:  500 * time.Millisecond,
		DelayMax:  500 * time.Millisecond,
	}
}

func (h *HokaAdapter) PageURL(category string, page int) string {
	if page == 0 {
		return hokaBaseURL + category + "/"
	}
	return fmt.Sprintf("%s%s/?sz=%d", hokaBaseURL, category, (page+1)*hokaPageSize)
}

func (h *HokaAdapter) ParsePage(_ context.Context, body []byte, category string) ([]types.Shoe, error) {
	doc, err := h.ParseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("hoka: parse page: %w", err)
	}

	cfg := h.CategoryConfig(category)
	var shoes []types.Shoe

	doc.Find("div.product[data-pid]").Each(func(i int, card *goquery.Selection) {
		shoe, err := h.parseCard(card, cfg, category)
		if err != nil {
			h.logger.Errorf("hoka: card %d in %s: %v", i, category, err)
			return
		}
		shoes = append(shoes, shoe)
	})

	return shoes, nil
}

func (h *HokaAdapter) parseCard(card *goquery.Selection, cfg types.CategoryConfig, category string) (types.Shoe, error) {
	pid, ok := card.Attr("data-pid")
	if !ok || strings.TrimSpace(pid) == "" {
		return types.Shoe{}, fmt.Errorf("card missing data-pid")
	}

	s := types.NewShoe()
	s.ID = strings.TrimSpace(pid)
	s.Title = strings.TrimSpace(card.Find("div.tile-product-name").Text())
	s.SubTitle = cfg.SubTitle

	if href, ok := card.Find("a.js-pdp-link").First().Attr("href"); ok {
		s.URL = AbsoluteURL(hokaOrigin, strings.TrimSpace(href))
	}

	s.Image = h.extractImage(card)

	sale := strings.TrimSpace(card.Find("span.sales").First().Text())
	orig := strings.TrimSpace(card.Find("span.original-price").First().Text())
	saleVal, _ := ParsePrice(sale)
	origVal, origOK := ParsePrice(orig)
	if !origOK {
		origVal = saleVal
	}
	s.PriceSale = saleVal
	s.PriceOriginal = origVal

	s.Gender = append([]string(nil), cfg.Gender...)
	s.AgeGroup = cfg.AgeGroup
	s.Brand = "hoka"
	s.Extra = map[string]any{"category": category}
	return s, nil
}

// extractImage prefers the tile <img> src, falling back to the first
// default/medium rendition inside the image container's data-images JSON.
func (h *HokaAdapter) extractImage(card *goquery.Selection) string {
	if src, ok := card.Find("img.tile-image").First().Attr("src"); ok {
		if src = strings.TrimSpace(src); src != "" && !strings.HasPrefix(src, "data:") {
			return src
		}
	}

	raw, ok := card.Find("div.image-container").First().Attr("data-images")
	if !ok {
		return ""
	}
	var images map[string]struct {
		Default struct {
			Medium []struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"default"`
	}
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return ""
	}
	for _, entry := range images {
		if len(entry.Default.Medium) > 0 && entry.Default.Medium[0].URL != "" {
			return entry.Default.Medium[0].URL
		}
	}
	return ""
}
