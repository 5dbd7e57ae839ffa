package adapters

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

const (
	worldBalanceBaseURL        = "https://worldbalance.com.ph"
	worldBalanceCollectionPath = "/collections"
)

var worldBalanceCategoryConfig = map[string]types.CategoryConfig{
	"/performance":            {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "performance"},
	"/lifestyle-m":            {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "lifestyle"},
	"/athleisure-m":           {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "athleisure"},
	"/classic-men-shoes":      {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "classic-shoes"},
	"/slipper-m":              {Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "slipper"},
	"/performance-l":          {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "performance"},
	"/lifestyle-l":            {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "lifestyle"},
	"/classic-women-shoes":    {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "classic-shoes"},
	"/slippers-l":             {Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "slipper"},
	"/performance-kids":       {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "performance"},
	"/lifestyle-kids":         {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "lifestyle"},
	"/classic-children-shoes": {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "classic-shoes"},
	"/slippers-kids":          {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "slipper"},
	"/pe":                     {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "pe"},
	"/athleisure-kids":        {Gender: []string{"unisex"}, AgeGroup: "youth", SubTitle: "athleisure"},
}

var worldBalanceCategories = []string{
	"/performance", "/lifestyle-m", "/athleisure-m", "/classic-men-shoes", "/slipper-m",
	"/performance-l", "/lifestyle-l", "/classic-women-shoes", "/slippers-l",
	"/performance-kids", "/lifestyle-kids", "/classic-children-shoes", "/slippers-kids",
	"/pe", "/athleisure-kids",
}

// WorldBalanceAdapter scrapes the World Balance Shopify collection pages.
type WorldBalanceAdapter struct {
	*BaseAdapter
}

// NewWorldBalanceAdapter creates the worldbalance adapter.
func NewWorldBalanceAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *WorldBalanceAdapter {
	return &WorldBalanceAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (w *WorldBalanceAdapter) Brand() string { return "worldbalance" }

func (w *WorldBalanceAdapter) Categories() []string { return worldBalanceCategories }

func (w *WorldBalanceAdapter) CategoryConfig(category string) types.CategoryConfig {
	return worldBalanceCategoryConfig[category]
}

func (w *WorldBalanceAdapter) Pagination() types.PaginationSpec {
	return types.PaginationSpec{
		StartPage: 1,
		Policy:    types.StopOnEmptyPage,
		DelayMin:  1 * time.Second,
		DelayMax:  2 * time.Second,
	}
}

func (w *WorldBalanceAdapter) PageURL(category string, page int) string {
	return fmt.Sprintf("%s%s%s?page=%d", worldBalanceBaseURL, worldBalanceCollectionPath, category, page)
}

// TotalPages reads the highest page number from the collection's pagination
// links; 1 when the collection has a single page.
func (w *WorldBalanceAdapter) TotalPages(body []byte) int {
	doc, err := w.ParseHTML(body)
	if err != nil {
		return 1
	}
	max := 1
	doc.Find("div.pagination a").Each(func(_ int, sel *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(sel.Text())); err == nil && n > max {
			max = n
		}
	})
	return max
}

// ParsePage extracts product cards from one collection page. A malformed
// card is logged and skipped without affecting its siblings.
func (w *WorldBalanceAdapter) ParsePage(_ context.Context, body []byte, category string) ([]types.Shoe, error) {
	doc, err := w.ParseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("worldbalance: parse page: %w", err)
	}

	cfg := w.CategoryConfig(category)
	var shoes []types.Shoe

	cards := doc.Find("div.grid__item[data-product-id]")
	w.logger.Debugf("worldbalance: found %d cards in %s", cards.Length(), category)

	cards.Each(func(i int, card *goquery.Selection) {
		shoe, err := w.parseCard(card, cfg)
		if err != nil {
			w.logger.Errorf("worldbalance: card %d in %s: %v", i, category, err)
			return
		}
		shoes = append(shoes, shoe)
	})

	return shoes, nil
}

func (w *WorldBalanceAdapter) parseCard(card *goquery.Selection, cfg types.CategoryConfig) (types.Shoe, error) {
	pid, ok := card.Attr("data-product-id")
	if !ok || strings.TrimSpace(pid) == "" {
		return types.Shoe{}, fmt.Errorf("card missing data-product-id")
	}

	s := types.NewShoe()
	s.ID = strings.TrimSpace(pid)
	s.Title = strings.TrimSpace(card.Find("div.grid-product__title").Text())
	s.SubTitle = cfg.SubTitle

	if href, ok := card.Find("a.grid-product__link").Attr("href"); ok {
		s.URL = AbsoluteURL(worldBalanceBaseURL, href)
	}
	if src, ok := card.Find("img.grid-product__image").Attr("src"); ok {
		s.Image = AbsoluteURL(worldBalanceBaseURL, src)
	}

	raw := strings.TrimSpace(card.Find("div.grid-product__price").Text())
	s.PriceSale, s.PriceOriginal = ParseDualPrice(raw)

	s.Gender = append([]string(nil), cfg.Gender...)
	s.AgeGroup = cfg.AgeGroup
	s.Brand = "worldbalance"
	return s, nil
}
