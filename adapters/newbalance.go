package adapters

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

const newBalanceBaseURL = "https://atmos.ph"

var newBalanceMaleSizes = []string{
	"4", "4.5", "5", "5.5", "6", "6.5", "7", "7.5",
	"8", "8.5", "9", "9.5", "10", "10.5", "11",
	"11.5", "12", "12.5", "13",
}

var newBalanceFemaleSizes = []string{
	"5", "5.5", "6", "6.5", "7", "7.5",
	"8", "8.5", "9", "9.5", "10",
}

var (
	newBalanceCategories     []string
	newBalanceCategoryConfig = map[string]types.CategoryConfig{}
)

// The atmos.ph catalog has no per-gender shoe listing, so the crawl fans
// out over size-filtered collection views plus the two gender tag filters.
// The size behind each fragment rides along as the category subtitle.
func init() {
	for _, size := range newBalanceMaleSizes {
		key := "/collections/new-balance?filter.v.option.size=US+M+" + url.QueryEscape(size)
		newBalanceCategories = append(newBalanceCategories, key)
		newBalanceCategoryConfig[key] = types.CategoryConfig{
			Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "size US M " + size,
		}
	}
	for _, size := range newBalanceFemaleSizes {
		key := "/collections/new-balance?filter.v.option.size=US+W+" + url.QueryEscape(size)
		newBalanceCategories = append(newBalanceCategories, key)
		newBalanceCategoryConfig[key] = types.CategoryConfig{
			Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "size US W " + size,
		}
	}

	mens := "/collections/new-balance?filter.p.tag=All+Mens"
	womens := "/collections/new-balance?filter.p.tag=All+Womens"
	newBalanceCategories = append(newBalanceCategories, mens, womens)
	newBalanceCategoryConfig[mens] = types.CategoryConfig{Gender: []string{"male"}, AgeGroup: "adult", SubTitle: "All Mens"}
	newBalanceCategoryConfig[womens] = types.CategoryConfig{Gender: []string{"female"}, AgeGroup: "adult", SubTitle: "All Womens"}
}

var detailSizePattern = regexp.MustCompile(`^US [MW] \d+(\.\d+)?$`)

// NewBalanceAdapter scrapes New Balance listings from the atmos.ph store.
type NewBalanceAdapter struct {
	*BaseAdapter
}

// NewNewBalanceAdapter creates the newbalance adapter.
func NewNewBalanceAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *NewBalanceAdapter {
	return &NewBalanceAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (n *NewBalanceAdapter) Brand() string { return "newbalance" }

func (n *NewBalanceAdapter) Categories() []string { return newBalanceCategories }

func (n *NewBalanceAdapter) CategoryConfig(category string) types.CategoryConfig {
	return newBalanceCategoryConfig[category]
}

func (n *NewBalanceAdapter) Pagination() types.PaginationSpec {
	// The store intermittently serves an empty grid mid-collection, so one
	// empty page is tolerated before the loop gives up.
	return types.PaginationSpec{
		StartPage: 1,
		Policy:    types.StopOnDoubleEmpty,
		DelayMin:  1500 * time.Millisecond,
		DelayMax:  1500 * time.Millisecond,
	}
}

func (n *NewBalanceAdapter) PageURL(category string, page int) string {
	return fmt.Sprintf("%s%s&page=%d", newBalanceBaseURL, category, page)
}

// ParsePage extracts ProductItem cards. Records whose sale and original
// prices are both zero are placeholder listings and are dropped here.
func (n *NewBalanceAdapter) ParsePage(ctx context.Context, body []byte, category string) ([]types.Shoe, error) {
	doc, err := n.ParseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("newbalance: parse page: %w", err)
	}

	cfg := n.CategoryConfig(category)
	var shoes []types.Shoe

	doc.Find("div.ProductItem").Each(func(i int, card *goquery.Selection) {
		shoe, err := n.parseCard(ctx, card, cfg)
		if err != nil {
			n.logger.Errorf("newbalance: card %d in %s: %v", i, category, err)
			return
		}
		if shoe.PriceSale == 0 && shoe.PriceOriginal == 0 {
			return
		}
		shoes = append(shoes, shoe)
	})

	return shoes, nil
}

func (n *NewBalanceAdapter) parseCard(ctx context.Context, card *goquery.Selection, cfg types.CategoryConfig) (types.Shoe, error) {
	link := card.Find("h2.ProductItem__Title a")
	href, _ := link.Attr("href")
	if strings.TrimSpace(href) == "" {
		return types.Shoe{}, fmt.Errorf("card missing product link")
	}

	s := types.NewShoe()
	s.ID = normalizeNewBalanceID(href)
	s.Title = strings.TrimSpace(link.Text())
	s.URL = AbsoluteURL(newBalanceBaseURL, href)
	s.Image = extractNewBalanceImage(card)

	if sale := strings.TrimSpace(card.Find("span.Price--highlight").Text()); sale != "" {
		s.PriceSale, _ = ParsePrice(sale)
	}
	s.PriceOriginal = s.PriceSale
	if orig := strings.TrimSpace(card.Find("span.Price--compareAt").Text()); orig != "" {
		s.PriceOriginal, _ = ParsePrice(orig)
	}

	s.Gender = append([]string(nil), cfg.Gender...)
	s.AgeGroup = cfg.AgeGroup
	s.Brand = "newbalance"
	s.Extra = map[string]any{"sizes": n.sizesFor(ctx, cfg, s.URL)}
	return s, nil
}

// sizesFor resolves the available-size list. Size-filtered fragments already
// know their one size; the tag-filtered fragments need a detail-page fetch.
func (n *NewBalanceAdapter) sizesFor(ctx context.Context, cfg types.CategoryConfig, productURL string) []string {
	if strings.HasPrefix(cfg.SubTitle, "size ") {
		return []string{strings.TrimPrefix(cfg.SubTitle, "size ")}
	}
	return n.fetchSizesFromDetail(ctx, productURL)
}

func (n *NewBalanceAdapter) fetchSizesFromDetail(ctx context.Context, productURL string) []string {
	body, err := n.fetcher.Get(ctx, productURL)
	if err != nil {
		n.logger.Warnf("newbalance: size lookup for %s failed: %v", productURL, err)
		return nil
	}
	doc, err := n.ParseHTML(body)
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	doc.Find("button, label").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if detailSizePattern.MatchString(text) {
			seen[text] = struct{}{}
		}
	})

	sizes := make([]string, 0, len(seen))
	for size := range seen {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// normalizeNewBalanceID keys a card by its product slug, keeping the variant
// query so colorways stay distinct.
func normalizeNewBalanceID(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return strings.TrimSpace(href)
	}
	path := strings.TrimRight(parsed.Path, "/")
	slug := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		slug = path[idx+1:]
	}
	if variant := parsed.Query().Get("variant"); variant != "" {
		return slug + "?variant=" + variant
	}
	return slug
}

// extractNewBalanceImage resolves the card image. The store templates image
// widths into src ("{width}"), so prefer that with a fixed width, then fall
// back through srcset candidates.
func extractNewBalanceImage(card *goquery.Selection) string {
	img := card.Find("img.ProductItem__Image")
	if img.Length() == 0 {
		return ""
	}

	for _, attr := range []string{"src", "data-src"} {
		if raw, ok := img.Attr(attr); ok && strings.Contains(raw, "{width}") {
			fixed := strings.ReplaceAll(raw, "{width}", "400")
			return AbsoluteURL("", fixed)
		}
	}

	srcset, ok := img.Attr("srcset")
	if !ok || srcset == "" {
		srcset, _ = img.Attr("data-srcset")
	}
	if srcset != "" {
		candidates := strings.Split(srcset, ",")
		for _, cand := range candidates {
			cand = strings.TrimSpace(cand)
			if cand == "" {
				continue
			}
			urlPart := strings.Fields(cand)[0]
			if strings.Contains(urlPart, "_400x") {
				return AbsoluteURL("", urlPart)
			}
		}
		for _, cand := range candidates {
			cand = strings.TrimSpace(cand)
			if cand != "" {
				return AbsoluteURL("", strings.Fields(cand)[0])
			}
		}
	}

	for _, attr := range []string{"src", "data-src"} {
		if raw, ok := img.Attr(attr); ok && raw != "" {
			return AbsoluteURL("", raw)
		}
	}
	return ""
}
