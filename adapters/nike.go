package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

const (
	nikeSiteBase = "https://www.nike.com/ph/w"
	nikeAPIBase  = "https://api.nike.com"
)

var nikeCategoryConfig = map[string]types.CategoryConfig{
	"/mens-shoes-nik1zy7ok":         {Gender: []string{"male"}, AgeGroup: "adult"},
	"/womens-shoes-5e1x6zy7ok":      {Gender: []string{"female"}, AgeGroup: "adult"},
	"/older-kids-agibjzv4dh":        {Gender: []string{"unisex"}, AgeGroup: "youth"},
	"/little-kids-6dacezv4dh":       {Gender: []string{"unisex"}, AgeGroup: "kids"},
	"/baby-toddlers-kids-2j488zv4dh": {Gender: []string{"unisex"}, AgeGroup: "toddlers"},
}

var nikeCategories = []string{
	"/mens-shoes-nik1zy7ok",
	"/womens-shoes-5e1x6zy7ok",
	"/older-kids-agibjzv4dh",
	"/little-kids-6dacezv4dh",
	"/baby-toddlers-kids-2j488zv4dh",
}

// apparelPattern filters rows that are not shoes; the wall API mixes
// apparel and accessories into shoe categories.
var apparelPattern = regexp.MustCompile(`(?i)(sportswear|tshirt|drifit|t-shirt|cap|shorts|short|jacket|hoodie|backpack|socks|trousers|bag)`)

var anchorPattern = regexp.MustCompile(`anchor=\d+`)

// NikeAdapter walks the nike wall API. The category HTML page embeds a
// __NEXT_DATA__ state blob whose Wall section points at the lazy-load API;
// products are then gathered by following next links rather than page
// numbers, so this adapter crawls categories itself instead of going
// through the shared pagination loop.
type NikeAdapter struct {
	*BaseAdapter
}

// NewNikeAdapter creates the nike adapter.
func NewNikeAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *NikeAdapter {
	return &NikeAdapter{BaseAdapter: NewBaseAdapter(config, logger, fetcher)}
}

func (n *NikeAdapter) Brand() string { return "nike" }

func (n *NikeAdapter) Categories() []string { return nikeCategories }

func (n *NikeAdapter) CategoryConfig(category string) types.CategoryConfig {
	return nikeCategoryConfig[category]
}

type nikeWallPage struct {
	ProductGroupings []struct {
		Products []nikeProduct `json:"products"`
	} `json:"productGroupings"`
	Pages struct {
		Next string `json:"next"`
	} `json:"pages"`
}

type nikeProduct struct {
	ProductCode string `json:"productCode"`
	Copy        struct {
		Title    string `json:"title"`
		SubTitle string `json:"subTitle"`
	} `json:"copy"`
	PDPURL struct {
		URL string `json:"url"`
	} `json:"pdpUrl"`
	ColorwayImages struct {
		PortraitURL string `json:"portraitURL"`
	} `json:"colorwayImages"`
	Prices struct {
		InitialPrice float64 `json:"initialPrice"`
		CurrentPrice float64 `json:"currentPrice"`
	} `json:"prices"`
	Brand struct {
		Name string `json:"name"`
	} `json:"brand"`
	DisplayColors struct {
		ColorDescription string `json:"colorDescription"`
	} `json:"displayColors"`
	FeaturedAttributes []string `json:"featuredAttributes"`
}

// CrawlCategory fetches the category wall page, locates the lazy-load API
// stub, and follows next links until the wall is exhausted or the page cap
// is reached.
func (n *NikeAdapter) CrawlCategory(ctx context.Context, category string, numPages int) ([]types.Shoe, error) {
	body, err := n.fetcher.Get(ctx, nikeSiteBase+category)
	if err != nil {
		return nil, err
	}

	stub, err := n.wallStub(body)
	if err != nil {
		return nil, err
	}

	cfg := n.CategoryConfig(category)
	var shoes []types.Shoe
	pages := 0

	for stub != "" {
		// numPages <= 0 means unbounded, matching the shared pagination loop.
		if numPages > 0 && pages >= numPages {
			break
		}

		raw, err := n.fetcher.Get(ctx, nikeAPIBase+stub)
		if err != nil {
			return shoes, err
		}

		var wall nikeWallPage
		if err := json.Unmarshal(raw, &wall); err != nil {
			return shoes, &StructuralError{Brand: "nike", Detail: fmt.Sprintf("wall response not decodable: %v", err)}
		}

		for _, grouping := range wall.ProductGroupings {
			for _, p := range grouping.Products {
				if shoe, ok := n.buildShoe(p, cfg); ok {
					shoes = append(shoes, shoe)
				}
			}
		}

		pages++
		stub = wall.Pages.Next
		if stub != "" {
			if err := sleepJitter(ctx, 250*time.Millisecond, 750*time.Millisecond); err != nil {
				return shoes, err
			}
		}
	}

	n.logger.Infof("nike category %s yielded %d products across %d API pages", category, len(shoes), pages)
	return shoes, nil
}

// wallStub digs the lazy-load API path out of the embedded __NEXT_DATA__
// blob, resetting the anchor so the walk starts from the top of the wall.
func (n *NikeAdapter) wallStub(body []byte) (string, error) {
	doc, err := n.ParseHTML(body)
	if err != nil {
		return "", err
	}

	blob := doc.Find(`script#__NEXT_DATA__`).Text()
	if strings.TrimSpace(blob) == "" {
		return "", &StructuralError{Brand: "nike", Detail: "__NEXT_DATA__ script not found"}
	}

	var next struct {
		Props struct {
			PageProps struct {
				InitialState struct {
					Wall struct {
						PageData struct {
							Next string `json:"next"`
						} `json:"pageData"`
					} `json:"Wall"`
				} `json:"initialState"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(blob), &next); err != nil {
		return "", &StructuralError{Brand: "nike", Detail: fmt.Sprintf("__NEXT_DATA__ not decodable: %v", err)}
	}

	stub := next.Props.PageProps.InitialState.Wall.PageData.Next
	if stub == "" {
		return "", &StructuralError{Brand: "nike", Detail: "lazy-load URL missing from Wall state"}
	}
	return anchorPattern.ReplaceAllString(stub, "anchor=0"), nil
}

func (n *NikeAdapter) buildShoe(p nikeProduct, cfg types.CategoryConfig) (types.Shoe, bool) {
	if apparelPattern.MatchString(p.Copy.Title) || apparelPattern.MatchString(p.Copy.SubTitle) {
		return types.Shoe{}, false
	}

	s := types.NewShoe()
	s.ID = p.ProductCode
	s.Title = p.Copy.Title
	s.SubTitle = p.Copy.SubTitle
	s.URL = p.PDPURL.URL
	s.Image = p.ColorwayImages.PortraitURL
	s.PriceSale = p.Prices.CurrentPrice
	s.PriceOriginal = p.Prices.InitialPrice
	if s.PriceOriginal == 0 {
		s.PriceOriginal = s.PriceSale
	}
	s.Gender = append([]string(nil), cfg.Gender...)
	s.AgeGroup = cfg.AgeGroup

	s.Brand = "nike"
	if p.Brand.Name != "" {
		s.Brand = strings.ToLower(strings.TrimSpace(p.Brand.Name))
	}

	outOfStock := false
	bestSeller := false
	for _, attr := range p.FeaturedAttributes {
		if strings.Contains(attr, "OUT_OF_STOCK") {
			outOfStock = true
		}
		if strings.Contains(attr, "BEST_SELLER") {
			bestSeller = true
		}
	}
	s.Extra = map[string]any{
		"colordescription": p.DisplayColors.ColorDescription,
		"out_of_stock":     outOfStock,
		"best_seller":      bestSeller,
	}
	return s, true
}

// sleepJitter idles for a random duration in [min,max], bailing out early
// when the context is done.
func sleepJitter(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
