package extractor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/adapters"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

// SiteAdapter is the contract every brand adapter satisfies.
type SiteAdapter interface {
	Brand() string
	Categories() []string
	CategoryConfig(category string) types.CategoryConfig
	Fetcher() utils.Fetcher
	Logger() types.Logger
}

// PagedAdapter is a site whose listings are addressed by a page number
// (or an offset derived from one). The pagination controller drives the
// fetch loop and the adapter only builds URLs and parses bodies.
type PagedAdapter interface {
	SiteAdapter
	Pagination() types.PaginationSpec
	PageURL(category string, page int) string
	ParsePage(ctx context.Context, body []byte, category string) ([]types.Shoe, error)
}

// CrawlAdapter is a site that walks opaque continuation links instead of
// numbered pages; it owns its whole category loop.
type CrawlAdapter interface {
	SiteAdapter
	CrawlCategory(ctx context.Context, category string, numPages int) ([]types.Shoe, error)
}

// PageCounter is an optional PagedAdapter extension for sites that print
// the total page count on the first page.
type PageCounter interface {
	TotalPages(body []byte) int
}

// AdapterConstructor builds a brand adapter on shared plumbing.
type AdapterConstructor func(config *types.Config, logger types.Logger, fetcher utils.Fetcher) SiteAdapter

var registry = map[string]AdapterConstructor{
	"adidas": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewAdidasAdapter(c, l, f)
	},
	"nike": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewNikeAdapter(c, l, f)
	},
	"worldbalance": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewWorldBalanceAdapter(c, l, f)
	},
	"newbalance": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewNewBalanceAdapter(c, l, f)
	},
	"asics": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewAsicsAdapter(c, l, f)
	},
	"hoka": func(c *types.Config, l types.Logger, f utils.Fetcher) SiteAdapter {
		return adapters.NewHokaAdapter(c, l, f)
	},
}

// SupportedBrands lists the registered brand names.
func SupportedBrands() []string {
	brands := make([]string, 0, len(registry))
	for brand := range registry {
		brands = append(brands, brand)
	}
	return brands
}

// NewAdapter resolves a brand name (case-insensitive) to a constructed
// adapter, or reports that the brand is not implemented.
func NewAdapter(brand string, config *types.Config, logger types.Logger, fetcher utils.Fetcher) (SiteAdapter, error) {
	construct, ok := registry[strings.ToLower(strings.TrimSpace(brand))]
	if !ok {
		return nil, fmt.Errorf("Brand '%s' not implemented.", brand)
	}
	return construct(config, logger, fetcher), nil
}

// Extractor runs a brand's categories through the pagination controller,
// merges the per-category results, normalizes the records and reports on
// their quality.
type Extractor struct {
	config  *types.Config
	logger  types.Logger
	fetcher utils.Fetcher
	metrics *utils.Metrics
}

func New(config *types.Config, logger types.Logger, fetcher utils.Fetcher, metrics *utils.Metrics) *Extractor {
	return &Extractor{
		config:  config,
		logger:  logger,
		fetcher: fetcher,
		metrics: metrics,
	}
}

// Run extracts one brand. Category "all" (or "") fans out over the
// brand's whole category table; numPages <= 0 means no page cap. A
// category that fails keeps its partial results and does not abort its
// siblings; Run returns the first category error alongside whatever was
// collected.
func (e *Extractor) Run(ctx context.Context, brand, category string, numPages int) ([]types.Shoe, *QualityReport, error) {
	adapter, err := NewAdapter(brand, e.config, e.logger, e.fetcher)
	if err != nil {
		return nil, nil, err
	}

	categories := e.resolveCategories(adapter, category)
	e.logger.Infof("%s: extracting %d categories (pages=%d)", adapter.Brand(), len(categories), numPages)

	results := make([]types.CategoryResult, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.MaxConcurrentCats)
	for i, cat := range categories {
		i, cat := i, cat
		g.Go(func() error {
			shoes, err := e.extractCategory(gctx, adapter, cat, numPages)
			results[i] = types.CategoryResult{Category: cat, Shoes: shoes, Err: err}
			if err != nil {
				e.logger.Errorf("%s: category %s failed after %d items: %v", adapter.Brand(), cat, len(shoes), err)
			}
			return nil
		})
	}
	// The workers never return errors; partial failures live in results.
	_ = g.Wait()

	var merged []types.Shoe
	var firstErr error
	for _, r := range results {
		merged = append(merged, r.Shoes...)
		if firstErr == nil && r.Err != nil {
			firstErr = fmt.Errorf("category %s: %w", r.Category, r.Err)
		}
	}

	e.metrics.AddItems(adapter.Brand(), len(merged))

	normalized := Normalize(merged)
	report := CheckQuality(normalized, e.logger, e.metrics)
	e.logger.Infof("%s: %d raw records, %d after normalization, quality passed=%t",
		adapter.Brand(), len(merged), len(normalized), report.Passed)

	return normalized, report, firstErr
}

func (e *Extractor) resolveCategories(adapter SiteAdapter, category string) []string {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return adapter.Categories()
	}
	return []string{category}
}

func (e *Extractor) extractCategory(ctx context.Context, adapter SiteAdapter, category string, numPages int) ([]types.Shoe, error) {
	if crawler, ok := adapter.(CrawlAdapter); ok {
		return crawler.CrawlCategory(ctx, category, numPages)
	}
	paged, ok := adapter.(PagedAdapter)
	if !ok {
		return nil, fmt.Errorf("%s: adapter supports neither paging nor crawling", adapter.Brand())
	}
	return NewPaginator(paged).Run(ctx, category, numPages)
}
