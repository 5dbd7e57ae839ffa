package adapters

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

// StructuralError reports that a page is missing the top-level structure a
// parser depends on (an embedded JSON anchor, a required nested key). It is
// fatal for that category only, never for the whole run.
type StructuralError struct {
	Brand  string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: page structure missing: %s", e.Brand, e.Detail)
}

// BaseAdapter carries the pieces every brand adapter needs: configuration,
// logging, and a page fetcher. Site-specific adapters embed it.
type BaseAdapter struct {
	config  *types.Config
	logger  types.Logger
	fetcher utils.Fetcher
}

// NewBaseAdapter wires an adapter onto a fetcher. Tests pass a fake fetcher;
// production code passes the shared HTTP (or headless-browser) client.
func NewBaseAdapter(config *types.Config, logger types.Logger, fetcher utils.Fetcher) *BaseAdapter {
	return &BaseAdapter{
		config:  config,
		logger:  logger,
		fetcher: fetcher,
	}
}

// ParseHTML parses a fetched page body into a goquery document.
func (b *BaseAdapter) ParseHTML(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(string(body)))
}

// Fetcher exposes the adapter's page fetcher to the pagination controller.
func (b *BaseAdapter) Fetcher() utils.Fetcher { return b.fetcher }

// Logger exposes the adapter's logger.
func (b *BaseAdapter) Logger() types.Logger { return b.logger }

var priceCharPattern = regexp.MustCompile(`[^0-9.]`)

// ParsePrice strips everything but digits and the decimal separator from a
// raw price string ("₱1,234.56") and parses the remainder. The second return
// value is false when the string holds no digits at all; callers default
// such prices downstream rather than failing the record.
func ParsePrice(raw string) (float64, bool) {
	cleaned := priceCharPattern.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "." {
		return 0, false
	}
	var v float64
	if _, err := fmt.Sscanf(cleaned, "%f", &v); err != nil {
		return 0, false
	}
	return v, true
}

// dualPricePattern matches thousands-separated amounts like 1,234.00.
var dualPricePattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)

// ParseDualPrice extracts sale and original prices from a combined price
// string such as "₱1,234.00 ₱1,499.00". With two amounts the first is the
// original and the second the sale price; with one amount it fills both.
func ParseDualPrice(raw string) (sale, original float64) {
	matches := dualPricePattern.FindAllString(raw, -1)
	switch {
	case len(matches) >= 2:
		original, _ = ParsePrice(matches[0])
		sale, _ = ParsePrice(matches[1])
		return sale, original
	case len(matches) == 1:
		v, _ := ParsePrice(matches[0])
		return v, v
	default:
		return 0, 0
	}
}

// AbsoluteURL resolves a possibly relative href against a brand base URL.
// Scheme-relative URLs ("//cdn...") get https.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return base + "/" + href
	}
}
