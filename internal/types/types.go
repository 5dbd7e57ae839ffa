package types

import "time"

// Shoe is the canonical product record every brand extractor emits.
// Brand-specific metadata that does not fit the canonical shape goes
// into Extra; it is nil when a brand has nothing to add.
type Shoe struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	SubTitle      string         `json:"subTitle"`
	URL           string         `json:"url"`
	Image         string         `json:"image"`
	PriceSale     float64        `json:"price_sale"`
	PriceOriginal float64        `json:"price_original"`
	Gender        []string       `json:"gender"`
	AgeGroup      string         `json:"age_group"`
	Brand         string         `json:"brand"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// NewShoe returns a record with the canonical defaults applied. Bad or
// missing scraped data never fails construction; fields are defaulted
// here and cleaned up later by the normalizer.
func NewShoe() Shoe {
	return Shoe{
		Gender:   []string{},
		AgeGroup: "adult",
		Brand:    "unknown",
	}
}

// CategoryConfig is the static per-category metadata merged into every
// record parsed from that category's pages. These values are never
// parsed from markup.
type CategoryConfig struct {
	Gender   []string
	AgeGroup string
	SubTitle string
}

// CategoryResult is the outcome of crawling one category path. A failed
// category keeps whatever items were collected before the failure.
type CategoryResult struct {
	Category string
	Shoes    []Shoe
	Err      error
}

// StopPolicy selects how a category's pagination loop decides it has
// reached the last page.
type StopPolicy int

const (
	// StopOnEmptyPage stops as soon as a page parses to zero items.
	StopOnEmptyPage StopPolicy = iota
	// StopOnShortPage stops after a page with fewer items than the page
	// size; that page is still included.
	StopOnShortPage
	// StopOnDoubleEmpty tolerates one anomalous empty page and stops only
	// after two empties in a row.
	StopOnDoubleEmpty
	// StopOnStableCount grows a show-N parameter instead of paging; each
	// batch replaces the previous one and the loop stops when the item
	// count stops growing.
	StopOnStableCount
)

// PaginationSpec describes one brand's crawl shape: where pages start,
// how many items a full page holds, when to stop, and how long to idle
// between requests.
type PaginationSpec struct {
	StartPage int
	PageSize  int
	Policy    StopPolicy
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// Config holds the shared extraction configuration.
type Config struct {
	RequestTimeout     time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	MaxConcurrentCats  int
	UseScraperProxy    bool
	ScraperAPIKey      string
	UseHeadlessBrowser bool
	UserAgent          string
	OutputDir          string
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:    30 * time.Second,
		MaxRetries:        3,
		RetryBackoff:      1 * time.Second,
		MaxConcurrentCats: 3,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		OutputDir:         ".data",
	}
}

// Logger defines the logging interface used throughout the pipeline.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
