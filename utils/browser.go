package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

// BrowserClient fetches pages through a headless browser. It satisfies the
// same Fetcher contract as HTTPClient and is selected by configuration for
// category pages that only render their product grid client-side.
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a headless-browser fetcher.
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	// chromedp logs through the stdlib logger; keep it quiet.
	log.SetOutput(io.Discard)

	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

// Get navigates to the page, waits briefly for dynamic content, and returns
// the rendered document.
func (b *BrowserClient) Get(ctx context.Context, pageURL string) ([]byte, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.config.RequestTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("render page: %w", err)}
	}

	b.logger.Debugf("rendered %d bytes from %s", len(html), pageURL)
	return []byte(html), nil
}
