package utils

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

const scraperAPIEndpoint = "http://api.scraperapi.com"

// Fetcher fetches one page body. Brand adapters and the pagination
// controller only see this contract, so tests can swap in fakes and the
// headless-browser client can stand in for the HTTP client.
type Fetcher interface {
	Get(ctx context.Context, pageURL string) ([]byte, error)
}

// FetchError reports a page request that could not be completed: either
// retries were exhausted or the response was rejected outright (non-2xx
// outside the retry policy, or an empty body).
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPClient performs page fetches with bounded retry and exponential
// backoff. When the config enables the ScraperAPI proxy, the target URL is
// passed to the proxy endpoint as a query parameter; if the proxied attempt
// chain fails, one direct chain is attempted before giving up.
type HTTPClient struct {
	client  *http.Client
	config  *types.Config
	logger  types.Logger
	metrics *Metrics
}

// NewHTTPClient creates an HTTP fetcher with a pooled transport.
func NewHTTPClient(config *types.Config, logger types.Logger, metrics *Metrics) *HTTPClient {
	client := &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client:  client,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Get fetches a page body, retrying transient failures.
func (h *HTTPClient) Get(ctx context.Context, pageURL string) ([]byte, error) {
	if h.config.UseScraperProxy && h.config.ScraperAPIKey != "" {
		body, err := h.getWithRetry(ctx, h.proxyURL(pageURL), pageURL)
		if err == nil {
			return body, nil
		}
		h.logger.Warnf("proxy fetch failed for %s, falling back to direct: %v", pageURL, err)
	}
	return h.getWithRetry(ctx, pageURL, pageURL)
}

func (h *HTTPClient) proxyURL(pageURL string) string {
	q := url.Values{}
	q.Set("api_key", h.config.ScraperAPIKey)
	q.Set("url", pageURL)
	return scraperAPIEndpoint + "?" + q.Encode()
}

func (h *HTTPClient) getWithRetry(ctx context.Context, target, pageURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			h.metrics.IncRetries()
			if err := sleepCtx(ctx, backoff(h.config.RetryBackoff, attempt)); err != nil {
				return nil, err
			}
		}

		body, retryable, err := h.getOnce(ctx, target, pageURL)
		if err == nil {
			h.metrics.IncRequest("ok")
			return body, nil
		}
		if !retryable {
			h.metrics.IncRequest("error")
			return nil, err
		}

		h.metrics.IncRequest("error")
		h.logger.Warnf("fetch %s attempt %d/%d failed: %v", pageURL, attempt+1, h.config.MaxRetries+1, err)
		lastErr = err
	}

	h.metrics.IncRequest("retry_exhausted")
	return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("all retry attempts failed: %w", lastErr)}
}

// getOnce issues a single GET. The second return value reports whether the
// failure is transient (connection error, timeout, 5xx) and worth retrying.
func (h *HTTPClient) getOnce(ctx context.Context, target, pageURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := h.client.Do(req)
	h.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("server error: status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, &FetchError{URL: pageURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, false, &FetchError{URL: pageURL, Err: fmt.Errorf("empty response body")}
	}

	h.logger.Debugf("fetched %d bytes from %s", len(body), pageURL)
	return body, false, nil
}

// backoff returns base * 2^(attempt-1) with up to 25% random jitter added.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	d := base * time.Duration(1<<(attempt-1))
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
