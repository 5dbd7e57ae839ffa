package utils

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                 {}
func (nopLogger) Info(args ...interface{})                  {}
func (nopLogger) Warn(args ...interface{})                  {}
func (nopLogger) Error(args ...interface{})                 {}
func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Warnf(format string, args ...interface{})  {}
func (nopLogger) Errorf(format string, args ...interface{}) {}

func newTestHTTPClient(config *types.Config) *HTTPClient {
	if config == nil {
		config = types.DefaultConfig()
	}
	config.RetryBackoff = time.Millisecond
	h := NewHTTPClient(config, nopLogger{}, nil)
	httpmock.ActivateNonDefault(h.client)
	return h
}

func TestHTTPClientGetOK(t *testing.T) {
	h := newTestHTTPClient(nil)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/page",
		httpmock.NewStringResponder(200, "<html>ok</html>"))

	body, err := h.Get(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	h := newTestHTTPClient(nil)
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", "https://example.com/flaky",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(503, "unavailable"), nil
			}
			return httpmock.NewStringResponse(200, "recovered"), nil
		})

	body, err := h.Get(context.Background(), "https://example.com/flaky")
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, 3, calls)
}

func TestHTTPClientRetryExhaustion(t *testing.T) {
	h := newTestHTTPClient(nil)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/down",
		httpmock.NewStringResponder(500, "dead"))

	_, err := h.Get(context.Background(), "https://example.com/down")
	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	// Initial attempt plus MaxRetries.
	assert.Equal(t, 4, httpmock.GetTotalCallCount())
}

func TestHTTPClientDoesNotRetryClientErrors(t *testing.T) {
	h := newTestHTTPClient(nil)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/missing",
		httpmock.NewStringResponder(404, "not found"))

	_, err := h.Get(context.Background(), "https://example.com/missing")
	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.Status)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHTTPClientRejectsEmptyBody(t *testing.T) {
	h := newTestHTTPClient(nil)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/empty",
		httpmock.NewStringResponder(200, ""))

	_, err := h.Get(context.Background(), "https://example.com/empty")
	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHTTPClientProxyFallsBackToDirect(t *testing.T) {
	config := types.DefaultConfig()
	config.UseScraperProxy = true
	config.ScraperAPIKey = "test-key"
	config.MaxRetries = 0
	h := newTestHTTPClient(config)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://api.scraperapi.com",
		httpmock.NewStringResponder(403, "key rejected"))
	httpmock.RegisterResponder("GET", "https://example.com/page",
		httpmock.NewStringResponder(200, "direct"))

	body, err := h.Get(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "direct", string(body))
}
