package finnhub

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		BaseURL:    "https://finnhub.test/api/v1",
		APIKey:     "test-key",
		HTTPClient: &http.Client{},
	}
}

func TestGetQuote(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/quote",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "AAPL", req.URL.Query().Get("symbol"))
			assert.Equal(t, "test-key", req.URL.Query().Get("token"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"c": 175.5, "d": 1.2, "dp": 0.69, "h": 176.0, "l": 173.1, "o": 174.0, "pc": 174.3, "t": 1709300000,
			})
		})

	quote, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 175.5, quote.Current)
	assert.Equal(t, 174.3, quote.PrevClose)
}

func TestGetQuoteEmptySymbol(t *testing.T) {
	client := newTestClient()
	_, err := client.GetQuote(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGetQuoteUpstreamError(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/quote",
		httpmock.NewStringResponder(http.StatusTooManyRequests, "rate limited"))

	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, apperr.ErrExternalService))
}

func TestGetQuoteTransportError(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/quote",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, apperr.ErrExternalService))
}

func TestSearch(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/search",
		httpmock.NewStringResponder(http.StatusOK, `{
			"count": 1,
			"result": [{"symbol": "AAPL", "displaySymbol": "AAPL", "description": "APPLE INC", "type": "Common Stock"}]
		}`))

	result, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, result.Result, 1)
	assert.Equal(t, "AAPL", result.Result[0].Symbol)
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	client := newTestClient()

	// No responder registered: an HTTP call would fail the test.
	result, err := client.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, result.Result)
}

func TestGetCompanyNews(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/company-news",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "AAPL", req.URL.Query().Get("symbol"))
			assert.Equal(t, "2026-08-24", req.URL.Query().Get("from"))
			return httpmock.NewStringResponse(http.StatusOK, `[
				{"id": 1, "headline": "Apple ships thing", "datetime": 1756500000, "related": "AAPL"}
			]`), nil
		})

	items, err := client.GetCompanyNews(context.Background(), "AAPL", "2026-08-24", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Apple ships thing", items[0].Headline)
}

func TestGetGeneralNewsDefaultsCategory(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://finnhub.test/api/v1/news",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "general", req.URL.Query().Get("category"))
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	items, err := client.GetGeneralNews(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)
}
