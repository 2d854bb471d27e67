/**
 * @description
 * HTTP Client for the Finnhub market data API.
 * Fetches quotes, symbol search results and news.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - github.com/PandaBuilds/stock-league/internal/config
 *
 * @notes
 * - Every endpoint takes the API key as a `token` query parameter.
 * - Non-2xx responses surface as ErrExternalService wraps so handlers can
 *   report a generic upstream failure without leaking provider details.
 */

package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/config"
)

const (
	DefaultTimeout = 10 * time.Second
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.Finnhub.BaseURL,
		APIKey:  cfg.Finnhub.APIKey,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// GetQuote fetches a point-in-time quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	var quote Quote
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

// Search looks up symbols matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return &SearchResult{Result: []SymbolMatch{}}, nil
	}

	var result SearchResult
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &result); err != nil {
		return nil, err
	}
	if result.Result == nil {
		result.Result = []SymbolMatch{}
	}

	return &result, nil
}

// GetCompanyNews fetches news for a symbol in a date range (YYYY-MM-DD).
func (c *Client) GetCompanyNews(ctx context.Context, symbol, from, to string) ([]NewsItem, error) {
	var items []NewsItem
	err := c.get(ctx, "/company-news", url.Values{
		"symbol": {symbol},
		"from":   {from},
		"to":     {to},
	}, &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// GetGeneralNews fetches general market news.
// Category examples: 'general', 'forex', 'crypto', 'merger'.
func (c *Client) GetGeneralNews(ctx context.Context, category string) ([]NewsItem, error) {
	if category == "" {
		category = "general"
	}

	var items []NewsItem
	if err := c.get(ctx, "/news", url.Values{"category": {category}}, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}

	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	q.Set("token", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: finnhub request failed: %v", apperr.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: finnhub %s returned status %d", apperr.ErrExternalService, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: finnhub %s returned malformed payload: %v", apperr.ErrExternalService, path, err)
	}

	return nil
}
