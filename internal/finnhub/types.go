/**
 * @description
 * Response types for the Finnhub market data API.
 *
 * @dependencies
 * - none (plain structs mirroring Finnhub's JSON payloads)
 */

package finnhub

// Quote is a point-in-time quote for a symbol.
// Finnhub returns {c, d, dp, h, l, o, pc, t}.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// SymbolMatch is a single symbol search hit.
type SymbolMatch struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}

// SearchResult wraps symbol search hits.
type SearchResult struct {
	Count  int           `json:"count"`
	Result []SymbolMatch `json:"result"`
}

// NewsItem is a single news article, shared by general and company news.
type NewsItem struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
