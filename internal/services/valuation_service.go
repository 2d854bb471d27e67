/**
 * @description
 * Valuation & refresh service. Re-fetches quotes for every symbol held in a
 * league, upserts the stock cache, recomputes each portfolio's total value and
 * records a daily history snapshot.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/finnhub
 * - github.com/PandaBuilds/stock-league/internal/store
 * - github.com/redis/go-redis/v9: price mirror + pub/sub for the SSE stream
 *
 * @notes
 * - Per-symbol fetch failures are non-fatal: the cached price stays as-is and
 *   the failure is reported back; the other symbols still refresh.
 * - Re-running on the same UTC calendar day overwrites that day's history row
 *   instead of appending, so a refresh is always safe to repeat.
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PandaBuilds/stock-league/internal/finnhub"
	"github.com/PandaBuilds/stock-league/internal/logger"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// PriceUpdateChannel carries refreshed prices to SSE subscribers.
	PriceUpdateChannel = "stocks:price_updates"

	priceMirrorTTL = 24 * time.Hour
)

// QuoteFetcher is the slice of the Finnhub client the valuation service needs.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (*finnhub.Quote, error)
}

// ValuationService refreshes prices and revalues portfolios.
type ValuationService struct {
	store  store.Store
	redis  *redis.Client
	quotes QuoteFetcher
}

// NewValuationService creates a new ValuationService.
func NewValuationService(st store.Store, rdb *redis.Client, quotes QuoteFetcher) *ValuationService {
	return &ValuationService{store: st, redis: rdb, quotes: quotes}
}

// RefreshResult reports a league refresh: which symbols updated, which failed
// and how many portfolios were revalued.
type RefreshResult struct {
	Updated    []models.Stock    `json:"updated"`
	Failed     map[string]string `json:"failed,omitempty"`
	Portfolios int               `json:"portfolios"`
}

// PriceUpdate is the pub/sub payload emitted per refreshed symbol.
type PriceUpdate struct {
	Symbol  string    `json:"symbol"`
	Price   float64   `json:"price"`
	Updated time.Time `json:"updated"`
}

// RefreshLeague re-fetches quotes for every symbol held in the league and
// revalues every member portfolio. The acting user must be a league member.
func (s *ValuationService) RefreshLeague(ctx context.Context, actingUserID string, leagueID uuid.UUID) (*RefreshResult, error) {
	if _, err := s.store.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, leagueID, actingUserID); err != nil {
		return nil, err
	}

	symbols, err := s.store.ListLeagueSymbols(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		Updated: []models.Stock{},
		Failed:  map[string]string{},
	}
	if len(symbols) == 0 {
		return result, nil
	}

	// Quote fetches are independent per symbol, so fan out and collect.
	now := time.Now().UTC()
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			quote, err := s.quotes.GetQuote(ctx, sym)
			if err != nil {
				mu.Lock()
				result.Failed[sym] = err.Error()
				mu.Unlock()
				return
			}
			if quote.Current <= 0 {
				mu.Lock()
				result.Failed[sym] = "provider returned no price"
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Updated = append(result.Updated, models.Stock{
				Symbol:       sym,
				CurrentPrice: quote.Current,
				LastUpdated:  now,
			})
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	if len(result.Updated) > 0 {
		// Keep cached names: upsert price and timestamp over existing rows,
		// carrying names forward for symbols we already know.
		known, err := s.store.GetStocks(ctx, symbols)
		if err != nil {
			return nil, err
		}
		for i := range result.Updated {
			if stock, ok := known[result.Updated[i].Symbol]; ok {
				result.Updated[i].Name = stock.Name
			}
		}
		if err := s.store.UpsertStocks(ctx, result.Updated); err != nil {
			return nil, err
		}
		s.mirrorPrices(ctx, result.Updated)
	}

	portfolioIDs, err := s.store.ListLeaguePortfolioIDs(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for _, portfolioID := range portfolioIDs {
		if _, err := s.Revalue(ctx, portfolioID); err != nil {
			return nil, err
		}
	}
	result.Portfolios = len(portfolioIDs)

	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result, nil
}

// Revalue recomputes one portfolio's total value from cached prices (falling
// back to each holding's acquisition price when no cached quote exists),
// persists it and upserts today's history snapshot.
func (s *ValuationService) Revalue(ctx context.Context, portfolioID uuid.UUID) (float64, error) {
	portfolio, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return 0, err
	}
	holdings, err := s.store.ListHoldings(ctx, portfolioID)
	if err != nil {
		return 0, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.StockSymbol)
	}
	stocks, err := s.store.GetStocks(ctx, symbols)
	if err != nil {
		return 0, err
	}

	marketValue := 0.0
	for _, holding := range holdings {
		price := holding.AvgPrice
		if stock, ok := stocks[holding.StockSymbol]; ok && stock.CurrentPrice > 0 {
			price = stock.CurrentPrice
		}
		marketValue += holding.Quantity * price
	}

	totalValue := portfolio.CashBalance + marketValue
	if err := s.store.UpdatePortfolioValue(ctx, portfolioID, totalValue); err != nil {
		return 0, err
	}

	day := utcDay(time.Now())
	if err := s.store.UpsertPortfolioHistory(ctx, portfolioID, day, totalValue); err != nil {
		return 0, err
	}

	return totalValue, nil
}

// mirrorPrices pushes refreshed prices into Redis and publishes them on the
// update channel. Best-effort: failures are logged, never fatal.
func (s *ValuationService) mirrorPrices(ctx context.Context, stocks []models.Stock) {
	if s.redis == nil {
		return
	}

	pipe := s.redis.Pipeline()
	for _, stock := range stocks {
		key := stockPriceKey(stock.Symbol)
		pipe.HSet(ctx, key, "price", stock.CurrentPrice, "updated", stock.LastUpdated.Format(time.RFC3339Nano))
		pipe.Expire(ctx, key, priceMirrorTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to mirror prices to redis: %v", err)
	}

	for _, stock := range stocks {
		payload, err := json.Marshal(PriceUpdate{
			Symbol:  stock.Symbol,
			Price:   stock.CurrentPrice,
			Updated: stock.LastUpdated,
		})
		if err != nil {
			continue
		}
		if err := s.redis.Publish(ctx, PriceUpdateChannel, payload).Err(); err != nil {
			logger.Error("Failed to publish price update for %s: %v", stock.Symbol, err)
		}
	}
}

func stockPriceKey(symbol string) string {
	return fmt.Sprintf("stock:price:%s", symbol)
}

// utcDay truncates a timestamp to its UTC calendar date, the history row key.
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
