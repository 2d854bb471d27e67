/**
 * @description
 * News service: general market news and per-user company news for held
 * symbols, cached in Redis.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/finnhub
 * - github.com/redis/go-redis/v9
 *
 * @notes
 * - Cache-aside with a short TTL; a cold cache falls through to Finnhub.
 * - Per-symbol news failures are skipped, mirroring the refresh engine's
 *   partial-success semantics.
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/PandaBuilds/stock-league/internal/finnhub"
	"github.com/PandaBuilds/stock-league/internal/logger"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/redis/go-redis/v9"
)

const (
	newsCacheTTL        = 5 * time.Minute
	cacheKeyGeneralNews = "news:general"
	companyNewsWindow   = 7 * 24 * time.Hour
	maxNewsPerSymbol    = 10
)

// NewsFetcher is the slice of the Finnhub client the news service needs.
type NewsFetcher interface {
	GetGeneralNews(ctx context.Context, category string) ([]finnhub.NewsItem, error)
	GetCompanyNews(ctx context.Context, symbol, from, to string) ([]finnhub.NewsItem, error)
}

// NewsService serves cached market news.
type NewsService struct {
	store store.Store
	redis *redis.Client
	news  NewsFetcher
}

// NewNewsService creates a new NewsService.
func NewNewsService(st store.Store, rdb *redis.Client, news NewsFetcher) *NewsService {
	return &NewsService{store: st, redis: rdb, news: news}
}

// GeneralNews returns general market headlines, preferring cache.
func (s *NewsService) GeneralNews(ctx context.Context) ([]finnhub.NewsItem, error) {
	if items, ok := s.fromCache(ctx, cacheKeyGeneralNews); ok {
		return items, nil
	}

	items, err := s.news.GetGeneralNews(ctx, "general")
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cacheKeyGeneralNews, items)
	return items, nil
}

// PortfolioNews returns last-week company news for every symbol the acting
// user holds across leagues, newest first.
func (s *NewsService) PortfolioNews(ctx context.Context, actingUserID string) ([]finnhub.NewsItem, error) {
	symbols, err := s.store.ListUserSymbols(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return []finnhub.NewsItem{}, nil
	}

	now := time.Now().UTC()
	from := now.Add(-companyNewsWindow).Format("2006-01-02")
	to := now.Format("2006-01-02")

	var all []finnhub.NewsItem
	for _, symbol := range symbols {
		cacheKey := fmt.Sprintf("news:company:%s", symbol)
		if items, ok := s.fromCache(ctx, cacheKey); ok {
			all = append(all, items...)
			continue
		}

		items, err := s.news.GetCompanyNews(ctx, symbol, from, to)
		if err != nil {
			// One failed symbol shouldn't blank the whole feed.
			logger.Error("Failed to fetch news for %s: %v", symbol, err)
			continue
		}
		if len(items) > maxNewsPerSymbol {
			items = items[:maxNewsPerSymbol]
		}

		s.toCache(ctx, cacheKey, items)
		all = append(all, items...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Datetime > all[j].Datetime
	})
	return all, nil
}

func (s *NewsService) fromCache(ctx context.Context, key string) ([]finnhub.NewsItem, bool) {
	if s.redis == nil {
		return nil, false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var items []finnhub.NewsItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *NewsService) toCache(ctx context.Context, key string, items []finnhub.NewsItem) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, newsCacheTTL).Err(); err != nil {
		logger.Error("Failed to cache %s: %v", key, err)
	}
}
