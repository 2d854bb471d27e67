/**
 * @description
 * Portfolio read service: own-portfolio summary, another member's picks and
 * the dated value history for dashboard charts.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/store
 *
 * @notes
 * - Viewing another member's picks respects the league's anonymous flag:
 *   while masking is on, only your own holdings are visible.
 */

package services

import (
	"context"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/google/uuid"
)

// PortfolioService serves portfolio read models.
type PortfolioService struct {
	store store.Store
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(st store.Store) *PortfolioService {
	return &PortfolioService{store: st}
}

// HoldingView is a holding enriched with its cached market price.
type HoldingView struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
}

// PortfolioView is a portfolio summary with enriched holdings.
type PortfolioView struct {
	PortfolioID uuid.UUID     `json:"portfolio_id"`
	CashBalance float64       `json:"cash_balance"`
	TotalValue  float64       `json:"total_value"`
	Holdings    []HoldingView `json:"holdings"`
}

// Summary returns the acting user's own portfolio in a league.
func (s *PortfolioService) Summary(ctx context.Context, actingUserID string, leagueID uuid.UUID) (*PortfolioView, error) {
	member, err := s.store.GetMember(ctx, leagueID, actingUserID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, member.ID)
}

// MemberHoldings returns another member's portfolio ("view picks"). Blocked
// while the league's anonymous flag is on, unless the target is the viewer.
func (s *PortfolioService) MemberHoldings(ctx context.Context, actingUserID string, leagueID, memberID uuid.UUID) (*PortfolioView, error) {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, leagueID, actingUserID); err != nil {
		return nil, err
	}

	target, err := s.store.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if target.LeagueID != leagueID {
		return nil, apperr.ErrNotFound
	}
	if league.AnonymousMode && target.UserID != actingUserID {
		return nil, apperr.ErrForbidden
	}

	return s.buildView(ctx, target.ID)
}

// History returns the acting user's dated portfolio value series for a league.
func (s *PortfolioService) History(ctx context.Context, actingUserID string, leagueID uuid.UUID) ([]models.PortfolioHistory, error) {
	member, err := s.store.GetMember(ctx, leagueID, actingUserID)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.store.GetPortfolioByMember(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	return s.store.ListPortfolioHistory(ctx, portfolio.ID)
}

func (s *PortfolioService) buildView(ctx context.Context, memberID uuid.UUID) (*PortfolioView, error) {
	portfolio, err := s.store.GetPortfolioByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.store.ListHoldings(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.StockSymbol)
	}
	stocks, err := s.store.GetStocks(ctx, symbols)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{
		PortfolioID: portfolio.ID,
		CashBalance: portfolio.CashBalance,
		TotalValue:  portfolio.TotalValue,
		Holdings:    make([]HoldingView, 0, len(holdings)),
	}
	for _, holding := range holdings {
		price := holding.AvgPrice
		name := holding.StockSymbol
		if stock, ok := stocks[holding.StockSymbol]; ok {
			if stock.CurrentPrice > 0 {
				price = stock.CurrentPrice
			}
			if stock.Name != "" {
				name = stock.Name
			}
		}
		view.Holdings = append(view.Holdings, HoldingView{
			Symbol:       holding.StockSymbol,
			Name:         name,
			Quantity:     holding.Quantity,
			AvgPrice:     holding.AvgPrice,
			CurrentPrice: price,
			MarketValue:  holding.Quantity * price,
		})
	}

	return view, nil
}
