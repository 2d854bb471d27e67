/**
 * @description
 * Draft service: validates and persists a member's percentage allocations as
 * concrete holdings via the Allocation Engine.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/allocation
 * - github.com/PandaBuilds/stock-league/internal/store
 *
 * @notes
 * - A locked league rejects every draft mutation at this layer, not in the UI.
 * - Holdings are replaced wholesale inside one store transaction; on failure
 *   the prior holdings remain authoritative.
 */

package services

import (
	"context"
	"time"

	"github.com/PandaBuilds/stock-league/internal/allocation"
	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/google/uuid"
)

// DraftService converts allocation drafts into persisted holdings.
type DraftService struct {
	store store.Store
}

// NewDraftService creates a new DraftService.
func NewDraftService(st store.Store) *DraftService {
	return &DraftService{store: st}
}

// DraftLine is one user-entered allocation: the allocation arrives as the raw
// input string so the percentage parsing rule is enforced server-side.
type DraftLine struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Allocation string  `json:"allocation"`
}

// DraftResult reports the persisted outcome of a draft save.
type DraftResult struct {
	Holdings      []models.Holding `json:"holdings"`
	CashBalance   float64          `json:"cash_balance"`
	TotalValue    float64          `json:"total_value"`
	RemainingCash float64          `json:"remaining_cash"`
}

// DraftView is the current draft reconstructed from persisted holdings, with
// each line's percentage recovered from quantity and acquisition price.
type DraftView struct {
	Budget float64         `json:"budget"`
	Locked bool            `json:"locked"`
	Lines  []DraftViewLine `json:"lines"`
}

// DraftViewLine mirrors DraftLine for reads.
type DraftViewLine struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Allocation float64 `json:"allocation"`
}

// SaveDraft validates the draft against the league budget and replaces the
// member's holdings. Atomic: either the full draft persists or nothing changes.
func (s *DraftService) SaveDraft(ctx context.Context, actingUserID string, leagueID uuid.UUID, lines []DraftLine) (*DraftResult, error) {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.IsLocked {
		return nil, apperr.ErrLeagueLocked
	}

	member, err := s.store.GetMember(ctx, leagueID, actingUserID)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.store.GetPortfolioByMember(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	engineLines := make([]allocation.Line, 0, len(lines))
	for _, line := range lines {
		percent, err := allocation.ParsePercent(line.Allocation)
		if err != nil {
			return nil, err
		}
		engineLines = append(engineLines, allocation.Line{
			Symbol:     line.Symbol,
			Name:       line.Name,
			Price:      line.Price,
			Allocation: percent,
		})
	}

	result, err := allocation.ComputeHoldings(engineLines, league.Budget)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stocks := make([]models.Stock, 0, len(lines))
	for _, line := range lines {
		stocks = append(stocks, models.Stock{
			Symbol:       line.Symbol,
			Name:         line.Name,
			CurrentPrice: line.Price,
			LastUpdated:  now,
		})
	}
	if err := s.store.UpsertStocks(ctx, stocks); err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(result.Holdings))
	for _, computed := range result.Holdings {
		holdings = append(holdings, models.Holding{
			StockSymbol: computed.Symbol,
			Quantity:    computed.Quantity,
			AvgPrice:    computed.AvgPrice,
		})
	}

	// Just bought at current prices, so total value equals the budget split
	// between invested cash and the residual.
	totalValue := result.Invested + result.RemainingCash
	if err := s.store.ReplaceHoldings(ctx, portfolio.ID, holdings, result.RemainingCash, totalValue); err != nil {
		return nil, err
	}

	return &DraftResult{
		Holdings:      holdings,
		CashBalance:   result.RemainingCash,
		TotalValue:    totalValue,
		RemainingCash: result.RemainingCash,
	}, nil
}

// GetDraft reconstructs the acting user's draft lines from persisted holdings
// (percentage = quantity x acquisition price / budget).
func (s *DraftService) GetDraft(ctx context.Context, actingUserID string, leagueID uuid.UUID) (*DraftView, error) {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	member, err := s.store.GetMember(ctx, leagueID, actingUserID)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.store.GetPortfolioByMember(ctx, member.ID)
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

	view := &DraftView{
		Budget: league.Budget,
		Locked: league.IsLocked,
		Lines:  make([]DraftViewLine, 0, len(holdings)),
	}
	for _, holding := range holdings {
		percent := 0.0
		if league.Budget > 0 {
			percent = holding.Quantity * holding.AvgPrice / league.Budget * 100
		}
		name := holding.StockSymbol
		if stock, ok := stocks[holding.StockSymbol]; ok && stock.Name != "" {
			name = stock.Name
		}
		view.Lines = append(view.Lines, DraftViewLine{
			Symbol:     holding.StockSymbol,
			Name:       name,
			Price:      holding.AvgPrice,
			Quantity:   holding.Quantity,
			Allocation: percent,
		})
	}

	return view, nil
}
