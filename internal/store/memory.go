package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps. Used for testing and
// development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu         sync.RWMutex
	leagues    map[uuid.UUID]*models.League
	members    map[uuid.UUID]*models.Member
	portfolios map[uuid.UUID]*models.Portfolio
	holdings   map[uuid.UUID]*models.Holding
	stocks     map[string]models.Stock
	history    map[string]models.PortfolioHistory // key: portfolioID + "|" + YYYY-MM-DD
	profiles   map[string]*models.Profile
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leagues:    make(map[uuid.UUID]*models.League),
		members:    make(map[uuid.UUID]*models.Member),
		portfolios: make(map[uuid.UUID]*models.Portfolio),
		holdings:   make(map[uuid.UUID]*models.Holding),
		stocks:     make(map[string]models.Stock),
		history:    make(map[string]models.PortfolioHistory),
		profiles:   make(map[string]*models.Profile),
	}
}

func historyKey(portfolioID uuid.UUID, day time.Time) string {
	return portfolioID.String() + "|" + day.UTC().Format("2006-01-02")
}

// --- League lifecycle ---

func (s *MemoryStore) CreateLeague(_ context.Context, league *models.League, owner *models.Member, portfolio *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.leagues {
		if existing.IsActive && existing.JoinCode == league.JoinCode {
			return apperr.ErrCodeTaken
		}
	}

	if league.ID == uuid.Nil {
		league.ID = uuid.New()
	}
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	if portfolio.ID == uuid.Nil {
		portfolio.ID = uuid.New()
	}
	if league.CreatedAt.IsZero() {
		league.CreatedAt = time.Now()
	}
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = time.Now()
	}
	owner.LeagueID = league.ID
	portfolio.MemberID = owner.ID

	leagueCopy := *league
	ownerCopy := *owner
	portfolioCopy := *portfolio
	s.leagues[league.ID] = &leagueCopy
	s.members[owner.ID] = &ownerCopy
	s.portfolios[portfolio.ID] = &portfolioCopy
	return nil
}

func (s *MemoryStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	league, ok := s.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, apperr.ErrNotFound)
	}
	leagueCopy := *league
	return &leagueCopy, nil
}

func (s *MemoryStore) GetLeagueByCode(_ context.Context, code string) (*models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, league := range s.leagues {
		if league.IsActive && league.JoinCode == code {
			leagueCopy := *league
			return &leagueCopy, nil
		}
	}
	return nil, fmt.Errorf("league with code %s: %w", code, apperr.ErrNotFound)
}

func (s *MemoryStore) ActiveLeagueCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, league := range s.leagues {
		if league.IsActive && league.JoinCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListLeaguesForUser(_ context.Context, userID string) ([]models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var leagues []models.League
	for _, member := range s.members {
		if member.UserID != userID {
			continue
		}
		if league, ok := s.leagues[member.LeagueID]; ok {
			leagues = append(leagues, *league)
		}
	}
	sort.Slice(leagues, func(i, j int) bool {
		return leagues[i].CreatedAt.After(leagues[j].CreatedAt)
	})
	return leagues, nil
}

func (s *MemoryStore) SetLeagueLocked(_ context.Context, id uuid.UUID, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	league, ok := s.leagues[id]
	if !ok {
		return fmt.Errorf("league %s: %w", id, apperr.ErrNotFound)
	}
	league.IsLocked = locked
	return nil
}

func (s *MemoryStore) SetLeagueAnonymous(_ context.Context, id uuid.UUID, anonymous bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	league, ok := s.leagues[id]
	if !ok {
		return fmt.Errorf("league %s: %w", id, apperr.ErrNotFound)
	}
	league.AnonymousMode = anonymous
	return nil
}

func (s *MemoryStore) DeleteLeagueCascade(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leagues[id]; !ok {
		return fmt.Errorf("league %s: %w", id, apperr.ErrNotFound)
	}

	for memberID, member := range s.members {
		if member.LeagueID != id {
			continue
		}
		for portfolioID, portfolio := range s.portfolios {
			if portfolio.MemberID != memberID {
				continue
			}
			for holdingID, holding := range s.holdings {
				if holding.PortfolioID == portfolioID {
					delete(s.holdings, holdingID)
				}
			}
			for key, snapshot := range s.history {
				if snapshot.PortfolioID == portfolioID {
					delete(s.history, key)
				}
			}
			delete(s.portfolios, portfolioID)
		}
		delete(s.members, memberID)
	}

	delete(s.leagues, id)
	return nil
}

// --- Members ---

func (s *MemoryStore) GetMember(_ context.Context, leagueID uuid.UUID, userID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, member := range s.members {
		if member.LeagueID == leagueID && member.UserID == userID {
			memberCopy := *member
			return &memberCopy, nil
		}
	}
	return nil, fmt.Errorf("member of league %s: %w", leagueID, apperr.ErrNotFound)
}

func (s *MemoryStore) GetMemberByID(_ context.Context, memberID uuid.UUID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, apperr.ErrNotFound)
	}
	memberCopy := *member
	return &memberCopy, nil
}

func (s *MemoryStore) CreateMemberWithPortfolio(_ context.Context, member *models.Member, portfolio *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if portfolio.ID == uuid.Nil {
		portfolio.ID = uuid.New()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now()
	}
	portfolio.MemberID = member.ID

	memberCopy := *member
	portfolioCopy := *portfolio
	s.members[member.ID] = &memberCopy
	s.portfolios[portfolio.ID] = &portfolioCopy
	return nil
}

func (s *MemoryStore) ListMemberRows(_ context.Context, leagueID uuid.UUID) ([]MemberRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []MemberRow
	for _, member := range s.members {
		if member.LeagueID != leagueID {
			continue
		}
		row := MemberRow{
			MemberID: member.ID,
			UserID:   member.UserID,
			JoinedAt: member.CreatedAt,
		}
		if profile, ok := s.profiles[member.UserID]; ok {
			row.Username = profile.Username
			row.AvatarURL = profile.AvatarURL
		}
		for _, portfolio := range s.portfolios {
			if portfolio.MemberID == member.ID {
				row.TotalValue = portfolio.TotalValue
				row.CashBalance = portfolio.CashBalance
				break
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].JoinedAt.Before(rows[j].JoinedAt)
	})
	return rows, nil
}

// --- Portfolios & holdings ---

func (s *MemoryStore) GetPortfolio(_ context.Context, id uuid.UUID) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolio, ok := s.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", id, apperr.ErrNotFound)
	}
	portfolioCopy := *portfolio
	return &portfolioCopy, nil
}

func (s *MemoryStore) GetPortfolioByMember(_ context.Context, memberID uuid.UUID) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, portfolio := range s.portfolios {
		if portfolio.MemberID == memberID {
			portfolioCopy := *portfolio
			return &portfolioCopy, nil
		}
	}
	return nil, fmt.Errorf("portfolio of member %s: %w", memberID, apperr.ErrNotFound)
}

func (s *MemoryStore) ListHoldings(_ context.Context, portfolioID uuid.UUID) ([]models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var holdings []models.Holding
	for _, holding := range s.holdings {
		if holding.PortfolioID == portfolioID {
			holdings = append(holdings, *holding)
		}
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].StockSymbol < holdings[j].StockSymbol
	})
	return holdings, nil
}

func (s *MemoryStore) ReplaceHoldings(_ context.Context, portfolioID uuid.UUID, holdings []models.Holding, cashBalance, totalValue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	portfolio, ok := s.portfolios[portfolioID]
	if !ok {
		return fmt.Errorf("portfolio %s: %w", portfolioID, apperr.ErrNotFound)
	}

	for holdingID, holding := range s.holdings {
		if holding.PortfolioID == portfolioID {
			delete(s.holdings, holdingID)
		}
	}
	for i := range holdings {
		if holdings[i].ID == uuid.Nil {
			holdings[i].ID = uuid.New()
		}
		holdings[i].PortfolioID = portfolioID
		holdingCopy := holdings[i]
		s.holdings[holdingCopy.ID] = &holdingCopy
	}

	portfolio.CashBalance = cashBalance
	portfolio.TotalValue = totalValue
	return nil
}

func (s *MemoryStore) ListLeaguePortfolioIDs(_ context.Context, leagueID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for _, member := range s.members {
		if member.LeagueID != leagueID {
			continue
		}
		for _, portfolio := range s.portfolios {
			if portfolio.MemberID == member.ID {
				ids = append(ids, portfolio.ID)
			}
		}
	}
	return ids, nil
}

func (s *MemoryStore) ListLeagueSymbols(_ context.Context, leagueID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, member := range s.members {
		if member.LeagueID != leagueID {
			continue
		}
		for _, portfolio := range s.portfolios {
			if portfolio.MemberID != member.ID {
				continue
			}
			for _, holding := range s.holdings {
				if holding.PortfolioID == portfolio.ID {
					seen[holding.StockSymbol] = true
				}
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *MemoryStore) ListUserSymbols(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, member := range s.members {
		if member.UserID != userID {
			continue
		}
		for _, portfolio := range s.portfolios {
			if portfolio.MemberID != member.ID {
				continue
			}
			for _, holding := range s.holdings {
				if holding.PortfolioID == portfolio.ID {
					seen[holding.StockSymbol] = true
				}
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *MemoryStore) UpdatePortfolioValue(_ context.Context, portfolioID uuid.UUID, totalValue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	portfolio, ok := s.portfolios[portfolioID]
	if !ok {
		return fmt.Errorf("portfolio %s: %w", portfolioID, apperr.ErrNotFound)
	}
	portfolio.TotalValue = totalValue
	return nil
}

// --- Stock cache ---

func (s *MemoryStore) UpsertStocks(_ context.Context, stocks []models.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stock := range stocks {
		s.stocks[stock.Symbol] = stock
	}
	return nil
}

func (s *MemoryStore) GetStocks(_ context.Context, symbols []string) (map[string]models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]models.Stock, len(symbols))
	for _, symbol := range symbols {
		if stock, ok := s.stocks[symbol]; ok {
			result[symbol] = stock
		}
	}
	return result, nil
}

// --- History ---

func (s *MemoryStore) UpsertPortfolioHistory(_ context.Context, portfolioID uuid.UUID, day time.Time, totalValue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := historyKey(portfolioID, day)
	s.history[key] = models.PortfolioHistory{
		PortfolioID: portfolioID,
		RecordedAt:  day.UTC().Truncate(24 * time.Hour),
		TotalValue:  totalValue,
	}
	return nil
}

func (s *MemoryStore) ListPortfolioHistory(_ context.Context, portfolioID uuid.UUID) ([]models.PortfolioHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []models.PortfolioHistory
	for _, snapshot := range s.history {
		if snapshot.PortfolioID == portfolioID {
			history = append(history, snapshot)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].RecordedAt.Before(history[j].RecordedAt)
	})
	return history, nil
}

// --- Profiles ---

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, apperr.ErrNotFound)
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (s *MemoryStore) UpsertProfile(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profileCopy := *profile
	s.profiles[profile.ID] = &profileCopy
	return nil
}
