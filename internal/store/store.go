// Package store defines the data-access interface for the league game.
// Implementations include PostgreSQL (source of truth, via GORM) and
// in-memory (for testing). The interface is injected into every service so
// none of them touch a global database handle.
package store

import (
	"context"
	"time"

	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/google/uuid"
)

// MemberRow is a league member joined with their profile and portfolio,
// as consumed by the leaderboard. Rows are returned in join order
// (member creation time ascending).
type MemberRow struct {
	MemberID    uuid.UUID
	UserID      string
	Username    string
	AvatarURL   string
	TotalValue  float64
	CashBalance float64
	JoinedAt    time.Time
}

// Store is the persistence interface. Lookups for missing rows return an
// error wrapping apperr.ErrNotFound. Multi-step writes (league creation,
// member join, holding replacement, cascade delete) are each one transaction:
// they either fully commit or leave prior state untouched.
type Store interface {
	// --- League lifecycle ---

	// CreateLeague persists a league together with its owner membership and
	// the owner's seeded portfolio.
	CreateLeague(ctx context.Context, league *models.League, owner *models.Member, portfolio *models.Portfolio) error

	// GetLeague retrieves a league by id.
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)

	// GetLeagueByCode retrieves an active league by its join code.
	GetLeagueByCode(ctx context.Context, code string) (*models.League, error)

	// ActiveLeagueCodeExists reports whether an active league already uses code.
	ActiveLeagueCodeExists(ctx context.Context, code string) (bool, error)

	// ListLeaguesForUser returns every league the user is a member of.
	ListLeaguesForUser(ctx context.Context, userID string) ([]models.League, error)

	// SetLeagueLocked toggles the draft lock flag.
	SetLeagueLocked(ctx context.Context, id uuid.UUID, locked bool) error

	// SetLeagueAnonymous toggles the leaderboard anonymization flag.
	SetLeagueAnonymous(ctx context.Context, id uuid.UUID, anonymous bool) error

	// DeleteLeagueCascade removes holdings, history, portfolios, members and
	// finally the league row itself.
	DeleteLeagueCascade(ctx context.Context, id uuid.UUID) error

	// --- Members ---

	// GetMember retrieves the membership binding a user to a league.
	GetMember(ctx context.Context, leagueID uuid.UUID, userID string) (*models.Member, error)

	// GetMemberByID retrieves a membership by its id.
	GetMemberByID(ctx context.Context, memberID uuid.UUID) (*models.Member, error)

	// CreateMemberWithPortfolio persists a membership and its seeded portfolio.
	CreateMemberWithPortfolio(ctx context.Context, member *models.Member, portfolio *models.Portfolio) error

	// ListMemberRows returns league members joined with profile and portfolio.
	ListMemberRows(ctx context.Context, leagueID uuid.UUID) ([]MemberRow, error)

	// --- Portfolios & holdings ---

	// GetPortfolio retrieves a portfolio by id.
	GetPortfolio(ctx context.Context, id uuid.UUID) (*models.Portfolio, error)

	// GetPortfolioByMember retrieves the portfolio owned by a member.
	GetPortfolioByMember(ctx context.Context, memberID uuid.UUID) (*models.Portfolio, error)

	// ListHoldings returns the holdings of a portfolio.
	ListHoldings(ctx context.Context, portfolioID uuid.UUID) ([]models.Holding, error)

	// ReplaceHoldings swaps a portfolio's holdings wholesale and updates its
	// cash balance and total value: delete prior holdings, insert the new
	// set, update the portfolio, as one transaction.
	ReplaceHoldings(ctx context.Context, portfolioID uuid.UUID, holdings []models.Holding, cashBalance, totalValue float64) error

	// ListLeaguePortfolioIDs returns the portfolio ids of every league member.
	ListLeaguePortfolioIDs(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error)

	// ListLeagueSymbols returns the distinct stock symbols held in a league.
	ListLeagueSymbols(ctx context.Context, leagueID uuid.UUID) ([]string, error)

	// ListUserSymbols returns the distinct symbols a user holds across leagues.
	ListUserSymbols(ctx context.Context, userID string) ([]string, error)

	// UpdatePortfolioValue persists a recomputed total value.
	UpdatePortfolioValue(ctx context.Context, portfolioID uuid.UUID, totalValue float64) error

	// --- Stock cache ---

	// UpsertStocks inserts or refreshes cached stock records by symbol.
	UpsertStocks(ctx context.Context, stocks []models.Stock) error

	// GetStocks returns cached stock records keyed by symbol. Symbols with no
	// cache entry are simply absent from the map.
	GetStocks(ctx context.Context, symbols []string) (map[string]models.Stock, error)

	// --- History ---

	// UpsertPortfolioHistory records a daily snapshot, overwriting any
	// existing row for the same (portfolio, date).
	UpsertPortfolioHistory(ctx context.Context, portfolioID uuid.UUID, day time.Time, totalValue float64) error

	// ListPortfolioHistory returns the dated value series, oldest first.
	ListPortfolioHistory(ctx context.Context, portfolioID uuid.UUID) ([]models.PortfolioHistory, error)

	// --- Profiles ---

	// GetProfile retrieves a user's display profile.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpsertProfile inserts or updates a display profile.
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}
