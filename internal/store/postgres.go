/**
 * @description
 * PostgreSQL implementation of the Store interface using GORM.
 *
 * @dependencies
 * - gorm.io/gorm
 * - gorm.io/gorm/clause: upserts (stocks, portfolio history)
 * - github.com/jackc/pgconn: Postgres error codes (unique violations)
 *
 * @notes
 * - Multi-step writes run inside db.Transaction so a partial failure never
 *   leaves holdings inconsistent with the saved allocation, and a league
 *   delete never strands orphaned rows.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// PostgresStore implements Store on top of a GORM Postgres connection.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps a GORM connection in the Store interface.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return err
}

// --- League lifecycle ---

func (s *PostgresStore) CreateLeague(ctx context.Context, league *models.League, owner *models.Member, portfolio *models.Portfolio) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(league).Error; err != nil {
			return err
		}
		owner.LeagueID = league.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		portfolio.MemberID = owner.ID
		return tx.Create(portfolio).Error
	})
	if isUniqueViolation(err) {
		return apperr.ErrCodeTaken
	}
	return err
}

func (s *PostgresStore) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var league models.League
	if err := s.db.WithContext(ctx).First(&league, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "league")
	}
	return &league, nil
}

func (s *PostgresStore) GetLeagueByCode(ctx context.Context, code string) (*models.League, error) {
	var league models.League
	err := s.db.WithContext(ctx).
		Where("join_code = ? AND is_active = ?", code, true).
		First(&league).Error
	if err != nil {
		return nil, notFoundOr(err, "league")
	}
	return &league, nil
}

func (s *PostgresStore) ActiveLeagueCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.League{}).
		Where("join_code = ? AND is_active = ?", code, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostgresStore) ListLeaguesForUser(ctx context.Context, userID string) ([]models.League, error) {
	var leagues []models.League
	err := s.db.WithContext(ctx).
		Joins("JOIN league_members ON league_members.league_id = leagues.id").
		Where("league_members.user_id = ?", userID).
		Order("leagues.created_at DESC").
		Find(&leagues).Error
	if err != nil {
		return nil, err
	}
	return leagues, nil
}

func (s *PostgresStore) SetLeagueLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	return s.updateLeagueFlag(ctx, id, "is_locked", locked)
}

func (s *PostgresStore) SetLeagueAnonymous(ctx context.Context, id uuid.UUID, anonymous bool) error {
	return s.updateLeagueFlag(ctx, id, "anonymous_mode", anonymous)
}

func (s *PostgresStore) updateLeagueFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.League{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("league: %w", apperr.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteLeagueCascade(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberIDs []uuid.UUID
		if err := tx.Model(&models.Member{}).
			Where("league_id = ?", id).
			Pluck("id", &memberIDs).Error; err != nil {
			return err
		}

		if len(memberIDs) > 0 {
			var portfolioIDs []uuid.UUID
			if err := tx.Model(&models.Portfolio{}).
				Where("member_id IN ?", memberIDs).
				Pluck("id", &portfolioIDs).Error; err != nil {
				return err
			}

			if len(portfolioIDs) > 0 {
				if err := tx.Where("portfolio_id IN ?", portfolioIDs).
					Delete(&models.Holding{}).Error; err != nil {
					return err
				}
				if err := tx.Where("portfolio_id IN ?", portfolioIDs).
					Delete(&models.PortfolioHistory{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", portfolioIDs).
					Delete(&models.Portfolio{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("league_id = ?", id).
				Delete(&models.Member{}).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&models.League{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("league: %w", apperr.ErrNotFound)
		}
		return nil
	})
}

// --- Members ---

func (s *PostgresStore) GetMember(ctx context.Context, leagueID uuid.UUID, userID string) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Where("league_id = ? AND user_id = ?", leagueID, userID).
		First(&member).Error
	if err != nil {
		return nil, notFoundOr(err, "member")
	}
	return &member, nil
}

func (s *PostgresStore) GetMemberByID(ctx context.Context, memberID uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, "id = ?", memberID).Error; err != nil {
		return nil, notFoundOr(err, "member")
	}
	return &member, nil
}

func (s *PostgresStore) CreateMemberWithPortfolio(ctx context.Context, member *models.Member, portfolio *models.Portfolio) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		portfolio.MemberID = member.ID
		return tx.Create(portfolio).Error
	})
}

func (s *PostgresStore) ListMemberRows(ctx context.Context, leagueID uuid.UUID) ([]MemberRow, error) {
	var rows []MemberRow
	err := s.db.WithContext(ctx).
		Table("league_members").
		Select(`league_members.id AS member_id,
			league_members.user_id,
			league_members.created_at AS joined_at,
			COALESCE(profiles.username, '') AS username,
			COALESCE(profiles.avatar_url, '') AS avatar_url,
			COALESCE(portfolios.total_value, 0) AS total_value,
			COALESCE(portfolios.cash_balance, 0) AS cash_balance`).
		Joins("LEFT JOIN profiles ON profiles.id = league_members.user_id").
		Joins("LEFT JOIN portfolios ON portfolios.member_id = league_members.id").
		Where("league_members.league_id = ?", leagueID).
		Order("league_members.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// --- Portfolios & holdings ---

func (s *PostgresStore) GetPortfolio(ctx context.Context, id uuid.UUID) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.WithContext(ctx).First(&portfolio, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "portfolio")
	}
	return &portfolio, nil
}

func (s *PostgresStore) GetPortfolioByMember(ctx context.Context, memberID uuid.UUID) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&portfolio).Error
	if err != nil {
		return nil, notFoundOr(err, "portfolio")
	}
	return &portfolio, nil
}

func (s *PostgresStore) ListHoldings(ctx context.Context, portfolioID uuid.UUID) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("stock_symbol ASC").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

func (s *PostgresStore) ReplaceHoldings(ctx context.Context, portfolioID uuid.UUID, holdings []models.Holding, cashBalance, totalValue float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", portfolioID).
			Delete(&models.Holding{}).Error; err != nil {
			return err
		}

		for i := range holdings {
			holdings[i].PortfolioID = portfolioID
		}
		if len(holdings) > 0 {
			if err := tx.Create(&holdings).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&models.Portfolio{}).
			Where("id = ?", portfolioID).
			Updates(map[string]interface{}{
				"cash_balance": cashBalance,
				"total_value":  totalValue,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("portfolio: %w", apperr.ErrNotFound)
		}
		return nil
	})
}

func (s *PostgresStore) ListLeaguePortfolioIDs(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Portfolio{}).
		Joins("JOIN league_members ON league_members.id = portfolios.member_id").
		Where("league_members.league_id = ?", leagueID).
		Pluck("portfolios.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PostgresStore) ListLeagueSymbols(ctx context.Context, leagueID uuid.UUID) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).
		Model(&models.Holding{}).
		Distinct("holdings.stock_symbol").
		Joins("JOIN portfolios ON portfolios.id = holdings.portfolio_id").
		Joins("JOIN league_members ON league_members.id = portfolios.member_id").
		Where("league_members.league_id = ?", leagueID).
		Pluck("holdings.stock_symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func (s *PostgresStore) ListUserSymbols(ctx context.Context, userID string) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).
		Model(&models.Holding{}).
		Distinct("holdings.stock_symbol").
		Joins("JOIN portfolios ON portfolios.id = holdings.portfolio_id").
		Joins("JOIN league_members ON league_members.id = portfolios.member_id").
		Where("league_members.user_id = ?", userID).
		Pluck("holdings.stock_symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func (s *PostgresStore) UpdatePortfolioValue(ctx context.Context, portfolioID uuid.UUID, totalValue float64) error {
	result := s.db.WithContext(ctx).
		Model(&models.Portfolio{}).
		Where("id = ?", portfolioID).
		Update("total_value", totalValue)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("portfolio: %w", apperr.ErrNotFound)
	}
	return nil
}

// --- Stock cache ---

func (s *PostgresStore) UpsertStocks(ctx context.Context, stocks []models.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "current_price", "last_updated"}),
	}).Create(&stocks).Error
}

func (s *PostgresStore) GetStocks(ctx context.Context, symbols []string) (map[string]models.Stock, error) {
	result := make(map[string]models.Stock, len(symbols))
	if len(symbols) == 0 {
		return result, nil
	}

	var stocks []models.Stock
	err := s.db.WithContext(ctx).
		Where("symbol IN ?", symbols).
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}

	for _, stock := range stocks {
		result[stock.Symbol] = stock
	}
	return result, nil
}

// --- History ---

func (s *PostgresStore) UpsertPortfolioHistory(ctx context.Context, portfolioID uuid.UUID, day time.Time, totalValue float64) error {
	snapshot := models.PortfolioHistory{
		PortfolioID: portfolioID,
		RecordedAt:  day,
		TotalValue:  totalValue,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "portfolio_id"}, {Name: "recorded_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_value"}),
	}).Create(&snapshot).Error
}

func (s *PostgresStore) ListPortfolioHistory(ctx context.Context, portfolioID uuid.UUID) ([]models.PortfolioHistory, error) {
	var history []models.PortfolioHistory
	err := s.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("recorded_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// --- Profiles ---

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "profile")
	}
	return &profile, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "updated_at"}),
	}).Create(profile).Error
}
