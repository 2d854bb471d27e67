/**
 * @description
 * League lifecycle service: creation, join-by-code, lock/anonymize toggles and
 * cascading deletion.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/store
 * - github.com/PandaBuilds/stock-league/internal/models
 * - github.com/PandaBuilds/stock-league/internal/apperr
 *
 * @notes
 * - Creation and join each run as one store transaction (league + owner
 *   membership + seeded portfolio), so a failed later step cannot strand
 *   orphaned rows.
 * - The acting user id is always an explicit parameter; services never read
 *   ambient auth state.
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/logger"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/google/uuid"
)

var joinCodePattern = regexp.MustCompile(`^\d{4}$`)

// LeagueService manages the league lifecycle.
type LeagueService struct {
	store store.Store
}

// NewLeagueService creates a new LeagueService.
func NewLeagueService(st store.Store) *LeagueService {
	return &LeagueService{store: st}
}

// CreateLeagueParams are the inputs for league creation.
type CreateLeagueParams struct {
	Name           string
	Budget         float64
	JoinCode       string
	DurationMonths int
}

// LeagueView is a league together with the viewer's relationship to it.
type LeagueView struct {
	League   models.League `json:"league"`
	IsOwner  bool          `json:"is_owner"`
	MemberID uuid.UUID     `json:"member_id"`
}

// Create validates params and persists the league, its owner membership and
// the owner's portfolio seeded with cash = total = budget.
func (s *LeagueService) Create(ctx context.Context, actingUserID string, params CreateLeagueParams) (*models.League, error) {
	if params.Name == "" {
		return nil, apperr.Validationf("league name is required")
	}
	if params.Budget <= 0 {
		return nil, apperr.Validationf("budget must be positive")
	}
	if !joinCodePattern.MatchString(params.JoinCode) {
		return nil, apperr.ErrInvalidCode
	}

	taken, err := s.store.ActiveLeagueCodeExists(ctx, params.JoinCode)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.ErrCodeTaken
	}

	if params.DurationMonths <= 0 {
		params.DurationMonths = 3
	}
	start := time.Now().UTC()
	end := start.AddDate(0, params.DurationMonths, 0)

	league := &models.League{
		Name:      params.Name,
		AdminID:   actingUserID,
		Budget:    params.Budget,
		StartDate: &start,
		EndDate:   &end,
		IsActive:  true,
		JoinCode:  params.JoinCode,
	}
	owner := &models.Member{UserID: actingUserID}
	portfolio := &models.Portfolio{
		CashBalance: params.Budget,
		TotalValue:  params.Budget,
	}

	if err := s.ensureProfile(ctx, actingUserID); err != nil {
		return nil, err
	}

	if err := s.store.CreateLeague(ctx, league, owner, portfolio); err != nil {
		return nil, err
	}

	logger.Info("League %s created by %s (budget %.0f)", league.ID, actingUserID, league.Budget)
	return league, nil
}

// Join resolves a league by code and adds the user as a member with a seeded
// portfolio. Joining a league the user already belongs to is treated as
// success and returns the existing membership.
func (s *LeagueService) Join(ctx context.Context, actingUserID, code string) (*models.Member, error) {
	if !joinCodePattern.MatchString(code) {
		return nil, apperr.ErrInvalidCode
	}

	league, err := s.store.GetLeagueByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCode
		}
		return nil, err
	}

	if existing, err := s.store.GetMember(ctx, league.ID, actingUserID); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := s.ensureProfile(ctx, actingUserID); err != nil {
		return nil, err
	}

	member := &models.Member{LeagueID: league.ID, UserID: actingUserID}
	portfolio := &models.Portfolio{
		CashBalance: league.Budget,
		TotalValue:  league.Budget,
	}
	if err := s.store.CreateMemberWithPortfolio(ctx, member, portfolio); err != nil {
		return nil, err
	}

	logger.Info("User %s joined league %s", actingUserID, league.ID)
	return member, nil
}

// Get returns a league with the viewer's role. The viewer must be a member.
func (s *LeagueService) Get(ctx context.Context, actingUserID string, leagueID uuid.UUID) (*LeagueView, error) {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	member, err := s.store.GetMember(ctx, leagueID, actingUserID)
	if err != nil {
		return nil, err
	}

	return &LeagueView{
		League:   *league,
		IsOwner:  league.AdminID == actingUserID,
		MemberID: member.ID,
	}, nil
}

// ListForUser returns every league the user belongs to, newest first.
func (s *LeagueService) ListForUser(ctx context.Context, actingUserID string) ([]models.League, error) {
	return s.store.ListLeaguesForUser(ctx, actingUserID)
}

// Delete removes the league and all dependent rows. Owner only.
func (s *LeagueService) Delete(ctx context.Context, actingUserID string, leagueID uuid.UUID) error {
	if err := s.requireOwner(ctx, actingUserID, leagueID); err != nil {
		return err
	}

	if err := s.store.DeleteLeagueCascade(ctx, leagueID); err != nil {
		return err
	}

	logger.Info("League %s deleted by %s", leagueID, actingUserID)
	return nil
}

// SetLocked toggles the draft lock flag. Owner only.
func (s *LeagueService) SetLocked(ctx context.Context, actingUserID string, leagueID uuid.UUID, locked bool) error {
	if err := s.requireOwner(ctx, actingUserID, leagueID); err != nil {
		return err
	}
	return s.store.SetLeagueLocked(ctx, leagueID, locked)
}

// SetAnonymous toggles leaderboard masking. Owner only.
func (s *LeagueService) SetAnonymous(ctx context.Context, actingUserID string, leagueID uuid.UUID, anonymous bool) error {
	if err := s.requireOwner(ctx, actingUserID, leagueID); err != nil {
		return err
	}
	return s.store.SetLeagueAnonymous(ctx, leagueID, anonymous)
}

func (s *LeagueService) requireOwner(ctx context.Context, actingUserID string, leagueID uuid.UUID) error {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if league.AdminID != actingUserID {
		return apperr.ErrForbidden
	}
	return nil
}

// ensureProfile auto-creates a display profile for users who never opened the
// settings page, so leaderboard joins always resolve a username.
func (s *LeagueService) ensureProfile(ctx context.Context, userID string) error {
	_, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	username := userID
	if len(username) > 8 {
		username = username[len(username)-8:]
	}
	return s.store.UpsertProfile(ctx, &models.Profile{
		ID:       userID,
		Username: fmt.Sprintf("player_%s", username),
	})
}
