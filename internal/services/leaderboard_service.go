/**
 * @description
 * Leaderboard aggregator: ranks league members by portfolio total value,
 * computes return percentages against the league budget and applies the
 * anonymization transform.
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/store
 *
 * @notes
 * - Ties on total value break by member join time, oldest first, so rankings
 *   are deterministic across runs.
 * - Masking is a post-ranking, presentation-level transform. The viewer's own
 *   entry is always shown in full.
 */

package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/google/uuid"
)

// LeaderboardService builds ranked league views.
type LeaderboardService struct {
	store store.Store
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(st store.Store) *LeaderboardService {
	return &LeaderboardService{store: st}
}

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank        int       `json:"rank"`
	MemberID    uuid.UUID `json:"member_id"`
	UserID      string    `json:"user_id,omitempty"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	TotalValue  float64   `json:"total_value"`
	CashBalance float64   `json:"cash_balance"`
	ReturnPct   float64   `json:"return_pct"`
	IsViewer    bool      `json:"is_viewer"`
}

// Build returns league members ranked by total value descending. When the
// league's anonymous flag is set, every entry except the viewer's own is
// replaced with a positional "Player N" label and its avatar suppressed.
func (s *LeaderboardService) Build(ctx context.Context, leagueID uuid.UUID, viewerUserID string) ([]Entry, error) {
	league, err := s.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, leagueID, viewerUserID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListMemberRows(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalValue != rows[j].TotalValue {
			return rows[i].TotalValue > rows[j].TotalValue
		}
		return rows[i].JoinedAt.Before(rows[j].JoinedAt)
	})

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		returnPct := 0.0
		if league.Budget > 0 {
			returnPct = (row.TotalValue - league.Budget) / league.Budget * 100
		}

		entry := Entry{
			Rank:        i + 1,
			MemberID:    row.MemberID,
			UserID:      row.UserID,
			Username:    row.Username,
			AvatarURL:   row.AvatarURL,
			TotalValue:  row.TotalValue,
			CashBalance: row.CashBalance,
			ReturnPct:   returnPct,
			IsViewer:    row.UserID == viewerUserID,
		}

		if league.AnonymousMode && !entry.IsViewer {
			entry.Username = fmt.Sprintf("Player %d", entry.Rank)
			entry.AvatarURL = ""
			entry.UserID = ""
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
