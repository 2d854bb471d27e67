package services

import (
	"context"
	"testing"
	"time"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portfolioFixture(t *testing.T) (store.Store, *PortfolioService, *LeagueService) {
	t.Helper()
	st := store.NewMemoryStore()
	leagues := NewLeagueService(st)
	drafts := NewDraftService(st)
	ctx := context.Background()

	league, err := leagues.Create(ctx, "user_1", CreateLeagueParams{
		Name: "Degens", Budget: 100000, JoinCode: "4242",
	})
	require.NoError(t, err)

	_, err = drafts.SaveDraft(ctx, "user_1", league.ID, []DraftLine{
		{Symbol: "AAPL", Name: "Apple Inc", Price: 150, Allocation: "60"},
		{Symbol: "MSFT", Name: "Microsoft Corp", Price: 300, Allocation: "40"},
	})
	require.NoError(t, err)

	return st, NewPortfolioService(st), leagues
}

func TestPortfolioSummary(t *testing.T) {
	st, svc, _ := portfolioFixture(t)
	ctx := context.Background()

	leagues, err := st.ListLeaguesForUser(ctx, "user_1")
	require.NoError(t, err)
	leagueID := leagues[0].ID

	view, err := svc.Summary(ctx, "user_1", leagueID)
	require.NoError(t, err)

	require.Len(t, view.Holdings, 2)
	assert.Equal(t, "AAPL", view.Holdings[0].Symbol)
	assert.Equal(t, "Apple Inc", view.Holdings[0].Name)
	assert.InDelta(t, 400, view.Holdings[0].Quantity, 1e-9)
	assert.InDelta(t, 150, view.Holdings[0].CurrentPrice, 1e-9)
	assert.InDelta(t, 60000, view.Holdings[0].MarketValue, 1e-6)
}

func TestMemberHoldingsVisibility(t *testing.T) {
	st, svc, leagues := portfolioFixture(t)
	ctx := context.Background()

	listed, err := st.ListLeaguesForUser(ctx, "user_1")
	require.NoError(t, err)
	leagueID := listed[0].ID

	viewer, err := leagues.Join(ctx, "user_2", "4242")
	require.NoError(t, err)

	target, err := st.GetMember(ctx, leagueID, "user_1")
	require.NoError(t, err)

	// Open league: picks are visible to any member.
	view, err := svc.MemberHoldings(ctx, "user_2", leagueID, target.ID)
	require.NoError(t, err)
	assert.Len(t, view.Holdings, 2)

	// Anonymous league: only your own picks are visible.
	require.NoError(t, st.SetLeagueAnonymous(ctx, leagueID, true))

	_, err = svc.MemberHoldings(ctx, "user_2", leagueID, target.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	own, err := svc.MemberHoldings(ctx, "user_2", leagueID, viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, own.Holdings)

	// Non-members see nothing either way.
	_, err = svc.MemberHoldings(ctx, "stranger", leagueID, target.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemberHoldingsWrongLeague(t *testing.T) {
	st, svc, leagues := portfolioFixture(t)
	ctx := context.Background()

	listed, err := st.ListLeaguesForUser(ctx, "user_1")
	require.NoError(t, err)
	leagueID := listed[0].ID

	other, err := leagues.Create(ctx, "user_1", CreateLeagueParams{
		Name: "Other", Budget: 50000, JoinCode: "9999",
	})
	require.NoError(t, err)
	otherMember, err := st.GetMember(ctx, other.ID, "user_1")
	require.NoError(t, err)

	// A member id from another league is treated as missing.
	_, err = svc.MemberHoldings(ctx, "user_1", leagueID, otherMember.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPortfolioHistory(t *testing.T) {
	st, svc, _ := portfolioFixture(t)
	ctx := context.Background()

	listed, err := st.ListLeaguesForUser(ctx, "user_1")
	require.NoError(t, err)
	leagueID := listed[0].ID

	member, err := st.GetMember(ctx, leagueID, "user_1")
	require.NoError(t, err)
	portfolio, err := st.GetPortfolioByMember(ctx, member.ID)
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpsertPortfolioHistory(ctx, portfolio.ID, day2, 105000))
	require.NoError(t, st.UpsertPortfolioHistory(ctx, portfolio.ID, day1, 100000))

	history, err := svc.History(ctx, "user_1", leagueID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Oldest first, regardless of insert order.
	assert.Equal(t, 100000.0, history[0].TotalValue)
	assert.Equal(t, 105000.0, history[1].TotalValue)
}
