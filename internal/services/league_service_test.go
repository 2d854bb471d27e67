package services

import (
	"context"
	"testing"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeagueValidation(t *testing.T) {
	svc := NewLeagueService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "user_1", CreateLeagueParams{Budget: 100000, JoinCode: "1234"})
	assert.True(t, apperr.IsValidation(err), "missing name should fail validation")

	_, err = svc.Create(ctx, "user_1", CreateLeagueParams{Name: "Degens", Budget: 0, JoinCode: "1234"})
	assert.True(t, apperr.IsValidation(err), "zero budget should fail validation")

	for _, code := range []string{"", "123", "12345", "12ab", "12.4"} {
		_, err = svc.Create(ctx, "user_1", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: code})
		assert.ErrorIs(t, err, apperr.ErrInvalidCode, "code %q should be rejected", code)
	}
}

func TestCreateLeagueSeedsOwner(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLeagueService(st)
	ctx := context.Background()

	league, err := svc.Create(ctx, "user_1", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "user_1", league.AdminID)
	assert.True(t, league.IsActive)
	require.NotNil(t, league.StartDate)
	require.NotNil(t, league.EndDate)
	assert.True(t, league.EndDate.After(*league.StartDate))

	member, err := st.GetMember(ctx, league.ID, "user_1")
	require.NoError(t, err)

	portfolio, err := st.GetPortfolioByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, portfolio.CashBalance)
	assert.Equal(t, 100000.0, portfolio.TotalValue)

	// A default profile is created so leaderboard rows always have a name.
	profile, err := st.GetProfile(ctx, "user_1")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Username)
}

func TestCreateLeagueCodeTaken(t *testing.T) {
	svc := NewLeagueService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "user_1", CreateLeagueParams{Name: "First", Budget: 100000, JoinCode: "1234"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user_2", CreateLeagueParams{Name: "Second", Budget: 50000, JoinCode: "1234"})
	assert.ErrorIs(t, err, apperr.ErrCodeTaken)
}

func TestJoinLeague(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLeagueService(st)
	ctx := context.Background()

	league, err := svc.Create(ctx, "owner", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: "4242"})
	require.NoError(t, err)

	member, err := svc.Join(ctx, "user_2", "4242")
	require.NoError(t, err)
	assert.Equal(t, league.ID, member.LeagueID)

	portfolio, err := st.GetPortfolioByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, portfolio.CashBalance)

	// Joining again is a no-op returning the existing membership.
	again, err := svc.Join(ctx, "user_2", "4242")
	require.NoError(t, err)
	assert.Equal(t, member.ID, again.ID)

	_, err = svc.Join(ctx, "user_3", "9999")
	assert.ErrorIs(t, err, apperr.ErrInvalidCode, "unknown code should look invalid, not missing")

	_, err = svc.Join(ctx, "user_3", "42")
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestOwnerOnlyOperations(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLeagueService(st)
	ctx := context.Background()

	league, err := svc.Create(ctx, "owner", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: "4242"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user_2", "4242")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetLocked(ctx, "user_2", league.ID, true), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.SetAnonymous(ctx, "user_2", league.ID, true), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "user_2", league.ID), apperr.ErrForbidden)

	require.NoError(t, svc.SetLocked(ctx, "owner", league.ID, true))
	updated, err := st.GetLeague(ctx, league.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsLocked)
}

func TestDeleteLeagueCascades(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewLeagueService(st)
	ctx := context.Background()

	league, err := svc.Create(ctx, "owner", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: "4242"})
	require.NoError(t, err)
	member, err := svc.Join(ctx, "user_2", "4242")
	require.NoError(t, err)

	portfolio, err := st.GetPortfolioByMember(ctx, member.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner", league.ID))

	_, err = st.GetLeague(ctx, league.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = st.GetMember(ctx, league.ID, "user_2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = st.GetPortfolio(ctx, portfolio.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetLeagueMembersOnly(t *testing.T) {
	svc := NewLeagueService(store.NewMemoryStore())
	ctx := context.Background()

	league, err := svc.Create(ctx, "owner", CreateLeagueParams{Name: "Degens", Budget: 100000, JoinCode: "4242"})
	require.NoError(t, err)

	view, err := svc.Get(ctx, "owner", league.ID)
	require.NoError(t, err)
	assert.True(t, view.IsOwner)

	_, err = svc.Get(ctx, "stranger", league.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
