package services

import (
	"context"
	"testing"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateAndGet(t *testing.T) {
	svc := NewProfileService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Get(ctx, "user_1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Update(ctx, "user_1", "", "")
	assert.True(t, apperr.IsValidation(err), "empty username should be rejected")

	updated, err := svc.Update(ctx, "user_1", "alice", "https://img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)

	profile, err := svc.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "https://img/a.png", profile.AvatarURL)
}
