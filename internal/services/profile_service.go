/**
 * @description
 * Profile service for display identity (username, avatar).
 *
 * @dependencies
 * - github.com/PandaBuilds/stock-league/internal/store
 */

package services

import (
	"context"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/models"
	"github.com/PandaBuilds/stock-league/internal/store"
)

// ProfileService manages user display profiles.
type ProfileService struct {
	store store.Store
}

// NewProfileService creates a new ProfileService.
func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{store: st}
}

// Get returns the acting user's profile.
func (s *ProfileService) Get(ctx context.Context, actingUserID string) (*models.Profile, error) {
	return s.store.GetProfile(ctx, actingUserID)
}

// Update sets the acting user's username and avatar.
func (s *ProfileService) Update(ctx context.Context, actingUserID, username, avatarURL string) (*models.Profile, error) {
	if username == "" {
		return nil, apperr.Validationf("username is required")
	}

	profile := &models.Profile{
		ID:        actingUserID,
		Username:  username,
		AvatarURL: avatarURL,
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
