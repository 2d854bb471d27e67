/**
 * @description
 * League membership database model.
 * Maps to the 'league_members' table in PostgreSQL.
 * Exactly one row per (league, user); the league owner is the member whose
 * user id equals the league's admin_id.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member binds a user identity to a league.
type Member struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	LeagueID uuid.UUID `gorm:"column:league_id;type:uuid;not null;index:idx_league_user,unique" json:"league_id"`
	UserID   string    `gorm:"column:user_id;not null;index:idx_league_user,unique" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name used by Member to `league_members`
func (Member) TableName() string {
	return "league_members"
}

// BeforeCreate ensures UUID is generated if not present
func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
