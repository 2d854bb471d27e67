/**
 * @description
 * User profile database model.
 * Maps to the 'profiles' table in PostgreSQL.
 * Keyed by the identity provider's subject id; identity itself (sessions,
 * passwords) lives entirely with the provider.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Profile stores the display identity for a user.
type Profile struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by Profile to `profiles`
func (Profile) TableName() string {
	return "profiles"
}
