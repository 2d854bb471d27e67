/**
 * @description
 * League database model.
 * Maps to the 'leagues' table in PostgreSQL.
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

// League represents a competitive group of members drafting portfolios
// against a shared budget.
type League struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	AdminID       string     `gorm:"column:admin_id;not null;index" json:"admin_id"`
	Budget        float64    `gorm:"not null" json:"budget"`
	StartDate     *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate       *time.Time `gorm:"column:end_date" json:"end_date"`
	IsActive      bool       `gorm:"column:is_active;default:true" json:"is_active"`
	IsLocked      bool       `gorm:"column:is_locked;default:false" json:"is_locked"`
	AnonymousMode bool       `gorm:"column:anonymous_mode;default:false" json:"anonymous_mode"`
	JoinCode      string     `gorm:"column:join_code;uniqueIndex;not null" json:"join_code"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name used by League to `leagues`
func (League) TableName() string {
	return "leagues"
}

// BeforeCreate ensures UUID is generated if not present
func (l *League) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
