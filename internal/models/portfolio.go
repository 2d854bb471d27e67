/**
 * @description
 * Portfolio, Holding and PortfolioHistory database models.
 * Map to the 'portfolios', 'holdings' and 'portfolio_history' tables.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 *
 * @notes
 * - A portfolio belongs 1:1 to a league member and is seeded with
 *   cash_balance = total_value = league budget.
 * - Holdings are fully replaced on every draft save; no buy/sell history.
 * - portfolio_history has a composite key (portfolio_id, recorded_at) so a
 *   same-day refresh overwrites instead of appending.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio holds a member's cash balance and last computed total value.
// Invariant: total_value == cash_balance + sum of holding market values,
// recomputed on every refresh.
type Portfolio struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MemberID    uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex" json:"member_id"`
	CashBalance float64   `gorm:"column:cash_balance" json:"cash_balance"`
	TotalValue  float64   `gorm:"column:total_value" json:"total_value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by Portfolio to `portfolios`
func (Portfolio) TableName() string {
	return "portfolios"
}

// BeforeCreate ensures UUID is generated if not present
func (p *Portfolio) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Holding is a persisted quantity of a stock owned by a portfolio.
type Holding struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	PortfolioID uuid.UUID `gorm:"column:portfolio_id;type:uuid;not null;index" json:"portfolio_id"`
	StockSymbol string    `gorm:"column:stock_symbol;not null" json:"stock_symbol"`
	Quantity    float64   `gorm:"column:quantity" json:"quantity"`
	AvgPrice    float64   `gorm:"column:avg_price" json:"avg_price"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name used by Holding to `holdings`
func (Holding) TableName() string {
	return "holdings"
}

// BeforeCreate ensures UUID is generated if not present
func (h *Holding) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}

// PortfolioHistory is an append-only daily value snapshot. RecordedAt is a
// date-only key in UTC; at most one row exists per (portfolio, date).
type PortfolioHistory struct {
	PortfolioID uuid.UUID `gorm:"column:portfolio_id;type:uuid;primaryKey" json:"portfolio_id"`
	RecordedAt  time.Time `gorm:"column:recorded_at;type:date;primaryKey" json:"recorded_at"`
	TotalValue  float64   `gorm:"column:total_value" json:"total_value"`
}

// TableName overrides the table name used by PortfolioHistory to `portfolio_history`
func (PortfolioHistory) TableName() string {
	return "portfolio_history"
}
