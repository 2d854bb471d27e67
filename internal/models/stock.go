/**
 * @description
 * Stock reference cache model.
 * Maps to the 'stocks' table in PostgreSQL.
 * One row per symbol, shared across all portfolios holding that symbol;
 * upserted opportunistically on every draft save and price refresh.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Stock caches the last known quote for a symbol.
type Stock struct {
	Symbol       string    `gorm:"primaryKey" json:"symbol"`
	Name         string    `json:"name"`
	CurrentPrice float64   `gorm:"column:current_price" json:"current_price"`
	LastUpdated  time.Time `gorm:"column:last_updated" json:"last_updated"`
}

// TableName overrides the table name used by Stock to `stocks`
func (Stock) TableName() string {
	return "stocks"
}
