package models

import (
	"time"
)

// PortfolioSnapshot stores one portfolio valuation per reference-zone day
// for historical tracking.
type PortfolioSnapshot struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SnapshotDate   string    `json:"snapshot_date" gorm:"uniqueIndex;not null"` // "2006-01-02" in the reference zone
	Holdings       int       `json:"holdings"`
	TotalValue     float64   `json:"total_value"`
	TotalDayChange float64   `json:"total_day_change"`
	TotalProfit    float64   `json:"total_profit"`
	TotalCost      float64   `json:"total_cost"`
	CreatedAt      time.Time `json:"created_at"`
}

// SnapshotHistoryResponse is the API response for portfolio value history.
type SnapshotHistoryResponse struct {
	Snapshots []PortfolioSnapshot `json:"snapshots"`
	Period    string              `json:"period"` // "week", "month", "year", "all"
}
