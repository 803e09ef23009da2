package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// fundCodeWidth is the fixed width of open-end fund codes.
const fundCodeWidth = 6

// Holding is one tracked instrument position.
type Holding struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Shares    float64   `json:"shares"`
	AvgCost   float64   `json:"avg_cost"`
	ProxyCode string    `json:"proxy_code"` // correlated intraday instrument, optional
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeCode left-pads numeric fund codes to the fixed 6-digit width.
// Non-numeric identifiers are returned trimmed but otherwise untouched.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code
		}
	}
	if len(code) < fundCodeWidth {
		return strings.Repeat("0", fundCodeWidth-len(code)) + code
	}
	return code
}

// Normalize canonicalizes the holding's identifiers in place.
func (h *Holding) Normalize() {
	h.Code = NormalizeCode(h.Code)
	h.ProxyCode = NormalizeCode(h.ProxyCode)
}

// Validate enforces the holding invariants.
func (h *Holding) Validate() error {
	if h.Code == "" {
		return errors.New("holding code cannot be empty")
	}
	if h.Shares < 0 {
		return errors.New("shares cannot be negative")
	}
	if h.AvgCost < 0 {
		return errors.New("average cost cannot be negative")
	}
	return nil
}

// CostBasis returns the total amount paid for the position.
func (h *Holding) CostBasis() float64 {
	return h.Shares * h.AvgCost
}

// ApplyBuy adds a purchase of `amount` currency at `price` per share and
// recomputes the average cost as a weighted sum over the whole position:
//
//	newAvg = (oldShares*oldAvg + amount) / (oldShares + amount/price)
//
// The weighted-sum form keeps the average stable across many small buys,
// unlike repeated incremental averaging.
func (h *Holding) ApplyBuy(amount, price float64) error {
	if amount <= 0 {
		return errors.New("buy amount must be positive")
	}
	if price <= 0 {
		return fmt.Errorf("execution price must be positive, got %v", price)
	}
	addedShares := amount / price
	newShares := h.Shares + addedShares
	h.AvgCost = (h.Shares*h.AvgCost + amount) / newShares
	h.Shares = newShares
	return nil
}

// AddHoldingRequest is the API payload for opening a position.
type AddHoldingRequest struct {
	Code      string  `json:"code" binding:"required"`
	Shares    float64 `json:"shares"`
	AvgCost   float64 `json:"avg_cost"`
	ProxyCode string  `json:"proxy_code"`
}

// BuyRequest is the API payload for a manual buy against a holding.
type BuyRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Price  float64 `json:"price" binding:"required"`
}
