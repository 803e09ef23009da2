package models

import (
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

// Pricing source labels reported on each valuation row.
const (
	SourceAuthoritative = "authoritative"
	SourceNoProxy       = "no-proxy"
	SourceProxyPrefix   = "proxy:"
)

// NavQuote is the authoritative feed's answer for one fund: the latest
// published net asset value and the trading day it belongs to.
type NavQuote struct {
	Code    string         `json:"code"`
	Name    string         `json:"name"`
	NAV     float64        `json:"nav"`
	NavDate tradedate.Date `json:"nav_date"`
}

// ProxyQuote is an intraday snapshot of a correlated, continuously-quoted
// instrument. Current may be zero before the first trade of the session.
type ProxyQuote struct {
	PriorClose float64 `json:"prior_close"`
	Current    float64 `json:"current"`
}

// DayChangeRate returns the proxy's percentage move for the session.
// A zero Current (no trade yet) falls back to the prior close, and a zero
// prior close yields zero rather than dividing by it.
func (q ProxyQuote) DayChangeRate() float64 {
	if q.PriorClose == 0 {
		return 0
	}
	current := q.Current
	if current == 0 {
		current = q.PriorClose
	}
	return (current - q.PriorClose) / q.PriorClose * 100
}

// ValuationRow is the valuation of a single holding at one point in time.
type ValuationRow struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Shares       float64 `json:"shares"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentValue float64 `json:"current_value"`
	DayChange    float64 `json:"day_change"`
	TotalProfit  float64 `json:"total_profit"`
	ReturnPct    float64 `json:"return_pct"`
	Source       string  `json:"source"`
}

// PortfolioSummary aggregates valuation rows across the whole portfolio.
type PortfolioSummary struct {
	Holdings       int     `json:"holdings"`
	TotalValue     float64 `json:"total_value"`
	TotalDayChange float64 `json:"total_day_change"`
	TotalProfit    float64 `json:"total_profit"`
	TotalCost      float64 `json:"total_cost"`
	TotalReturnPct float64 `json:"total_return_pct"`
}

// CatchupOrder is a single consolidated buy covering every eligible business
// day since a plan's last execution. It is a pure function of (plan, today):
// evaluating the same plan twice without an intervening execution yields an
// identical order.
type CatchupOrder struct {
	Code         string  `json:"code"`
	TotalAmount  float64 `json:"total_amount"`
	EligibleDays int     `json:"eligible_days"`
}
