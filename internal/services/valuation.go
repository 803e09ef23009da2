package services

import (
	"context"

	"github.com/fundfolio/fund-tracker/internal/metrics"
	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

// ValuationService prices holdings. For each holding it chooses between the
// authoritative NAV (when today's NAV has been published) and an intraday
// estimate derived from a correlated proxy instrument's percentage move.
// It never returns an error: with all data sources down a holding degrades
// to its cost basis.
type ValuationService struct {
	nav   NavFeed
	proxy ProxyFeed
}

// NewValuationService creates a valuation service over the two feeds.
func NewValuationService(nav NavFeed, proxy ProxyFeed) *ValuationService {
	return &ValuationService{nav: nav, proxy: proxy}
}

// ValueHolding produces the valuation row for one holding as of today
// (a reference-zone date supplied by the caller, never the host clock).
//
// When the authoritative NAV is dated today it is definitive; the feed
// carries no previous NAV, so the day change is reported as zero in that
// mode. That is a deliberate approximation: total profit stays exact, only
// the intraday movement figure is a placeholder.
func (s *ValuationService) ValueHolding(ctx context.Context, holding models.Holding, today tradedate.Date) models.ValuationRow {
	row := models.ValuationRow{
		Code:    holding.Code,
		Name:    holding.Name,
		Shares:  holding.Shares,
		AvgCost: holding.AvgCost,
	}

	quote, err := s.nav.FetchNav(ctx, holding.Code)
	if err == nil && quote.Name != "" {
		row.Name = quote.Name
	}

	if err == nil && quote.NavDate.Equal(today) {
		row.Price = quote.NAV
		row.DayChange = 0
		row.Source = models.SourceAuthoritative
		metrics.ValuationSourceTotal.WithLabelValues("authoritative").Inc()
	} else {
		// NAV missing or stale: estimate off the proxy's session move.
		base := holding.AvgCost
		if err == nil {
			base = quote.NAV
		}

		changeRate := 0.0
		if holding.ProxyCode == "" {
			row.Source = models.SourceNoProxy
			metrics.ValuationSourceTotal.WithLabelValues("no-proxy").Inc()
		} else {
			row.Source = models.SourceProxyPrefix + holding.ProxyCode
			if proxyQuote, proxyErr := s.proxy.FetchQuote(ctx, holding.ProxyCode); proxyErr == nil {
				changeRate = proxyQuote.DayChangeRate()
			}
			metrics.ValuationSourceTotal.WithLabelValues("proxy").Inc()
		}

		row.Price = base * (1 + changeRate/100)
		row.DayChange = (row.Price - base) * holding.Shares
	}

	row.CurrentValue = row.Price * holding.Shares
	row.TotalProfit = row.CurrentValue - holding.CostBasis()
	if cost := holding.CostBasis(); cost != 0 {
		row.ReturnPct = row.TotalProfit / cost * 100
	}

	return row
}

// ValuePortfolio values every holding in one synchronous pass and returns
// the rows together with portfolio totals.
func (s *ValuationService) ValuePortfolio(ctx context.Context, holdings []models.Holding, today tradedate.Date) ([]models.ValuationRow, models.PortfolioSummary) {
	rows := make([]models.ValuationRow, 0, len(holdings))
	summary := models.PortfolioSummary{Holdings: len(holdings)}

	for _, holding := range holdings {
		row := s.ValueHolding(ctx, holding, today)
		rows = append(rows, row)

		summary.TotalValue += row.CurrentValue
		summary.TotalDayChange += row.DayChange
		summary.TotalProfit += row.TotalProfit
		summary.TotalCost += holding.CostBasis()
	}

	if summary.TotalCost != 0 {
		summary.TotalReturnPct = (summary.TotalValue - summary.TotalCost) / summary.TotalCost * 100
	}

	metrics.ValuationPassesTotal.Inc()
	metrics.UpdatePortfolioMetrics(summary)
	return rows, summary
}
