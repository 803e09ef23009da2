// Package metrics provides Prometheus metrics for the fund tracker.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fundfolio/fund-tracker/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fund_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Feed Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_feed_requests_total",
			Help: "Total number of price feed requests by feed and outcome",
		},
		[]string{"feed", "result"}, // feed: "nav" or "proxy", result: "ok", "unavailable", "cache"
	)

	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fund_feed_request_duration_seconds",
			Help:    "Price feed request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3},
		},
		[]string{"feed"},
	)

	// Valuation Metrics
	ValuationPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_valuation_passes_total",
			Help: "Total number of full portfolio valuation passes",
		},
	)

	ValuationSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_valuation_source_total",
			Help: "Valuation rows by pricing source",
		},
		[]string{"source"}, // "authoritative", "proxy", "no-proxy"
	)

	// Contribution Scheduler Metrics
	CatchupOrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_catchup_orders_total",
			Help: "Total number of catch-up orders executed",
		},
	)

	CatchupFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_catchup_failures_total",
			Help: "Total number of catch-up orders that could not be applied",
		},
	)

	CatchupAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_catchup_amount_total",
			Help: "Total currency amount invested through catch-up orders",
		},
	)

	// Portfolio Metrics
	PortfolioHoldings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fund_portfolio_holdings",
			Help: "Number of holdings in the portfolio",
		},
	)

	PortfolioValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fund_portfolio_value",
			Help: "Current estimated portfolio value",
		},
	)

	PortfolioDayChange = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fund_portfolio_day_change",
			Help: "Estimated portfolio day change",
		},
	)

	PortfolioProfit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fund_portfolio_profit",
			Help: "Cumulative portfolio profit against cost basis",
		},
	)
)

// UpdatePortfolioMetrics refreshes the portfolio gauges after a valuation pass.
func UpdatePortfolioMetrics(summary models.PortfolioSummary) {
	PortfolioHoldings.Set(float64(summary.Holdings))
	PortfolioValue.Set(summary.TotalValue)
	PortfolioDayChange.Set(summary.TotalDayChange)
	PortfolioProfit.Set(summary.TotalProfit)
}
