package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/services"
	"github.com/fundfolio/fund-tracker/internal/store"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

type PortfolioHandler struct {
	valuation *services.ValuationService
	holdings  store.HoldingStore
	snapshots store.SnapshotStore
}

func NewPortfolioHandler(valuation *services.ValuationService, holdings store.HoldingStore, snapshots store.SnapshotStore) *PortfolioHandler {
	return &PortfolioHandler{
		valuation: valuation,
		holdings:  holdings,
		snapshots: snapshots,
	}
}

// GetPortfolio values every holding in one synchronous pass and returns the
// rows plus aggregated totals, as of today in the reference zone.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	holdings, err := h.holdings.ListHoldings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	today := tradedate.Today()
	rows, summary := h.valuation.ValuePortfolio(c.Request.Context(), holdings, today)

	c.JSON(http.StatusOK, gin.H{
		"date":    today.String(),
		"rows":    rows,
		"summary": summary,
	})
}

// GetHistory returns historical portfolio value snapshots for a period:
// "week", "month", "year", or "all" (default "month").
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	since := ""
	today := tradedate.Today()
	switch period {
	case "week":
		since = today.Add(-7).String()
	case "month":
		since = today.Add(-30).String()
	case "year":
		since = today.Add(-365).String()
	case "all":
		since = ""
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be week, month, year, or all"})
		return
	}

	snaps, err := h.snapshots.ListSnapshots(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SnapshotHistoryResponse{
		Snapshots: snaps,
		Period:    period,
	})
}
