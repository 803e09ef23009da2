package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/services"
	"github.com/fundfolio/fund-tracker/internal/store"
)

type HoldingHandler struct {
	holdings store.HoldingStore
	navFeed  services.NavFeed
}

func NewHoldingHandler(holdings store.HoldingStore, navFeed services.NavFeed) *HoldingHandler {
	return &HoldingHandler{holdings: holdings, navFeed: navFeed}
}

func (h *HoldingHandler) GetHoldings(c *gin.Context) {
	holdings, err := h.holdings.ListHoldings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, holdings)
}

// AddHolding opens a new position. The display name is refreshed from the
// NAV feed on a best-effort basis; a dead feed never blocks the create.
func (h *HoldingHandler) AddHolding(c *gin.Context) {
	var req models.AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding := models.Holding{
		Code:      req.Code,
		Shares:    req.Shares,
		AvgCost:   req.AvgCost,
		ProxyCode: req.ProxyCode,
	}
	holding.Normalize()
	if err := holding.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	holdings, err := h.holdings.ListHoldings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, existing := range holdings {
		if existing.Code == holding.Code {
			c.JSON(http.StatusConflict, gin.H{"error": "holding already exists, use buy to add to it"})
			return
		}
	}

	if quote, err := h.navFeed.FetchNav(ctx, holding.Code); err == nil && quote.Name != "" {
		holding.Name = quote.Name
	}

	holdings = append(holdings, holding)
	if err := h.holdings.ReplaceHoldings(ctx, holdings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, holding)
}

// BuyHolding applies a manual buy to an existing position, recomputing the
// volume-weighted average cost.
func (h *HoldingHandler) BuyHolding(c *gin.Context) {
	code := models.NormalizeCode(c.Param("code"))

	var req models.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	holdings, err := h.holdings.ListHoldings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range holdings {
		if holdings[i].Code != code {
			continue
		}
		if err := holdings[i].ApplyBuy(req.Amount, req.Price); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.holdings.ReplaceHoldings(ctx, holdings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, holdings[i])
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
}

// DeleteHolding removes a position entirely. Removal is an explicit operator
// action; nothing in the engine soft-deletes holdings.
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	code := models.NormalizeCode(c.Param("code"))

	ctx := c.Request.Context()
	holdings, err := h.holdings.ListHoldings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	remaining := make([]models.Holding, 0, len(holdings))
	found := false
	for _, holding := range holdings {
		if holding.Code == code {
			found = true
			continue
		}
		remaining = append(remaining, holding)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}

	if err := h.holdings.ReplaceHoldings(ctx, remaining); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": code})
}
