package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/services"
	"github.com/fundfolio/fund-tracker/internal/store"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

type PlanHandler struct {
	plans        store.PlanStore
	contribution *services.ContributionService
}

func NewPlanHandler(plans store.PlanStore, contribution *services.ContributionService) *PlanHandler {
	return &PlanHandler{plans: plans, contribution: contribution}
}

func (h *PlanHandler) GetPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// AddPlan creates a contribution plan. The first save arms the plan: its
// last-execution date is set to today and no order is produced until the
// next evaluation.
func (h *PlanHandler) AddPlan(c *gin.Context) {
	var req models.AddPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := models.ContributionPlan{
		Code:         models.NormalizeCode(req.Code),
		AmountPerDay: req.AmountPerDay,
		Active:       true,
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	plan.Arm(tradedate.Today())
	if err := plan.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	plans, err := h.plans.ListPlans(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, existing := range plans {
		if existing.Code == plan.Code {
			c.JSON(http.StatusConflict, gin.H{"error": "plan already exists for this code"})
			return
		}
	}

	plans = append(plans, plan)
	if err := h.plans.ReplacePlans(ctx, plans); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan edits a plan's amount or active flag. Deactivating a plan
// freezes its last-execution date; reactivating resumes from it.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	code := models.NormalizeCode(c.Param("code"))

	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	plans, err := h.plans.ListPlans(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range plans {
		if plans[i].Code != code {
			continue
		}
		if req.AmountPerDay != nil {
			plans[i].AmountPerDay = *req.AmountPerDay
		}
		if req.Active != nil {
			plans[i].Active = *req.Active
		}
		if err := plans[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.plans.ReplacePlans(ctx, plans); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, plans[i])
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	code := models.NormalizeCode(c.Param("code"))

	ctx := c.Request.Context()
	plans, err := h.plans.ListPlans(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	remaining := make([]models.ContributionPlan, 0, len(plans))
	found := false
	for _, plan := range plans {
		if plan.Code == code {
			found = true
			continue
		}
		remaining = append(remaining, plan)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}

	if err := h.plans.ReplacePlans(ctx, remaining); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": code})
}

// RunCatchups triggers one scheduler pass immediately. Per-instrument
// failures are reported in the body, not as an HTTP error; the operator can
// retry those plans later.
func (h *PlanHandler) RunCatchups(c *gin.Context) {
	report, err := h.contribution.RunCatchups(c.Request.Context(), tradedate.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}
