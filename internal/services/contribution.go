package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/fundfolio/fund-tracker/internal/metrics"
	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/store"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

// ContributionService converts elapsed business days since a plan's last
// execution into a single consolidated catch-up buy, executed at the
// authoritative NAV. All missed days are bought at one blended price, a
// documented approximation of true daily investing.
type ContributionService struct {
	nav      NavFeed
	holdings store.HoldingStore
	plans    store.PlanStore
}

// NewContributionService creates the scheduler over its collaborators.
func NewContributionService(nav NavFeed, holdings store.HoldingStore, plans store.PlanStore) *ContributionService {
	return &ContributionService{nav: nav, holdings: holdings, plans: plans}
}

// CatchupExecution records one successfully applied catch-up order.
type CatchupExecution struct {
	OrderID        string  `json:"order_id"`
	Code           string  `json:"code"`
	TotalAmount    float64 `json:"total_amount"`
	EligibleDays   int     `json:"eligible_days"`
	ExecutionPrice float64 `json:"execution_price"`
	AddedShares    float64 `json:"added_shares"`
}

// CatchupFailure records a plan whose order could not be applied. Its
// last-execution date is left untouched so the operator can retry.
type CatchupFailure struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// CatchupReport summarizes one scheduler pass.
type CatchupReport struct {
	Date     string             `json:"date"`
	Executed []CatchupExecution `json:"executed"`
	Failures []CatchupFailure   `json:"failures"`
	Skipped  int                `json:"skipped"` // inactive, unarmed, or already up to date
}

// ComputeCatchup evaluates a plan against today and returns the consolidated
// order, or nil when there is nothing to do: the plan is inactive, not yet
// armed, already up to date, or no business day has passed. It is a pure
// function of its inputs.
func (s *ContributionService) ComputeCatchup(plan models.ContributionPlan, today tradedate.Date) *models.CatchupOrder {
	if !plan.Active || !plan.Armed() {
		return nil
	}

	lastRun, err := plan.LastRunDate()
	if err != nil {
		log.Printf("Contribution scheduler: plan %s has malformed last run %q, skipping", plan.Code, plan.LastRun)
		return nil
	}

	if !today.After(lastRun) {
		return nil
	}

	eligibleDays := tradedate.BusinessDaysAfter(lastRun, today)
	if eligibleDays == 0 {
		return nil
	}

	return &models.CatchupOrder{
		Code:         plan.Code,
		TotalAmount:  float64(eligibleDays) * plan.AmountPerDay,
		EligibleDays: eligibleDays,
	}
}

// ApplyCatchup applies an order to a holding at the given execution price
// and returns the updated copy. The price must be positive: without it the
// order cannot be applied and the caller must report the failure rather
// than skip it silently.
func (s *ContributionService) ApplyCatchup(holding models.Holding, order models.CatchupOrder, executionPrice float64) (models.Holding, error) {
	updated := holding
	if err := updated.ApplyBuy(order.TotalAmount, executionPrice); err != nil {
		return holding, fmt.Errorf("apply catch-up for %s: %w", order.Code, err)
	}
	return updated, nil
}

// RunCatchups performs one scheduler pass over every plan as of today.
//
// For each armed, active plan with eligible days it fetches the execution
// price from the authoritative feed, applies the buy (creating the holding
// for a previously-unseen instrument), and advances the plan's last-execution
// date. A plan whose price is unavailable is recorded as a failure and its
// date is NOT advanced; other plans are unaffected. Nothing is persisted
// until the whole pass has been evaluated in memory.
func (s *ContributionService) RunCatchups(ctx context.Context, today tradedate.Date) (*CatchupReport, error) {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("run catch-ups: %w", err)
	}
	holdings, err := s.holdings.ListHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("run catch-ups: %w", err)
	}

	index := make(map[string]int, len(holdings))
	for i, h := range holdings {
		index[h.Code] = i
	}

	report := &CatchupReport{
		Date:     today.String(),
		Executed: []CatchupExecution{},
		Failures: []CatchupFailure{},
	}
	changed := false

	for i := range plans {
		plan := &plans[i]

		order := s.ComputeCatchup(*plan, today)
		if order == nil {
			report.Skipped++
			continue
		}

		quote, navErr := s.nav.FetchNav(ctx, plan.Code)
		if navErr != nil || quote.NAV <= 0 {
			report.Failures = append(report.Failures, CatchupFailure{
				Code:   plan.Code,
				Reason: "execution price unavailable",
			})
			metrics.CatchupFailuresTotal.Inc()
			log.Printf("Contribution scheduler: no execution price for %s, order of %.2f not applied", plan.Code, order.TotalAmount)
			continue
		}

		pos, known := index[plan.Code]
		if !known {
			// First scheduled contribution for an instrument with no
			// existing position opens one.
			holdings = append(holdings, models.Holding{Code: plan.Code, Name: quote.Name})
			pos = len(holdings) - 1
			index[plan.Code] = pos
		}

		updated, applyErr := s.ApplyCatchup(holdings[pos], *order, quote.NAV)
		if applyErr != nil {
			report.Failures = append(report.Failures, CatchupFailure{
				Code:   plan.Code,
				Reason: applyErr.Error(),
			})
			metrics.CatchupFailuresTotal.Inc()
			continue
		}
		if quote.Name != "" {
			updated.Name = quote.Name
		}
		holdings[pos] = updated
		plan.LastRun = today.String()
		changed = true

		report.Executed = append(report.Executed, CatchupExecution{
			OrderID:        uuid.New().String(),
			Code:           order.Code,
			TotalAmount:    order.TotalAmount,
			EligibleDays:   order.EligibleDays,
			ExecutionPrice: quote.NAV,
			AddedShares:    order.TotalAmount / quote.NAV,
		})
		metrics.CatchupOrdersTotal.Inc()
		metrics.CatchupAmountTotal.Add(order.TotalAmount)
	}

	if changed {
		if err := s.holdings.ReplaceHoldings(ctx, holdings); err != nil {
			return report, fmt.Errorf("persist holdings after catch-up: %w", err)
		}
		if err := s.plans.ReplacePlans(ctx, plans); err != nil {
			return report, fmt.Errorf("persist plans after catch-up: %w", err)
		}
	}

	log.Printf("Contribution scheduler: %s executed=%d failed=%d skipped=%d",
		today, len(report.Executed), len(report.Failures), report.Skipped)
	return report, nil
}
