package models

import (
	"errors"
	"time"

	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

// ContributionPlan is a recurring-investment instruction: invest AmountPerDay
// on every business day, caught up in one consolidated order per evaluation.
//
// Plan states: unarmed (LastRun empty) -> armed (LastRun set, advanced by the
// scheduler after each successful batch) -> suspended (Active false, LastRun
// frozen) -> armed again when reactivated.
type ContributionPlan struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code         string    `json:"code" gorm:"uniqueIndex;not null"`
	AmountPerDay float64   `json:"amount_per_day"`
	LastRun      string    `json:"last_run"` // "2006-01-02" in the reference zone; empty = not yet armed
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate enforces plan invariants.
func (p *ContributionPlan) Validate() error {
	if p.Code == "" {
		return errors.New("plan code cannot be empty")
	}
	if p.Active && p.AmountPerDay <= 0 {
		return errors.New("amount per day must be positive for an active plan")
	}
	if p.LastRun != "" {
		if _, err := tradedate.Parse(p.LastRun); err != nil {
			return err
		}
	}
	return nil
}

// Armed reports whether the plan has a last-execution date.
func (p *ContributionPlan) Armed() bool {
	return p.LastRun != ""
}

// Arm sets the last-execution date to today without producing an order.
// The arming pass itself never buys; catch-up starts on the next evaluation.
func (p *ContributionPlan) Arm(today tradedate.Date) {
	p.LastRun = today.String()
}

// LastRunDate parses the last-execution date. Callers must check Armed first.
func (p *ContributionPlan) LastRunDate() (tradedate.Date, error) {
	return tradedate.Parse(p.LastRun)
}

// AddPlanRequest is the API payload for creating a contribution plan.
type AddPlanRequest struct {
	Code         string  `json:"code" binding:"required"`
	AmountPerDay float64 `json:"amount_per_day" binding:"required"`
	Active       *bool   `json:"active"`
}

// UpdatePlanRequest is the API payload for editing a plan. Nil fields are
// left unchanged.
type UpdatePlanRequest struct {
	AmountPerDay *float64 `json:"amount_per_day"`
	Active       *bool    `json:"active"`
}
