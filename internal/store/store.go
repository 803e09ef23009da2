// Package store defines the persistence ports for the tracker's collections
// and a sqlite-backed implementation. Saves have full-overwrite semantics:
// the caller hands back the complete collection and the previous contents are
// replaced. Concurrent writers are last-write-wins; there is no optimistic
// locking, which is an accepted limitation of the single-operator model.
package store

import (
	"context"

	"github.com/fundfolio/fund-tracker/internal/models"
)

// HoldingStore persists the holdings collection.
type HoldingStore interface {
	ListHoldings(ctx context.Context) ([]models.Holding, error)
	ReplaceHoldings(ctx context.Context, holdings []models.Holding) error
}

// PlanStore persists the contribution-plan collection.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]models.ContributionPlan, error)
	ReplacePlans(ctx context.Context, plans []models.ContributionPlan) error
}

// SnapshotStore persists daily portfolio value snapshots.
type SnapshotStore interface {
	ListSnapshots(ctx context.Context, sinceDate string) ([]models.PortfolioSnapshot, error)
	UpsertSnapshot(ctx context.Context, snap models.PortfolioSnapshot) error
}
