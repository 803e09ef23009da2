package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fundfolio/fund-tracker/internal/models"
)

// GormStore implements all persistence ports on a gorm database handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListHoldings returns all holdings ordered by code.
func (s *GormStore) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return holdings, nil
}

// ReplaceHoldings overwrites the holdings collection in one transaction.
func (s *GormStore) ReplaceHoldings(ctx context.Context, holdings []models.Holding) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Holding{}).Error; err != nil {
			return err
		}
		if len(holdings) == 0 {
			return nil
		}
		// Let sqlite reassign row IDs; identity is the code column.
		for i := range holdings {
			holdings[i].ID = 0
		}
		return tx.Create(&holdings).Error
	})
	if err != nil {
		return fmt.Errorf("replace holdings: %w", err)
	}
	return nil
}

// ListPlans returns all contribution plans ordered by code.
func (s *GormStore) ListPlans(ctx context.Context) ([]models.ContributionPlan, error) {
	var plans []models.ContributionPlan
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// ReplacePlans overwrites the plan collection in one transaction.
func (s *GormStore) ReplacePlans(ctx context.Context, plans []models.ContributionPlan) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ContributionPlan{}).Error; err != nil {
			return err
		}
		if len(plans) == 0 {
			return nil
		}
		for i := range plans {
			plans[i].ID = 0
		}
		return tx.Create(&plans).Error
	})
	if err != nil {
		return fmt.Errorf("replace plans: %w", err)
	}
	return nil
}

// ListSnapshots returns snapshots on or after sinceDate ("2006-01-02"),
// oldest first. An empty sinceDate returns the full history.
func (s *GormStore) ListSnapshots(ctx context.Context, sinceDate string) ([]models.PortfolioSnapshot, error) {
	query := s.db.WithContext(ctx).Order("snapshot_date ASC")
	if sinceDate != "" {
		query = query.Where("snapshot_date >= ?", sinceDate)
	}
	var snaps []models.PortfolioSnapshot
	if err := query.Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// UpsertSnapshot inserts the snapshot or updates the existing row for the
// same reference-zone day.
func (s *GormStore) UpsertSnapshot(ctx context.Context, snap models.PortfolioSnapshot) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"holdings", "total_value", "total_day_change", "total_profit", "total_cost",
		}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
