package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fundfolio/fund-tracker/internal/database"
	"github.com/fundfolio/fund-tracker/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return NewGormStore(db)
}

func TestReplaceHoldingsOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []models.Holding{
		{Code: "161725", Name: "White Spirits Index", Shares: 1000, AvgCost: 1.0},
		{Code: "005827", Name: "Blue Chip Mix", Shares: 500, AvgCost: 1.8},
	}
	if err := s.ReplaceHoldings(ctx, first); err != nil {
		t.Fatalf("ReplaceHoldings failed: %v", err)
	}

	got, err := s.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d holdings, want 2", len(got))
	}
	// Ordered by code.
	if got[0].Code != "005827" || got[1].Code != "161725" {
		t.Errorf("unexpected order: %s, %s", got[0].Code, got[1].Code)
	}

	// A save is a full overwrite, not a merge.
	second := []models.Holding{
		{Code: "005827", Name: "Blue Chip Mix", Shares: 600, AvgCost: 1.9},
	}
	if err := s.ReplaceHoldings(ctx, second); err != nil {
		t.Fatalf("second ReplaceHoldings failed: %v", err)
	}
	got, err = s.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(got) != 1 || got[0].Code != "005827" || got[0].Shares != 600 {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

func TestReplaceHoldingsEmptyClearsAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceHoldings(ctx, []models.Holding{{Code: "161725", Shares: 1}}); err != nil {
		t.Fatalf("ReplaceHoldings failed: %v", err)
	}
	if err := s.ReplaceHoldings(ctx, nil); err != nil {
		t.Fatalf("clearing ReplaceHoldings failed: %v", err)
	}

	got, err := s.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d holdings, want 0", len(got))
	}
}

func TestReplacePlansRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	plans := []models.ContributionPlan{
		{Code: "161725", AmountPerDay: 100, LastRun: "2024-01-05", Active: true},
		{Code: "005827", AmountPerDay: 200, Active: false},
	}
	if err := s.ReplacePlans(ctx, plans); err != nil {
		t.Fatalf("ReplacePlans failed: %v", err)
	}

	got, err := s.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d plans, want 2", len(got))
	}
	byCode := map[string]models.ContributionPlan{}
	for _, p := range got {
		byCode[p.Code] = p
	}
	if p := byCode["161725"]; p.LastRun != "2024-01-05" || !p.Active {
		t.Errorf("plan 161725 mangled: %+v", p)
	}
	if p := byCode["005827"]; p.Active || p.AmountPerDay != 200 {
		t.Errorf("plan 005827 mangled: %+v", p)
	}
}

func TestUpsertSnapshotSameDayReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := models.PortfolioSnapshot{
		SnapshotDate: "2024-01-08",
		Holdings:     2,
		TotalValue:   2000,
		TotalProfit:  150,
		TotalCost:    1850,
	}
	if err := s.UpsertSnapshot(ctx, snap); err != nil {
		t.Fatalf("UpsertSnapshot failed: %v", err)
	}

	// A later pass on the same reference-zone day replaces the row.
	snap.TotalValue = 2100
	snap.TotalProfit = 250
	if err := s.UpsertSnapshot(ctx, snap); err != nil {
		t.Fatalf("second UpsertSnapshot failed: %v", err)
	}

	got, err := s.ListSnapshots(ctx, "")
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(got))
	}
	if got[0].TotalValue != 2100 || got[0].TotalProfit != 250 {
		t.Errorf("upsert did not replace: %+v", got[0])
	}
}

func TestListSnapshotsSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-05", "2024-01-08", "2024-01-09"} {
		if err := s.UpsertSnapshot(ctx, models.PortfolioSnapshot{SnapshotDate: date, TotalValue: 1000}); err != nil {
			t.Fatalf("UpsertSnapshot(%s) failed: %v", date, err)
		}
	}

	got, err := s.ListSnapshots(ctx, "2024-01-08")
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(got))
	}
	if got[0].SnapshotDate != "2024-01-08" || got[1].SnapshotDate != "2024-01-09" {
		t.Errorf("unexpected window: %+v", got)
	}
}
