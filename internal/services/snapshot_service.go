package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/store"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

// SnapshotService records one portfolio value snapshot per reference-zone
// day for historical tracking.
type SnapshotService struct {
	valuation *ValuationService
	holdings  store.HoldingStore
	snapshots store.SnapshotStore

	mu            sync.Mutex
	lastSnapshot  time.Time
	snapshotHour  int // reference-zone hour of day after which to snapshot (0-23)
	checkInterval time.Duration
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(valuation *ValuationService, holdings store.HoldingStore, snapshots store.SnapshotStore, snapshotHour int) *SnapshotService {
	if snapshotHour < 0 || snapshotHour > 23 {
		snapshotHour = 21 // default: after the NAV feed has usually refreshed
	}
	return &SnapshotService{
		valuation:     valuation,
		holdings:      holdings,
		snapshots:     snapshots,
		snapshotHour:  snapshotHour,
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker.
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily portfolio value")

	s.checkAndSnapshot(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot(ctx)
		}
	}
}

// checkAndSnapshot takes today's snapshot once the configured hour has been
// reached, unless one already exists.
func (s *SnapshotService) checkAndSnapshot(ctx context.Context) {
	now := time.Now().In(tradedate.RefZone)
	today := tradedate.FromTime(now)

	if s.hasSnapshotForDate(ctx, today) {
		return
	}

	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshot(ctx, today); err != nil {
			log.Printf("Snapshot service: failed to take snapshot: %v", err)
		}
	}
}

// hasSnapshotForDate checks whether a snapshot exists for the given day.
func (s *SnapshotService) hasSnapshotForDate(ctx context.Context, date tradedate.Date) bool {
	snaps, err := s.snapshots.ListSnapshots(ctx, date.String())
	if err != nil {
		return false
	}
	for _, snap := range snaps {
		if snap.SnapshotDate == date.String() {
			return true
		}
	}
	return false
}

// TakeSnapshot values the portfolio and records the result for the given
// day, overwriting any existing snapshot for that day.
func (s *SnapshotService) TakeSnapshot(ctx context.Context, today tradedate.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	holdings, err := s.holdings.ListHoldings(ctx)
	if err != nil {
		return err
	}

	_, summary := s.valuation.ValuePortfolio(ctx, holdings, today)

	snapshot := models.PortfolioSnapshot{
		SnapshotDate:   today.String(),
		Holdings:       summary.Holdings,
		TotalValue:     summary.TotalValue,
		TotalDayChange: summary.TotalDayChange,
		TotalProfit:    summary.TotalProfit,
		TotalCost:      summary.TotalCost,
		CreatedAt:      time.Now(),
	}

	if err := s.snapshots.UpsertSnapshot(ctx, snapshot); err != nil {
		return err
	}

	s.lastSnapshot = time.Now()
	log.Printf("Snapshot service: recorded value snapshot for %s (total: %.2f, holdings: %d)",
		today, summary.TotalValue, summary.Holdings)
	return nil
}
