package models

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"161725", "161725"},
		{"5827", "005827"},
		{"1", "000001"},
		{" 161725 ", "161725"},
		{"1234567", "1234567"}, // longer than fixed width, untouched
		{"510300.SH", "510300.SH"},
		{"SPY", "SPY"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeCode(tt.input); got != tt.expected {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHoldingValidate(t *testing.T) {
	valid := Holding{Code: "161725", Shares: 100, AvgCost: 1.5}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid holding rejected: %v", err)
	}

	tests := []struct {
		name    string
		holding Holding
	}{
		{"empty code", Holding{Shares: 1, AvgCost: 1}},
		{"negative shares", Holding{Code: "161725", Shares: -1, AvgCost: 1}},
		{"negative cost", Holding{Code: "161725", Shares: 1, AvgCost: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.holding.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestApplyBuyFromEmptyPosition(t *testing.T) {
	h := Holding{Code: "005827"}
	if err := h.ApplyBuy(100, 2.0); err != nil {
		t.Fatalf("ApplyBuy failed: %v", err)
	}
	if !almostEqual(h.Shares, 50.0) {
		t.Errorf("Shares = %v, want 50", h.Shares)
	}
	if !almostEqual(h.AvgCost, 2.0) {
		t.Errorf("AvgCost = %v, want 2", h.AvgCost)
	}
}

func TestApplyBuyWeightedAverage(t *testing.T) {
	// The average cost is a volume-weighted average, not a midpoint of
	// the old and new price.
	h := Holding{Code: "161725", Shares: 100, AvgCost: 10}
	if err := h.ApplyBuy(300, 30); err != nil { // 10 shares at 30
		t.Fatalf("ApplyBuy failed: %v", err)
	}
	// total cost 1000+300=1300 over 110 shares
	want := 1300.0 / 110.0
	if !almostEqual(h.AvgCost, want) {
		t.Errorf("AvgCost = %v, want %v (weighted), not 20 (midpoint)", h.AvgCost, want)
	}
}

func TestApplyBuySequenceInvariant(t *testing.T) {
	// After any sequence of buys, avg cost must equal total amount spent
	// divided by total shares, independent of order.
	buys := []struct{ amount, price float64 }{
		{100, 2.0},
		{250, 2.5},
		{33.33, 1.8},
		{1000, 3.1},
		{0.01, 2.2},
	}

	check := func(t *testing.T, order []int) {
		h := Holding{Code: "161725"}
		totalAmount := 0.0
		totalShares := 0.0
		for _, i := range order {
			b := buys[i]
			if err := h.ApplyBuy(b.amount, b.price); err != nil {
				t.Fatalf("ApplyBuy(%v, %v) failed: %v", b.amount, b.price, err)
			}
			totalAmount += b.amount
			totalShares += b.amount / b.price

			want := totalAmount / totalShares
			if math.Abs(h.AvgCost-want) > 1e-9 {
				t.Errorf("after buy %d: AvgCost = %v, want %v", i, h.AvgCost, want)
			}
		}
		if math.Abs(h.Shares-totalShares) > 1e-9 {
			t.Errorf("Shares = %v, want %v", h.Shares, totalShares)
		}
	}

	t.Run("forward", func(t *testing.T) { check(t, []int{0, 1, 2, 3, 4}) })
	t.Run("reversed", func(t *testing.T) { check(t, []int{4, 3, 2, 1, 0}) })
	t.Run("shuffled", func(t *testing.T) { check(t, []int{2, 0, 4, 1, 3}) })
}

func TestApplyBuyRejectsBadInputs(t *testing.T) {
	h := Holding{Code: "161725", Shares: 100, AvgCost: 10}

	if err := h.ApplyBuy(0, 2.0); err == nil {
		t.Error("zero amount should be rejected")
	}
	if err := h.ApplyBuy(-50, 2.0); err == nil {
		t.Error("negative amount should be rejected")
	}
	if err := h.ApplyBuy(100, 0); err == nil {
		t.Error("zero price should be rejected")
	}
	if err := h.ApplyBuy(100, -1); err == nil {
		t.Error("negative price should be rejected")
	}

	// Rejected buys must not mutate the position.
	if h.Shares != 100 || h.AvgCost != 10 {
		t.Errorf("holding mutated by rejected buy: shares=%v avgCost=%v", h.Shares, h.AvgCost)
	}
}

func TestCostBasis(t *testing.T) {
	h := Holding{Code: "161725", Shares: 200, AvgCost: 11}
	if !almostEqual(h.CostBasis(), 2200) {
		t.Errorf("CostBasis() = %v, want 2200", h.CostBasis())
	}
}
