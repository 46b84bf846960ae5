package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"tradejournal/internal/domain"
)

func pnl(v float64) *float64 { return &v }

// closedTrade builds a valid closed trade with the given P&L, entered at
// base + offset minutes.
func closedTrade(p float64, base time.Time, offsetMin int) *domain.Trade {
	result := domain.ResultWin
	if p < 0 {
		result = domain.ResultLoss
	} else if p == 0 {
		result = domain.ResultBreakeven
	}
	return &domain.Trade{
		Symbol:     "EURUSD",
		Direction:  domain.Long,
		EntryPrice: 1.1,
		LotSize:    1,
		Result:     result,
		ProfitLoss: pnl(p),
		EntryTime:  base.Add(time.Duration(offsetMin) * time.Minute),
	}
}

func TestComputeStatsScenario(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	pnls := []float64{50, 50, 50, 100, 100, 150, -30, -30, -40, -50}
	trades := make([]*domain.Trade, 0, len(pnls))
	for i, p := range pnls {
		trades = append(trades, closedTrade(p, base, i*10))
	}

	s := ComputeStats(trades, 0)

	if s.TotalTrades != 10 || s.ValidClosedTrades != 10 {
		t.Errorf("Expected 10 valid closed trades, got %d/%d", s.TotalTrades, s.ValidClosedTrades)
	}
	if s.WinningTrades != 6 || s.LosingTrades != 4 {
		t.Errorf("Expected 6 wins / 4 losses, got %d/%d", s.WinningTrades, s.LosingTrades)
	}
	if !s.HasWinRate || s.WinRate != 60.0 {
		t.Errorf("Expected win rate 60.0, got %f (has=%v)", s.WinRate, s.HasWinRate)
	}
	if s.TotalProfit != 500 || s.TotalLoss != 150 || s.NetProfit != 350 {
		t.Errorf("Expected profit/loss/net 500/150/350, got %f/%f/%f", s.TotalProfit, s.TotalLoss, s.NetProfit)
	}
	if s.ProfitFactor != 3.33 || s.ProfitFactorInfinite {
		t.Errorf("Expected profit factor 3.33, got %f (inf=%v)", s.ProfitFactor, s.ProfitFactorInfinite)
	}
	if s.Expectancy != 35 {
		t.Errorf("Expected expectancy 35, got %f", s.Expectancy)
	}
	if s.AvgWin != 83.33 || s.AvgLoss != 37.5 {
		t.Errorf("Expected avg win/loss 83.33/37.5, got %f/%f", s.AvgWin, s.AvgLoss)
	}
	if s.RRBelowOne {
		t.Error("Risk/reward above one must not be flagged")
	}
}

func TestComputeStatsNoValidClosedTrades(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		{Direction: domain.Long, LotSize: 2, EntryTime: base, Result: domain.ResultPending},
		{Direction: domain.Short, LotSize: 1, EntryTime: base.Add(time.Hour)},
	}

	s := ComputeStats(trades, 0)

	if s.HasWinRate {
		t.Error("Win rate must report the no-data sentinel with zero valid closed trades")
	}
	if s.WinRate != 0 {
		t.Errorf("Expected raw win rate 0, got %f", s.WinRate)
	}
	if s.HasClosedData {
		t.Error("HasClosedData must be false without valid closed trades")
	}
	// Position counts still cover pending trades.
	if s.LongTrades != 1 || s.ShortTrades != 1 || s.TotalLots != 3 {
		t.Errorf("Expected position counts 1/1/3, got %d/%d/%f", s.LongTrades, s.ShortTrades, s.TotalLots)
	}
}

func TestComputeStatsProfitFactorInfinity(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{closedTrade(100, base, 0)}

	s := ComputeStats(trades, 0)

	if !s.ProfitFactorInfinite {
		t.Error("Expected the infinity sentinel with profits and no losses")
	}
	if s.ProfitFactor != 0 {
		t.Errorf("Numeric profit factor must stay 0 behind the sentinel, got %f", s.ProfitFactor)
	}
	if !s.RiskRewardInfinite {
		t.Error("Expected the risk/reward infinity sentinel with no losses")
	}
}

func TestComputeStatsBreakevenStreakNeutrality(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		closedTrade(10, base, 0),
		closedTrade(10, base, 10),
		closedTrade(0, base, 20),
		closedTrade(-10, base, 30),
	}

	s := ComputeStats(trades, 0)

	if s.MaxConsecutiveWins != 2 {
		t.Errorf("Breakeven must not break the win streak: expected 2, got %d", s.MaxConsecutiveWins)
	}
	if s.MaxConsecutiveLosses != 1 {
		t.Errorf("Expected loss streak 1, got %d", s.MaxConsecutiveLosses)
	}
	if s.CurrentStreak != 1 || s.CurrentStreakKind != domain.ResultLoss {
		t.Errorf("Expected current streak 1 loss, got %d %s", s.CurrentStreak, s.CurrentStreakKind)
	}
}

func TestComputeStatsDrawdownPeakRelative(t *testing.T) {
	// Equity walk 10000 -> 10500 -> 10200 -> 10800: the drawdown is measured
	// from the 10500 peak, not the final high.
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		closedTrade(500, base, 0),
		closedTrade(-300, base, 10),
		closedTrade(600, base, 20),
	}

	s := ComputeStats(trades, 10000)

	if s.MaxDrawdown != 300 {
		t.Errorf("Expected max drawdown 300, got %f", s.MaxDrawdown)
	}
	if s.MaxDrawdownPercent != round1(300.0/10500.0*100) {
		t.Errorf("Expected drawdown percent relative to peak, got %f", s.MaxDrawdownPercent)
	}
}

func TestComputeStatsSkipsMalformedPNL(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	nan := math.NaN()
	inf := math.Inf(1)
	trades := []*domain.Trade{
		closedTrade(100, base, 0),
		{Result: domain.ResultWin, ProfitLoss: &nan, EntryTime: base.Add(time.Minute), Direction: domain.Long, LotSize: 1},
		{Result: domain.ResultLoss, ProfitLoss: &inf, EntryTime: base.Add(2 * time.Minute), Direction: domain.Long, LotSize: 1},
	}

	s := ComputeStats(trades, 0)

	if s.ValidClosedTrades != 1 {
		t.Errorf("Non-finite P&L must be dropped from aggregates, got %d valid", s.ValidClosedTrades)
	}
	if s.ClosedTrades != 3 {
		t.Errorf("Closed count still covers malformed trades, got %d", s.ClosedTrades)
	}
}

func TestComputeStatsDurations(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	withStored := closedTrade(10, base, 0)
	withStored.DurationSeconds = 600
	withTimestamps := closedTrade(-5, base, 30)
	withTimestamps.ExitTime = withTimestamps.EntryTime.Add(20 * time.Minute)
	noData := closedTrade(5, base, 60)

	s := ComputeStats([]*domain.Trade{withStored, withTimestamps, noData}, 0)

	if !s.HasDurationData || s.TradesWithDuration != 2 {
		t.Errorf("Expected duration data from 2 trades, got %d (has=%v)", s.TradesWithDuration, s.HasDurationData)
	}
	if s.AvgDuration != 15*time.Minute {
		t.Errorf("Expected average duration 15m, got %v", s.AvgDuration)
	}
}

func TestComputeStatsIdempotent(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		closedTrade(50, base, 40),
		closedTrade(-20, base, 0),
		closedTrade(0, base, 20),
	}

	first := ComputeStats(trades, 0)
	second := ComputeStats(trades, 0)

	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated computation over the same snapshot must be identical")
	}
	// Input order must survive: the engine sorts a copy, not the caller's slice.
	if !trades[0].EntryTime.After(trades[1].EntryTime) {
		t.Error("Input slice order was mutated")
	}
}
