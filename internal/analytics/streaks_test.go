package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

// cleanDayTrade returns a trade that violates no per-day rule on its own.
func cleanDayTrade(entry time.Time, p float64) *domain.Trade {
	return &domain.Trade{
		Direction:  domain.Long,
		LotSize:    1,
		StopLoss:   1.05,
		Setup:      "trend",
		Result:     domain.ResultWin,
		ProfitLoss: pnl(p),
		EntryTime:  entry,
	}
}

func TestComputeStreaksEmpty(t *testing.T) {
	a := ComputeStreaks(nil, time.Now())
	assert.Equal(t, 0, a.CurrentStreak)
	assert.Equal(t, 0, a.LongestStreak)
	assert.Equal(t, 0.0, a.Score)
	assert.Empty(t, a.Days)
}

func TestComputeStreaksCleanRun(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for day := 0; day < 3; day++ {
		trades = append(trades, cleanDayTrade(now.AddDate(0, 0, -day), 10))
	}

	a := ComputeStreaks(trades, now)

	assert.Equal(t, 3, a.CurrentStreak)
	assert.Equal(t, 3, a.LongestStreak)
	assert.Equal(t, 100.0, a.Score)
	assert.Equal(t, ViolationKind(""), a.LastBreakReason)
}

func TestComputeStreaksBreakReason(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		cleanDayTrade(now.AddDate(0, 0, -2), 10),
		// Missing stop-loss breaks the middle day.
		{Direction: domain.Long, LotSize: 1, Setup: "trend", EntryTime: now.AddDate(0, 0, -1)},
		cleanDayTrade(now, 10),
	}

	a := ComputeStreaks(trades, now)

	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 1, a.LongestStreak)
	assert.Equal(t, ViolationMissingStopLoss, a.LastBreakReason)
	require.Len(t, a.Days, 3)
	assert.False(t, a.Days[1].Clean)
	assert.InDelta(t, 66.7, a.Score, 0.001)
}

func TestComputeStreaksOvertradingThreshold(t *testing.T) {
	// The violation engine uses >5 trades/day, not the discipline engine's 10.
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for i := 0; i < 6; i++ {
		trades = append(trades, cleanDayTrade(now.Add(time.Duration(i)*time.Hour), 10))
	}

	a := ComputeStreaks(trades, now)

	require.Len(t, a.Days, 1)
	require.NotEmpty(t, a.Days[0].Violations)
	assert.Equal(t, ViolationOvertrading, a.Days[0].Violations[0].Kind)
	assert.Equal(t, 6, a.Days[0].Violations[0].Count)
}

func TestComputeStreaksExcessiveLosses(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for i := 0; i < 4; i++ {
		tr := cleanDayTrade(now.Add(time.Duration(i)*time.Hour), -10)
		tr.Result = domain.ResultLoss
		trades = append(trades, tr)
	}

	a := ComputeStreaks(trades, now)

	require.Len(t, a.Days, 1)
	var kinds []ViolationKind
	for _, v := range a.Days[0].Violations {
		kinds = append(kinds, v.Kind)
	}
	assert.Contains(t, kinds, ViolationExcessiveLosses)
}

func TestComputeStreaksRevengeTrading(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	loss := cleanDayTrade(now, -10)
	quick := cleanDayTrade(now.Add(10*time.Minute), 5)
	patient := cleanDayTrade(now.Add(40*time.Minute), 5)

	a := ComputeStreaks([]*domain.Trade{loss, quick, patient}, now)

	require.Len(t, a.Days, 1)
	var revenge *Violation
	for i := range a.Days[0].Violations {
		if a.Days[0].Violations[i].Kind == ViolationRevengeTrading {
			revenge = &a.Days[0].Violations[i]
		}
	}
	require.NotNil(t, revenge, "a re-entry under 15 minutes after a loss must flag")
	assert.Equal(t, 1, revenge.Count)
}

func TestComputeStreaksStaleRunDoesNotCount(t *testing.T) {
	now := time.Date(2024, 5, 20, 18, 0, 0, 0, time.UTC)
	// Clean 4-day run, but the journal went quiet 10 days ago.
	var trades []*domain.Trade
	for day := 0; day < 4; day++ {
		trades = append(trades, cleanDayTrade(now.AddDate(0, 0, -10-day), 10))
	}

	a := ComputeStreaks(trades, now)

	assert.Equal(t, 0, a.CurrentStreak, "an abandoned run is not current")
	assert.Equal(t, 0, a.LongestStreak, "a stale in-progress run does not count as longest")
	assert.Equal(t, 100.0, a.Score, "the clean-day percentage is unaffected by staleness")
}

func TestComputeStreaksCompletedRunAlwaysCounts(t *testing.T) {
	now := time.Date(2024, 5, 20, 18, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -30)
	trades := []*domain.Trade{
		cleanDayTrade(old, 10),
		cleanDayTrade(old.AddDate(0, 0, 1), 10),
		cleanDayTrade(old.AddDate(0, 0, 2), 10),
		// Violation ends the run, so it is completed, not in-progress.
		{Direction: domain.Long, LotSize: 1, Setup: "trend", EntryTime: old.AddDate(0, 0, 3)},
	}

	a := ComputeStreaks(trades, now)

	assert.Equal(t, 3, a.LongestStreak)
	assert.Equal(t, 0, a.CurrentStreak)
}
