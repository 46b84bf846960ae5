package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

func TestComputeDisciplineZeroTrades(t *testing.T) {
	a := ComputeDiscipline(nil, 0)

	assert.Equal(t, 0.0, a.Score)
	assert.Equal(t, "F", a.Grade)
	assert.Empty(t, a.Suggestions, "no improvement tips without data")
	assert.Empty(t, a.History)
	assert.Equal(t, 0, a.CurrentStreak)
}

func TestComputeDisciplineComponentAverage(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	// Four trades on one calm day: no SL anywhere, everything else perfect.
	trades := make([]*domain.Trade, 0, 4)
	for i := 0; i < 4; i++ {
		trades = append(trades, &domain.Trade{
			Direction:  domain.Long,
			LotSize:    1,
			TakeProfit: 1.2,
			Setup:      "breakout",
			EntryTime:  base.Add(time.Duration(i) * time.Hour),
		})
	}

	a := ComputeDiscipline(trades, 10)

	assert.Equal(t, 0.0, a.StopLossRate)
	assert.Equal(t, 100.0, a.TakeProfitRate)
	assert.Equal(t, 100.0, a.PlanRate)
	assert.Equal(t, 100.0, a.RiskRate)
	assert.Equal(t, 100.0, a.OvertradingRate, "a calm day counts as perfect, not missing")
	assert.Equal(t, 80.0, a.Score, "straight average over the five measured components")
	assert.Equal(t, "B", a.Grade)

	// Only the stop-loss tip fires.
	require.Len(t, a.Suggestions, 1)
	assert.Equal(t, MetricStopLoss, a.Suggestions[0].Metric)
	assert.Equal(t, 0.0, a.Suggestions[0].Rate)
}

func TestComputeDisciplineDayWeighting(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	// Single day, one trade with SL and setup but no TP, under the limit:
	// 0.30*100 + 0.25*0 + 0.25*100 + 0.20*100 = 75.
	trades := []*domain.Trade{{
		Direction: domain.Long,
		LotSize:   1,
		StopLoss:  1.05,
		Setup:     "pullback",
		EntryTime: base,
	}}

	a := ComputeDiscipline(trades, 10)

	require.Len(t, a.History, 1)
	assert.Equal(t, 75.0, a.History[0].Score)
	assert.False(t, a.History[0].Overtraded)
}

func TestComputeDisciplineOvertradingDay(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	trades := make([]*domain.Trade, 0, 12)
	for i := 0; i < 12; i++ {
		trades = append(trades, &domain.Trade{
			Direction: domain.Long,
			LotSize:   1,
			StopLoss:  1.05,
			TakeProfit: 1.2,
			Setup:     "scalp",
			EntryTime: base.Add(time.Duration(i) * time.Minute),
		})
	}

	a := ComputeDiscipline(trades, 10)

	assert.Equal(t, 0.0, a.OvertradingRate)
	require.Len(t, a.History, 1)
	assert.True(t, a.History[0].Overtraded)
	// 0.30*100 + 0.25*100 + 0.25*100 + 0.20*0 = 80.
	assert.Equal(t, 80.0, a.History[0].Score)

	var metrics []DisciplineMetric
	for _, s := range a.Suggestions {
		metrics = append(metrics, s.Metric)
	}
	assert.Contains(t, metrics, MetricOvertrading)
}

func TestComputeDisciplineStreaks(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	good := func(day int) *domain.Trade {
		return &domain.Trade{
			Direction: domain.Long, LotSize: 1,
			StopLoss: 1.05, TakeProfit: 1.2, Setup: "trend",
			EntryTime: base.AddDate(0, 0, day),
		}
	}
	bad := func(day int) *domain.Trade {
		return &domain.Trade{Direction: domain.Long, LotSize: 1, EntryTime: base.AddDate(0, 0, day)}
	}

	// good, good, bad, good: best streak 2, current streak 1.
	trades := []*domain.Trade{good(0), good(1), bad(2), good(3)}
	a := ComputeDiscipline(trades, 10)

	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 2, a.BestStreak)
}

func TestComputeDisciplineHistoryWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	trades := make([]*domain.Trade, 0, 40)
	for i := 0; i < 40; i++ {
		trades = append(trades, &domain.Trade{
			Direction: domain.Long, LotSize: 1, StopLoss: 1.05,
			EntryTime: base.AddDate(0, 0, i),
		})
	}

	a := ComputeDiscipline(trades, 10)

	require.Len(t, a.History, 30, "history keeps the most recent 30 days")
	assert.Equal(t, base.AddDate(0, 0, 10).Format("2006-01-02"), a.History[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 39).Format("2006-01-02"), a.History[29].Date)
}
