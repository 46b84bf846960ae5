package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

func TestClassifyTraderProfileInsufficientData(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for i := 0; i < 4; i++ {
		trades = append(trades, closedTrade(10, base, i*10))
	}
	// Pending trades do not count toward the minimum.
	trades = append(trades, &domain.Trade{Result: domain.ResultPending, EntryTime: base, LotSize: 1})

	assert.Nil(t, ClassifyTraderProfile(trades), "under 5 closed trades the classifier returns nil, not balanced")
}

func TestClassifyTraderProfileBalanced(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	// Two steady trades a day with stops, calm, no take-profit habit.
	for i := 0; i < 6; i++ {
		tr := closedTrade(10, base.AddDate(0, 0, i/2), (i%2)*240)
		tr.StopLoss = 1.05
		tr.Emotion = "calm"
		tr.DurationSeconds = 2700 // 45m: no duration signal fires
		trades = append(trades, tr)
	}

	p := ClassifyTraderProfile(trades)

	require.NotNil(t, p)
	// Patience accumulates (quiet pace 20, calm 15, steady lots 15) but a
	// score of exactly 50 does not exceed the dominance bar.
	assert.Equal(t, ProfileBalanced, p.Type)
	assert.LessOrEqual(t, p.Patience, 50.0)
	assert.NotEmpty(t, p.Advice)
}

func TestClassifyTraderProfileImpulsiveAggressiveCombination(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	// 12 scalps in one day, no stops, hot emotions, quick re-entries after
	// losses, erratic sizing.
	for i := 0; i < 12; i++ {
		p := 10.0
		if i%2 == 0 {
			p = -10
		}
		tr := closedTrade(p, base, i*5)
		tr.Emotion = "revenge"
		tr.DurationSeconds = 120
		tr.LotSize = float64(1 + (i%4)*3)
		trades = append(trades, tr)
	}

	p := ClassifyTraderProfile(trades)

	require.NotNil(t, p)
	assert.Equal(t, ProfileAggressive, p.Type, "impulsive+aggressive resolves to aggressive")
	assert.Greater(t, p.Impulsivity, 50.0)
	assert.Greater(t, p.Aggressiveness, 50.0)
	assert.LessOrEqual(t, p.Impulsivity, 100.0, "characteristic scores are capped")
	assert.Contains(t, p.Advice, AdviceAlwaysUseStopLoss)
}

func TestClassifyTraderProfilePatientHesitantCombination(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	// One long anxious swing trade per day with full risk controls.
	for i := 0; i < 6; i++ {
		tr := closedTrade(10, base.AddDate(0, 0, i), 0)
		tr.StopLoss = 1.05
		tr.TakeProfit = 1.2
		tr.Emotion = "fear"
		tr.DurationSeconds = 6 * 3600
		trades = append(trades, tr)
	}

	p := ClassifyTraderProfile(trades)

	require.NotNil(t, p)
	// patience: rare(10) + very long hold(25) + steady lots(15) +
	// risk managed(15) = 65; hesitancy: rare(15) + anxious(30) +
	// risk managed(10) = 55. Both exceed the bar, so the combination
	// rule overrides patience's single-trait dominance.
	assert.Equal(t, 65.0, p.Patience)
	assert.Equal(t, 55.0, p.Hesitancy)
	assert.Equal(t, ProfileHesitant, p.Type)
}

func TestClassifyTraderProfileHesitantDominant(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	// Rare, anxious trades at mid-length holds: hesitancy clears the bar
	// while patience stays under it.
	for i := 0; i < 6; i++ {
		tr := closedTrade(10, base.AddDate(0, 0, i), 0)
		tr.StopLoss = 1.05
		tr.TakeProfit = 1.2
		tr.Emotion = "fear"
		tr.DurationSeconds = 2700
		trades = append(trades, tr)
	}

	p := ClassifyTraderProfile(trades)

	require.NotNil(t, p)
	// hesitancy: rare(15) + anxious(30) + risk managed(10) = 55;
	// patience: rare(10) + steady lots(15) + risk managed(15) = 40.
	assert.Equal(t, 55.0, p.Hesitancy)
	assert.Equal(t, 40.0, p.Patience)
	assert.Equal(t, ProfileHesitant, p.Type)
}

func TestClassifyTraderProfileIdempotent(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for i := 0; i < 8; i++ {
		trades = append(trades, closedTrade(float64(10-3*i), base, i*30))
	}

	first := ClassifyTraderProfile(trades)
	second := ClassifyTraderProfile(trades)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
}
