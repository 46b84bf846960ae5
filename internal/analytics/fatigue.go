package analytics

import (
	"math"
	"time"

	"tradejournal/internal/domain"
)

// FatigueLevel bands the fatigue score.
type FatigueLevel string

const (
	FatigueLow      FatigueLevel = "low"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueCritical FatigueLevel = "critical"
)

// FatigueFactorName identifies a contributing factor.
type FatigueFactorName string

const (
	FactorSessionDuration   FatigueFactorName = "session_duration"
	FactorTradeCount        FatigueFactorName = "trade_count"
	FactorConsecutiveLosses FatigueFactorName = "consecutive_losses"
	FactorDayLoss           FatigueFactorName = "day_loss"
	FactorWeeklyIntensity   FatigueFactorName = "weekly_intensity"
)

// FatigueFactor reports one fired contribution for transparency: the factor,
// the points it added, and the measured quantity behind it (hours, trades,
// losses, currency or trades/day depending on the factor).
type FatigueFactor struct {
	Name   FatigueFactorName
	Points float64
	Value  float64
}

// FatigueIndex is the output of the mental fatigue engine.
type FatigueIndex struct {
	Score       float64
	Level       FatigueLevel
	ShouldPause bool
	Factors     []FatigueFactor
}

// ComputeFatigue scores same-day trading intensity against the injected
// current time. Five independent additive contributions, each capped, sum to
// a 0-100 score. The caller supplies now; the engine never reads the clock.
func ComputeFatigue(trades []*domain.Trade, now time.Time) *FatigueIndex {
	idx := &FatigueIndex{Level: FatigueLow, Factors: make([]FatigueFactor, 0, 5)}

	ordered := sortedByEntryTime(trades)
	today := now.Format("2006-01-02")
	var todays []*domain.Trade
	for _, t := range ordered {
		if t.EntryTime.Format("2006-01-02") == today {
			todays = append(todays, t)
		}
	}

	var score float64
	add := func(name FatigueFactorName, points, value float64) {
		if points <= 0 {
			return
		}
		score += points
		idx.Factors = append(idx.Factors, FatigueFactor{Name: name, Points: points, Value: value})
	}

	// Session duration today, measured across the day's trade entries.
	if len(todays) > 1 {
		hours := todays[len(todays)-1].EntryTime.Sub(todays[0].EntryTime).Hours()
		var pts float64
		switch {
		case hours >= fatigueSessionExtreme:
			pts = 30
		case hours >= fatigueSessionVeryLong:
			pts = 20
		case hours >= fatigueSessionLong:
			pts = 10
		}
		add(FactorSessionDuration, pts, round1(hours))
	}

	// Raw trade count today.
	if n := len(todays); n > 0 {
		pts := math.Min(float64(n)*fatiguePointsPerTrade, fatigueTradePointsCap)
		add(FactorTradeCount, pts, float64(n))
	}

	// Consecutive losses ending at the most recent trade.
	if streak := trailingLossStreak(ordered); streak > 0 {
		var pts float64
		switch {
		case streak >= 5:
			pts = 35
		case streak >= 3:
			pts = 25
		case streak == 2:
			pts = 15
		default:
			pts = 5
		}
		add(FactorConsecutiveLosses, pts, float64(streak))
	}

	// Negative same-day P&L magnitude.
	var dayPNL float64
	for _, t := range todays {
		if t.IsValidClosed() {
			dayPNL += *t.ProfitLoss
		}
	}
	if dayPNL < 0 {
		loss := -dayPNL
		var pts float64
		switch {
		case loss >= fatigueDayLossMajor:
			pts = 20
		case loss >= fatigueDayLossMinor:
			pts = 10
		default:
			pts = 5
		}
		add(FactorDayLoss, pts, round2(loss))
	}

	// 7-day rolling trading intensity.
	weekAgo := now.AddDate(0, 0, -fatigueRollingDays)
	var weekTrades int
	for _, t := range ordered {
		if t.EntryTime.After(weekAgo) && !t.EntryTime.After(now) {
			weekTrades++
		}
	}
	perDay := float64(weekTrades) / float64(fatigueRollingDays)
	switch {
	case perDay > fatigueRollingFrantic:
		add(FactorWeeklyIntensity, 15, round1(perDay))
	case perDay > fatigueRollingBusy:
		add(FactorWeeklyIntensity, 8, round1(perDay))
	}

	idx.Score = math.Min(score, fatigueScoreCap)
	switch {
	case idx.Score >= fatigueCriticalLevel:
		idx.Level = FatigueCritical
	case idx.Score >= fatigueHighLevel:
		idx.Level = FatigueHigh
	case idx.Score >= fatigueModerateLevel:
		idx.Level = FatigueModerate
	}
	idx.ShouldPause = idx.Level == FatigueHigh || idx.Level == FatigueCritical
	return idx
}

// trailingLossStreak counts consecutive losses ending at the most recent
// closed trade. Open trades at the tail are skipped; the streak stops at the
// first non-loss outcome.
func trailingLossStreak(ordered []*domain.Trade) int {
	var streak int
	for i := len(ordered) - 1; i >= 0; i-- {
		t := ordered[i]
		if !t.IsClosed() {
			continue
		}
		if t.Outcome() != domain.ResultLoss {
			break
		}
		streak++
	}
	return streak
}
