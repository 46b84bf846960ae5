package domain

import (
	"math"
	"time"
)

// Trade represents a single journaled position entry/exit with its metadata.
// Price fields that may be absent (exit, stop-loss, take-profit) use 0 as the
// "not set" value, since 0 is never a valid price. ProfitLoss is a pointer
// because 0 is a meaningful (breakeven) outcome that must be distinguishable
// from "still open".
type Trade struct {
	ID              string      // Unique identifier (assigned by the store)
	Symbol          string      // Instrument symbol (e.g., "EURUSD")
	Direction       Direction   // long or short
	EntryPrice      float64     // Price at which the position was entered
	ExitPrice       float64     // Price at which the position was exited (0 if open)
	StopLoss        float64     // Stop-loss price level (0 if none was set)
	TakeProfit      float64     // Take-profit price level (0 if none was set)
	LotSize         float64     // Position size
	Result          TradeResult // Recorded outcome; empty or pending while open
	ProfitLoss      *float64    // Realized P&L; nil while the trade is open
	Setup           string      // Strategy label from the standard setup list
	CustomSetup     string      // Free-text setup label; overrides Setup when set
	Notes           string      // Free-text trade plan / review notes
	Emotion         string      // Self-reported emotional tag
	Timeframe       string      // Chart timeframe label (e.g., "M15")
	EntryTime       time.Time   // Entry timestamp; ordering key for time analysis
	ExitTime        time.Time   // Exit timestamp (zero value if open or unknown)
	DurationSeconds float64     // Precomputed holding duration; <= 0 means unset
}

// IsClosed reports whether the trade has a terminal result.
func (t *Trade) IsClosed() bool {
	return t.Result.IsTerminal()
}

// IsValidClosed reports whether the trade is closed with a finite, present
// profit/loss. Only such trades enter P&L-based aggregates.
func (t *Trade) IsValidClosed() bool {
	return t.IsClosed() && t.ProfitLoss != nil && isFinite(*t.ProfitLoss)
}

// Outcome derives the trade outcome from the sign of ProfitLoss when a finite
// value is present, falling back to the stored Result otherwise. The numeric
// sign is the canonical source of truth: a stale Result label never wins over
// a priced outcome.
func (t *Trade) Outcome() TradeResult {
	if t.ProfitLoss != nil && isFinite(*t.ProfitLoss) {
		switch {
		case *t.ProfitLoss > 0:
			return ResultWin
		case *t.ProfitLoss < 0:
			return ResultLoss
		default:
			return ResultBreakeven
		}
	}
	return t.Result
}

// EffectiveSetup returns the setup label, preferring the custom one.
func (t *Trade) EffectiveSetup() string {
	if t.CustomSetup != "" {
		return t.CustomSetup
	}
	return t.Setup
}

// HasStopLoss reports whether a stop-loss level was recorded.
func (t *Trade) HasStopLoss() bool { return t.StopLoss > 0 }

// HasTakeProfit reports whether a take-profit level was recorded.
func (t *Trade) HasTakeProfit() bool { return t.TakeProfit > 0 }

// HoldDuration returns the holding duration of the trade. It prefers the
// stored DurationSeconds when positive and finite, then falls back to
// ExitTime - EntryTime when both timestamps are present and ordered. The
// second return value is false when no duration can be determined; callers
// must exclude such trades from duration aggregates rather than count zero.
func (t *Trade) HoldDuration() (time.Duration, bool) {
	if t.DurationSeconds > 0 && isFinite(t.DurationSeconds) {
		return time.Duration(t.DurationSeconds * float64(time.Second)), true
	}
	if !t.ExitTime.IsZero() && !t.EntryTime.IsZero() && t.ExitTime.After(t.EntryTime) {
		return t.ExitTime.Sub(t.EntryTime), true
	}
	return 0, false
}

// Day returns the calendar-day key of the entry time, in the entry's location.
func (t *Trade) Day() string {
	return t.EntryTime.Format("2006-01-02")
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
