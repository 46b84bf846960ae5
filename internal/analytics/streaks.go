package analytics

import (
	"sort"
	"time"

	"tradejournal/internal/domain"
)

// ViolationKind identifies a per-day rule violation. The rule set here is
// intentionally different from the discipline scoring engine's: both models
// exist in the system and must not be conflated.
type ViolationKind string

const (
	ViolationOvertrading     ViolationKind = "overtrading"
	ViolationExcessiveLosses ViolationKind = "excessive_losses"
	ViolationMissingStopLoss ViolationKind = "missing_stop_loss"
	ViolationMissingSetup    ViolationKind = "missing_setup"
	ViolationRevengeTrading  ViolationKind = "revenge_trading"
)

// Violation records a rule broken on a given day. Count is the number of
// trades involved (e.g., how many lacked a stop-loss).
type Violation struct {
	Kind  ViolationKind
	Date  string
	Count int
}

// DayRecord is the violation audit of one trading day.
type DayRecord struct {
	Date       string
	Trades     int
	Clean      bool
	Violations []Violation
}

// StreakAnalysis is the output of the streak and violation engine.
type StreakAnalysis struct {
	// CurrentStreak is the run of clean days ending at the most recent
	// trading day, zeroed when that day is stale (more than 3 days before
	// now). LongestStreak follows the same staleness rule for the
	// in-progress run; completed runs always count.
	CurrentStreak int
	LongestStreak int

	CleanDays int
	TotalDays int

	// Score is the percentage of clean days over all days with trades. This
	// is a second, independently defined discipline score from the one in
	// DisciplineAnalysis.
	Score float64

	// LastBreakReason is the first violation of the most recent violating
	// day; empty when no day ever violated.
	LastBreakReason ViolationKind

	// Days is the full audit, chronological.
	Days []DayRecord
}

// ComputeStreaks runs day-by-day rule-violation detection over the snapshot.
// now anchors the staleness check for the in-progress streak and must be
// injected by the caller.
func ComputeStreaks(trades []*domain.Trade, now time.Time) *StreakAnalysis {
	a := &StreakAnalysis{Days: make([]DayRecord, 0)}
	if len(trades) == 0 {
		return a
	}

	byDay, days := groupByDay(sortedByEntryTime(trades))

	var run, longest int
	var lastDay string
	for _, day := range days {
		rec := auditDay(day, byDay[day])
		a.Days = append(a.Days, rec)
		a.TotalDays++
		lastDay = day

		if rec.Clean {
			a.CleanDays++
			run++
		} else {
			// A completed run always counts toward the longest streak.
			if run > longest {
				longest = run
			}
			run = 0
			a.LastBreakReason = rec.Violations[0].Kind
		}
	}

	// The in-progress run only counts when the most recent trading day is
	// fresh; an abandoned journal does not keep a streak alive.
	fresh := isFreshDay(lastDay, now)
	if fresh && run > longest {
		longest = run
	}
	a.LongestStreak = longest
	if fresh {
		a.CurrentStreak = run
	}

	a.Score = percentage(a.CleanDays, a.TotalDays)
	return a
}

// auditDay applies the per-day rule set and collects violations in a fixed
// order; the first entry doubles as the break reason.
func auditDay(day string, dayTrades []*domain.Trade) DayRecord {
	rec := DayRecord{Date: day, Trades: len(dayTrades), Violations: make([]Violation, 0)}

	if len(dayTrades) > streakDailyTradeLimit {
		rec.Violations = append(rec.Violations, Violation{
			Kind: ViolationOvertrading, Date: day, Count: len(dayTrades),
		})
	}

	var losses, noSL, noSetup int
	for _, t := range dayTrades {
		if t.Outcome() == domain.ResultLoss {
			losses++
		}
		if !t.HasStopLoss() {
			noSL++
		}
		if t.EffectiveSetup() == "" {
			noSetup++
		}
	}
	if losses > streakDailyLossLimit {
		rec.Violations = append(rec.Violations, Violation{
			Kind: ViolationExcessiveLosses, Date: day, Count: losses,
		})
	}
	if noSL > 0 {
		rec.Violations = append(rec.Violations, Violation{
			Kind: ViolationMissingStopLoss, Date: day, Count: noSL,
		})
	}
	if noSetup > 0 {
		rec.Violations = append(rec.Violations, Violation{
			Kind: ViolationMissingSetup, Date: day, Count: noSetup,
		})
	}

	if n := revengeTrades(dayTrades); n > 0 {
		rec.Violations = append(rec.Violations, Violation{
			Kind: ViolationRevengeTrading, Date: day, Count: n,
		})
	}

	rec.Clean = len(rec.Violations) == 0
	return rec
}

// revengeTrades counts trades entered less than 15 minutes after a losing
// trade on the same day.
func revengeTrades(dayTrades []*domain.Trade) int {
	ordered := make([]*domain.Trade, len(dayTrades))
	copy(ordered, dayTrades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryTime.Before(ordered[j].EntryTime)
	})

	var n int
	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1], ordered[i]
		if prev.Outcome() != domain.ResultLoss {
			continue
		}
		if next.EntryTime.Sub(prev.EntryTime) < revengeWindow {
			n++
		}
	}
	return n
}

// isFreshDay reports whether the calendar day is within the staleness window
// of now. An unparseable day key counts as stale.
func isFreshDay(day string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", day, now.Location())
	if err != nil {
		return false
	}
	return now.Sub(d) <= streakStaleAfter
}
