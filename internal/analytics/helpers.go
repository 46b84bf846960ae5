package analytics

import (
	"math"
	"sort"

	"tradejournal/internal/domain"
)

// sortedByEntryTime returns a chronologically ordered copy of the trade
// slice. Engines never mutate their input; any ordering they need is done on
// a copy.
func sortedByEntryTime(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}

// groupByDay buckets trades by calendar day. The returned keys slice is
// sorted ascending; the day strings sort chronologically by construction.
func groupByDay(trades []*domain.Trade) (map[string][]*domain.Trade, []string) {
	byDay := make(map[string][]*domain.Trade)
	for _, t := range trades {
		day := t.Day()
		byDay[day] = append(byDay[day], t)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return byDay, days
}

// round2 rounds to 2 decimals (currency values).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal (percentage values).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// percentage returns part/total*100 rounded to 1 decimal, or 0 for an empty
// total.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// meanLot returns the arithmetic mean lot size over the trades.
func meanLot(trades []*domain.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var sum float64
	for _, t := range trades {
		sum += t.LotSize
	}
	return sum / float64(len(trades))
}
