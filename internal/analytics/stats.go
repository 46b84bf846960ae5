package analytics

import (
	"time"

	"tradejournal/internal/domain"
)

// Stats holds the aggregate statistics derived from a trade snapshot.
//
// Several metrics are ambiguous at 0 ("no trades yet" vs a genuine zero), so
// each of those carries a companion has-data or sentinel flag. Display layers
// must consult the flag, not the number.
type Stats struct {
	// Counts. Position counts cover ALL trades including pending ones;
	// outcome counts cover valid closed trades only.
	TotalTrades       int
	ClosedTrades      int
	ValidClosedTrades int
	WinningTrades     int
	LosingTrades      int
	BreakevenTrades   int
	LongTrades        int
	ShortTrades       int
	TotalLots         float64

	// WinRate is a percentage in [0,100], rounded to 1 decimal. HasWinRate
	// is false when there are no valid closed trades; the rate is then 0 and
	// should be rendered as a sentinel ("--"), not "0%".
	WinRate    float64
	HasWinRate bool

	// Currency aggregates, rounded to 2 decimals.
	TotalProfit float64
	TotalLoss   float64
	NetProfit   float64
	AvgWin      float64
	AvgLoss     float64

	// ProfitFactor is TotalProfit / TotalLoss. When there are profits but no
	// losses the ratio is reported via the infinity sentinel flag, with the
	// numeric value left at 0.
	ProfitFactor         float64
	ProfitFactorInfinite bool

	// RiskReward is AvgWin / AvgLoss with the same sentinel rules.
	// RRBelowOne flags a ratio below 1 for UI warning.
	RiskReward         float64
	RiskRewardInfinite bool
	RRBelowOne         bool

	// Expectancy is winRate*avgWin - (1-winRate)*avgLoss. The loss rate is
	// deliberately derived as the complement of the win rate so expectancy
	// and win rate stay consistent when breakeven trades are present.
	Expectancy float64

	// Streaks count only win/loss outcomes; breakeven trades neither extend
	// nor break a run. CurrentStreakKind is empty when no streak exists.
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	CurrentStreak        int
	CurrentStreakKind    domain.TradeResult

	// Drawdown from a simulated equity walk starting at the configured
	// initial capital. MaxDrawdown is the peak-to-trough amount (2 decimals),
	// MaxDrawdownPercent is relative to the peak at the trough (1 decimal).
	InitialCapital     float64
	MaxDrawdown        float64
	MaxDrawdownPercent float64

	// Duration aggregates over trades with usable duration data only.
	AvgDuration        time.Duration
	TotalDuration      time.Duration
	TradesWithDuration int
	HasDurationData    bool

	// HasClosedData is false until at least one valid closed trade exists.
	HasClosedData bool
}

// ComputeStats derives aggregate statistics from a trade snapshot. It is a
// pure function: the input slice is never mutated and identical input yields
// identical output. initialCapital <= 0 selects DefaultInitialCapital.
func ComputeStats(trades []*domain.Trade, initialCapital float64) *Stats {
	if initialCapital <= 0 {
		initialCapital = DefaultInitialCapital
	}
	s := &Stats{
		TotalTrades:    len(trades),
		InitialCapital: initialCapital,
	}

	// Position counts cover every trade, pending included.
	for _, t := range trades {
		switch t.Direction {
		case domain.Long:
			s.LongTrades++
		case domain.Short:
			s.ShortTrades++
		}
		s.TotalLots += t.LotSize
	}
	s.TotalLots = round2(s.TotalLots)

	ordered := sortedByEntryTime(trades)
	validClosed := make([]*domain.Trade, 0, len(ordered))
	for _, t := range ordered {
		if t.IsClosed() {
			s.ClosedTrades++
		}
		if t.IsValidClosed() {
			validClosed = append(validClosed, t)
		}
	}
	s.ValidClosedTrades = len(validClosed)
	s.HasClosedData = s.ValidClosedTrades > 0

	// Outcomes and P&L sums come from the sign of the priced result, never
	// from the stored result label.
	var totalProfit, totalLoss float64
	for _, t := range validClosed {
		pnl := *t.ProfitLoss
		switch {
		case pnl > 0:
			s.WinningTrades++
			totalProfit += pnl
		case pnl < 0:
			s.LosingTrades++
			totalLoss += -pnl
		default:
			s.BreakevenTrades++
		}
	}

	var winRateDec float64
	if s.ValidClosedTrades > 0 {
		winRateDec = float64(s.WinningTrades) / float64(s.ValidClosedTrades)
		s.WinRate = clamp(round1(winRateDec*100), 0, 100)
		s.HasWinRate = true
	}

	s.TotalProfit = round2(totalProfit)
	s.TotalLoss = round2(totalLoss)
	s.NetProfit = round2(totalProfit - totalLoss)

	var avgWin, avgLoss float64
	if s.WinningTrades > 0 {
		avgWin = totalProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		avgLoss = totalLoss / float64(s.LosingTrades)
	}
	s.AvgWin = round2(avgWin)
	s.AvgLoss = round2(avgLoss)

	switch {
	case totalLoss > 0:
		s.ProfitFactor = round2(totalProfit / totalLoss)
	case totalProfit > 0:
		s.ProfitFactorInfinite = true
	}

	switch {
	case avgLoss > 0:
		s.RiskReward = round2(avgWin / avgLoss)
		s.RRBelowOne = s.RiskReward < 1
	case avgWin > 0:
		s.RiskRewardInfinite = true
	}

	if s.ValidClosedTrades > 0 {
		s.Expectancy = round2(winRateDec*avgWin - (1-winRateDec)*avgLoss)
	}

	tallyStreaks(s, validClosed)
	computeDrawdown(s, validClosed, initialCapital)
	computeDurations(s, trades)

	return s
}

// tallyStreaks walks the chronologically ordered valid closed trades and
// tracks consecutive win/loss runs. Breakeven trades are skipped entirely.
func tallyStreaks(s *Stats, validClosed []*domain.Trade) {
	var runLen int
	var runKind domain.TradeResult
	for _, t := range validClosed {
		outcome := t.Outcome()
		if outcome == domain.ResultBreakeven {
			continue
		}
		if outcome == runKind {
			runLen++
		} else {
			runKind = outcome
			runLen = 1
		}
		if runKind == domain.ResultWin && runLen > s.MaxConsecutiveWins {
			s.MaxConsecutiveWins = runLen
		}
		if runKind == domain.ResultLoss && runLen > s.MaxConsecutiveLosses {
			s.MaxConsecutiveLosses = runLen
		}
	}
	s.CurrentStreak = runLen
	s.CurrentStreakKind = runKind
}

// computeDrawdown simulates the equity curve and records the largest
// peak-to-trough distance together with its percentage of the peak.
func computeDrawdown(s *Stats, validClosed []*domain.Trade, initialCapital float64) {
	equity := initialCapital
	peak := initialCapital
	var maxDD, maxDDPct float64
	for _, t := range validClosed {
		equity += *t.ProfitLoss
		if equity > peak {
			peak = equity
			continue
		}
		dd := peak - equity
		if dd > maxDD {
			maxDD = dd
			if peak > 0 {
				maxDDPct = dd / peak * 100
			}
		}
	}
	s.MaxDrawdown = round2(maxDD)
	s.MaxDrawdownPercent = round1(maxDDPct)
}

func computeDurations(s *Stats, trades []*domain.Trade) {
	var total time.Duration
	for _, t := range trades {
		if d, ok := t.HoldDuration(); ok {
			total += d
			s.TradesWithDuration++
		}
	}
	if s.TradesWithDuration > 0 {
		s.HasDurationData = true
		s.TotalDuration = total
		s.AvgDuration = total / time.Duration(s.TradesWithDuration)
	}
}
