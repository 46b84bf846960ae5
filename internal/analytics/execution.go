package analytics

import (
	"math"

	"tradejournal/internal/domain"
)

// Rating is a categorical quality band derived from a component score.
type Rating string

const (
	RatingGood Rating = "good"
	RatingFair Rating = "fair"
	RatingPoor Rating = "poor"
)

// ExecutionQuality holds heuristic execution scores derived from price
// geometry over closed trades.
type ExecutionQuality struct {
	Evaluated int

	// Entry timing: position of the entry between stop-loss and take-profit.
	EntryScore   float64
	EntryRating  Rating
	GoodEntries  int
	EarlyEntries int
	LateEntries  int

	// Stop-loss sizing: distance from entry as a percentage of entry price.
	StopLossScore  float64
	StopLossRating Rating
	TightStops     int
	OptimalStops   int
	WideStops      int

	// Take-profit optimization: how much of the planned target was captured.
	TakeProfitScore  float64
	TakeProfitRating Rating
	HitTargets       int
	PartialTargets   int
	MissedTargets    int

	// OverallScore is the unweighted mean of the three component scores.
	OverallScore float64
}

// ComputeExecutionQuality scores entry timing, stop-loss sizing and
// take-profit capture over the closed trades in the snapshot.
func ComputeExecutionQuality(trades []*domain.Trade) *ExecutionQuality {
	q := &ExecutionQuality{}

	closed := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	q.Evaluated = len(closed)
	if len(closed) == 0 {
		q.EntryRating = RatingPoor
		q.StopLossRating = RatingPoor
		q.TakeProfitRating = RatingPoor
		return q
	}

	scoreEntries(q, closed)
	scoreStopSizing(q, closed)
	scoreTargets(q, closed)

	q.OverallScore = round1((q.EntryScore + q.StopLossScore + q.TakeProfitScore) / 3)
	return q
}

// scoreEntries classifies the entry position between SL and TP. When either
// level is missing the trade result serves as a timing proxy.
func scoreEntries(q *ExecutionQuality, closed []*domain.Trade) {
	for _, t := range closed {
		span := math.Abs(t.TakeProfit - t.StopLoss)
		if t.HasStopLoss() && t.HasTakeProfit() && span > 0 {
			pos := math.Abs(t.EntryPrice-t.StopLoss) / span
			switch t.Direction {
			case domain.Short:
				// Thresholds mirror for shorts: the stop sits above entry.
				switch {
				case pos > 1-entryGoodPosition:
					q.GoodEntries++
				case pos > 1-entryEarlyPosition:
					q.EarlyEntries++
				default:
					q.LateEntries++
				}
			default:
				switch {
				case pos < entryGoodPosition:
					q.GoodEntries++
				case pos < entryEarlyPosition:
					q.EarlyEntries++
				default:
					q.LateEntries++
				}
			}
			continue
		}
		switch t.Outcome() {
		case domain.ResultWin:
			q.GoodEntries++
		case domain.ResultLoss:
			q.LateEntries++
		default:
			q.EarlyEntries++
		}
	}
	q.EntryScore = percentage(q.GoodEntries, len(closed))
	switch {
	case q.EntryScore >= entryScoreGood:
		q.EntryRating = RatingGood
	case q.EntryScore >= entryScoreFair:
		q.EntryRating = RatingFair
	default:
		q.EntryRating = RatingPoor
	}
}

// scoreStopSizing bands the stop distance: tight under 0.3%, optimal up to
// 2%, wide beyond. Trades without a stop are not classifiable.
func scoreStopSizing(q *ExecutionQuality, closed []*domain.Trade) {
	var sized int
	for _, t := range closed {
		if !t.HasStopLoss() || t.EntryPrice <= 0 {
			continue
		}
		sized++
		distPct := math.Abs(t.EntryPrice-t.StopLoss) / t.EntryPrice * 100
		switch {
		case distPct < slTightPercent:
			q.TightStops++
		case distPct <= slWidePercent:
			q.OptimalStops++
		default:
			q.WideStops++
		}
	}
	q.StopLossScore = percentage(q.OptimalStops, sized)
	if q.StopLossScore >= slScoreGood {
		q.StopLossRating = RatingGood
	} else {
		q.StopLossRating = RatingPoor
	}
}

// scoreTargets measures how much of the planned take-profit distance each
// exit captured: 95% or more is a hit, any favorable exit is partial credit.
func scoreTargets(q *ExecutionQuality, closed []*domain.Trade) {
	var planned int
	for _, t := range closed {
		if !t.HasTakeProfit() || t.ExitPrice <= 0 {
			continue
		}
		planned++
		if t.Direction == domain.Short {
			target := t.EntryPrice - tpHitFraction*(t.EntryPrice-t.TakeProfit)
			switch {
			case t.ExitPrice <= target:
				q.HitTargets++
			case t.ExitPrice <= t.EntryPrice:
				q.PartialTargets++
			default:
				q.MissedTargets++
			}
			continue
		}
		target := t.EntryPrice + tpHitFraction*(t.TakeProfit-t.EntryPrice)
		switch {
		case t.ExitPrice >= target:
			q.HitTargets++
		case t.ExitPrice >= t.EntryPrice:
			q.PartialTargets++
		default:
			q.MissedTargets++
		}
	}
	if planned > 0 {
		q.TakeProfitScore = round1((float64(q.HitTargets) + tpPartialCredit*float64(q.PartialTargets)) / float64(planned) * 100)
	}
	if q.TakeProfitScore >= tpScoreGood {
		q.TakeProfitRating = RatingGood
	} else {
		q.TakeProfitRating = RatingPoor
	}
}
