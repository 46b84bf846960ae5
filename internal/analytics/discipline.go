package analytics

import (
	"math"

	"tradejournal/internal/domain"
)

// DisciplineMetric identifies a rule-adherence component. The engine returns
// codes; rendering them as sentences is a presentation concern.
type DisciplineMetric string

const (
	MetricStopLoss    DisciplineMetric = "stop_loss_rate"
	MetricTakeProfit  DisciplineMetric = "take_profit_rate"
	MetricPlan        DisciplineMetric = "plan_rate"
	MetricRiskSizing  DisciplineMetric = "risk_consistency_rate"
	MetricOvertrading DisciplineMetric = "overtrading_rate"
)

// Suggestion is an improvement tip emitted when a component rate falls below
// its threshold.
type Suggestion struct {
	Metric DisciplineMetric
	Rate   float64
}

// DayDiscipline is the discipline score of a single trading day, computed
// with the day-level weighting (30/25/25/20 for SL/TP/setup/overtrading).
type DayDiscipline struct {
	Date       string
	Trades     int
	Score      float64
	SLRate     float64
	TPRate     float64
	SetupRate  float64
	Overtraded bool
}

// DisciplineAnalysis is the output of the discipline scoring engine.
type DisciplineAnalysis struct {
	// Score is the straight average of the component rates that have
	// measurable data; components without data are excluded from the
	// denominator rather than scored as 0.
	Score float64
	Grade string

	StopLossRate    float64
	TakeProfitRate  float64
	PlanRate        float64
	RiskRate        float64
	OvertradingRate float64

	// CurrentStreak counts consecutive most-recent days scoring >= 70;
	// BestStreak is the best such run on record.
	CurrentStreak int
	BestStreak    int

	// History holds at most the 30 most recent trading days, chronological.
	History []DayDiscipline

	Suggestions []Suggestion
}

// ComputeDiscipline scores rule adherence over the trade snapshot.
// dailyTradeLimit <= 0 selects DefaultDailyTradeLimit.
func ComputeDiscipline(trades []*domain.Trade, dailyTradeLimit int) *DisciplineAnalysis {
	if dailyTradeLimit <= 0 {
		dailyTradeLimit = DefaultDailyTradeLimit
	}
	a := &DisciplineAnalysis{
		History:     make([]DayDiscipline, 0),
		Suggestions: make([]Suggestion, 0),
	}
	if len(trades) == 0 {
		a.Grade = gradeFor(0)
		return a
	}

	n := len(trades)
	var withSL, withTP, withPlan, consistentLot int
	mean := meanLot(trades)
	for _, t := range trades {
		if t.HasStopLoss() {
			withSL++
		}
		if t.HasTakeProfit() {
			withTP++
		}
		if t.EffectiveSetup() != "" || t.Notes != "" {
			withPlan++
		}
		if mean > 0 && math.Abs(t.LotSize-mean) <= lotConsistencyTolerance*mean {
			consistentLot++
		}
	}
	a.StopLossRate = percentage(withSL, n)
	a.TakeProfitRate = percentage(withTP, n)
	a.PlanRate = percentage(withPlan, n)
	a.RiskRate = percentage(consistentLot, n)

	byDay, days := groupByDay(sortedByEntryTime(trades))
	var calmDays int
	for _, day := range days {
		if len(byDay[day]) <= dailyTradeLimit {
			calmDays++
		}
	}
	a.OvertradingRate = percentage(calmDays, len(days))

	// Every component has data once trades exist; overtrading additionally
	// needs at least one distinct trading day, which trades guarantee. The
	// exclusion logic matters for the zero-trade case handled above.
	rates := []float64{a.StopLossRate, a.TakeProfitRate, a.PlanRate, a.RiskRate, a.OvertradingRate}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	a.Score = round1(sum / float64(len(rates)))
	a.Grade = gradeFor(a.Score)

	a.History = dailyDiscipline(byDay, days, dailyTradeLimit)
	a.CurrentStreak, a.BestStreak = disciplineStreaks(a.History)

	a.Suggestions = suggestions(a)
	return a
}

// dailyDiscipline scores each trading day with the day-level weighting and
// keeps the most recent 30 days in chronological order.
func dailyDiscipline(byDay map[string][]*domain.Trade, days []string, dailyTradeLimit int) []DayDiscipline {
	if len(days) > disciplineHistoryDays {
		days = days[len(days)-disciplineHistoryDays:]
	}
	history := make([]DayDiscipline, 0, len(days))
	for _, day := range days {
		dayTrades := byDay[day]
		n := len(dayTrades)
		var withSL, withTP, withSetup int
		for _, t := range dayTrades {
			if t.HasStopLoss() {
				withSL++
			}
			if t.HasTakeProfit() {
				withTP++
			}
			if t.EffectiveSetup() != "" {
				withSetup++
			}
		}
		d := DayDiscipline{
			Date:       day,
			Trades:     n,
			SLRate:     percentage(withSL, n),
			TPRate:     percentage(withTP, n),
			SetupRate:  percentage(withSetup, n),
			Overtraded: n > dailyTradeLimit,
		}
		overtradeScore := 100.0
		if d.Overtraded {
			overtradeScore = 0
		}
		d.Score = round1(dayWeightStopLoss*d.SLRate +
			dayWeightTakeProfit*d.TPRate +
			dayWeightSetup*d.SetupRate +
			dayWeightOvertrading*overtradeScore)
		history = append(history, d)
	}
	return history
}

// disciplineStreaks returns the current run of most-recent days at or above
// the day threshold, and the best such run on record.
func disciplineStreaks(history []DayDiscipline) (current, best int) {
	var run int
	for _, d := range history {
		if d.Score >= disciplineDayThreshold {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	current = run
	return current, best
}

func suggestions(a *DisciplineAnalysis) []Suggestion {
	out := make([]Suggestion, 0, 5)
	if a.StopLossRate < suggestStopLossBelow {
		out = append(out, Suggestion{Metric: MetricStopLoss, Rate: a.StopLossRate})
	}
	if a.TakeProfitRate < suggestTakeProfitBelow {
		out = append(out, Suggestion{Metric: MetricTakeProfit, Rate: a.TakeProfitRate})
	}
	if a.PlanRate < suggestPlanBelow {
		out = append(out, Suggestion{Metric: MetricPlan, Rate: a.PlanRate})
	}
	if a.RiskRate < suggestRiskBelow {
		out = append(out, Suggestion{Metric: MetricRiskSizing, Rate: a.RiskRate})
	}
	if a.OvertradingRate < suggestOvertradingBelow {
		out = append(out, Suggestion{Metric: MetricOvertrading, Rate: a.OvertradingRate})
	}
	return out
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
