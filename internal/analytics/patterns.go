package analytics

import (
	"fmt"
	"math"
	"sort"

	"tradejournal/internal/domain"
)

// PatternStrength marks a surfaced slice as favorable or adverse.
type PatternStrength string

const (
	StrengthStrong PatternStrength = "strong"
	StrengthWeak   PatternStrength = "weak"
)

// TimeBucketKind distinguishes the two time groupings.
type TimeBucketKind string

const (
	BucketHourOfDay TimeBucketKind = "hour_of_day"
	BucketDayOfWeek TimeBucketKind = "day_of_week"
)

// TimePattern is a qualifying time-of-day or day-of-week win-rate slice.
type TimePattern struct {
	Kind     TimeBucketKind
	Key      string // "09".."23" for hours, weekday name for days
	Trades   int
	Wins     int
	WinRate  float64
	Strength PatternStrength
}

// SetupPattern is a qualifying per-setup win-rate slice.
type SetupPattern struct {
	Setup    string
	Trades   int
	Wins     int
	WinRate  float64
	Strength PatternStrength
}

// PostLossPattern describes behavior on the trade immediately following a
// loss.
type PostLossPattern struct {
	Pairs    int
	Wins     int
	WinRate  float64
	Strength PatternStrength
}

// BiasType names a detected cognitive bias.
type BiasType string

const (
	BiasConfirmation   BiasType = "confirmation"
	BiasRecency        BiasType = "recency"
	BiasOverconfidence BiasType = "overconfidence"
	BiasLossAversion   BiasType = "loss_aversion"
)

// MitigationCode is a structured mitigation suggestion per bias.
type MitigationCode string

const (
	MitigationTradeBothSides    MitigationCode = "trade_both_sides"
	MitigationFixPositionSizing MitigationCode = "fix_position_sizing"
	MitigationCapSizeAfterWins  MitigationCode = "cap_size_after_wins"
	MitigationCutLosersFaster   MitigationCode = "cut_losers_faster"
)

// EvidenceMetric identifies one numeric piece of bias evidence.
type EvidenceMetric string

const (
	EvidenceLongCount        EvidenceMetric = "long_count"
	EvidenceShortCount       EvidenceMetric = "short_count"
	EvidenceImbalancePercent EvidenceMetric = "imbalance_percent"
	EvidenceRecentAvgLot     EvidenceMetric = "recent_avg_lot"
	EvidenceEarlierAvgLot    EvidenceMetric = "earlier_avg_lot"
	EvidenceShiftPercent     EvidenceMetric = "shift_percent"
	EvidenceUpsizedWins      EvidenceMetric = "upsized_wins"
	EvidenceQualifyingWins   EvidenceMetric = "qualifying_wins"
	EvidenceUpsizedPercent   EvidenceMetric = "upsized_percent"
	EvidenceAvgLossHoldMin   EvidenceMetric = "avg_loss_hold_minutes"
	EvidenceAvgWinHoldMin    EvidenceMetric = "avg_win_hold_minutes"
	EvidenceAsymmetryPercent EvidenceMetric = "asymmetry_percent"
)

// Evidence is a single named measurement backing a bias detection.
type Evidence struct {
	Metric EvidenceMetric
	Value  float64
}

// Bias is one detected cognitive bias with its method-specific confidence
// (capped per bias) and the measurements behind it.
type Bias struct {
	Type       BiasType
	Confidence float64
	Evidence   []Evidence
	Mitigation MitigationCode
}

// PatternReport is the output of the pattern detector. With fewer than 10
// trades every slice is empty; an empty report is a valid result, not an
// error.
type PatternReport struct {
	TimePatterns  []TimePattern
	SetupPatterns []SetupPattern
	PostLoss      *PostLossPattern
	Biases        []Bias
}

// DetectPatterns runs statistical comparisons over the snapshot and flags
// personal patterns and named cognitive biases. Each detector is gated by
// its own minimum sample size; gates are checked before thresholds.
func DetectPatterns(trades []*domain.Trade) *PatternReport {
	r := &PatternReport{
		TimePatterns:  make([]TimePattern, 0),
		SetupPatterns: make([]SetupPattern, 0),
		Biases:        make([]Bias, 0),
	}
	if len(trades) < minTradesForPatterns {
		return r
	}

	ordered := sortedByEntryTime(trades)
	closed := make([]*domain.Trade, 0, len(ordered))
	for _, t := range ordered {
		if t.IsValidClosed() {
			closed = append(closed, t)
		}
	}

	r.TimePatterns = timePatterns(closed)
	r.SetupPatterns = setupPatterns(closed)
	r.PostLoss = postLossPattern(closed)

	if b := detectConfirmationBias(ordered); b != nil {
		r.Biases = append(r.Biases, *b)
	}
	if b := detectRecencyBias(ordered); b != nil {
		r.Biases = append(r.Biases, *b)
	}
	if b := detectOverconfidence(closed); b != nil {
		r.Biases = append(r.Biases, *b)
	}
	if b := detectLossAversion(closed); b != nil {
		r.Biases = append(r.Biases, *b)
	}
	return r
}

type bucketTally struct {
	trades int
	wins   int
}

func sortedKeys(m map[string]*bucketTally) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// timePatterns surfaces hour-of-day and day-of-week slices whose win rate
// qualifies: best needs >= 60% on 3+ trades, worst needs < 40% on 5+ trades.
func timePatterns(closed []*domain.Trade) []TimePattern {
	hours := make(map[string]*bucketTally)
	weekdays := make(map[string]*bucketTally)
	tally := func(m map[string]*bucketTally, key string, win bool) {
		b := m[key]
		if b == nil {
			b = &bucketTally{}
			m[key] = b
		}
		b.trades++
		if win {
			b.wins++
		}
	}
	for _, t := range closed {
		win := t.Outcome() == domain.ResultWin
		tally(hours, fmt.Sprintf("%02d", t.EntryTime.Hour()), win)
		tally(weekdays, t.EntryTime.Weekday().String(), win)
	}

	out := make([]TimePattern, 0)
	collect := func(kind TimeBucketKind, m map[string]*bucketTally, keys []string) {
		for _, key := range keys {
			b := m[key]
			wr := percentage(b.wins, b.trades)
			switch {
			case b.trades >= timeBucketMinTrades && wr >= timeBucketBestWinRate:
				out = append(out, TimePattern{Kind: kind, Key: key, Trades: b.trades, Wins: b.wins, WinRate: wr, Strength: StrengthStrong})
			case b.trades >= timeBucketWorstMinTrades && wr < timeBucketWorstWinRate:
				out = append(out, TimePattern{Kind: kind, Key: key, Trades: b.trades, Wins: b.wins, WinRate: wr, Strength: StrengthWeak})
			}
		}
	}
	collect(BucketHourOfDay, hours, sortedKeys(hours))
	collect(BucketDayOfWeek, weekdays, sortedKeys(weekdays))
	return out
}

// setupPatterns surfaces setups traded at least 5 times with a win rate at
// or above 70% (strong) or below 35% (weak). The sample-size gate comes
// first: a 4-trade setup never qualifies regardless of win rate.
func setupPatterns(closed []*domain.Trade) []SetupPattern {
	tallies := make(map[string]*bucketTally)
	for _, t := range closed {
		setup := t.EffectiveSetup()
		if setup == "" {
			continue
		}
		b := tallies[setup]
		if b == nil {
			b = &bucketTally{}
			tallies[setup] = b
		}
		b.trades++
		if t.Outcome() == domain.ResultWin {
			b.wins++
		}
	}

	out := make([]SetupPattern, 0)
	for _, setup := range sortedKeys(tallies) {
		b := tallies[setup]
		if b.trades < setupMinTrades {
			continue
		}
		wr := percentage(b.wins, b.trades)
		switch {
		case wr >= setupStrongWinRate:
			out = append(out, SetupPattern{Setup: setup, Trades: b.trades, Wins: b.wins, WinRate: wr, Strength: StrengthStrong})
		case wr < setupWeakWinRate:
			out = append(out, SetupPattern{Setup: setup, Trades: b.trades, Wins: b.wins, WinRate: wr, Strength: StrengthWeak})
		}
	}
	return out
}

// postLossPattern measures the win rate of trades immediately following a
// loss, reported only with 5+ qualifying pairs and a qualifying rate.
func postLossPattern(closed []*domain.Trade) *PostLossPattern {
	var pairs, wins int
	for i := 1; i < len(closed); i++ {
		if closed[i-1].Outcome() != domain.ResultLoss {
			continue
		}
		pairs++
		if closed[i].Outcome() == domain.ResultWin {
			wins++
		}
	}
	if pairs < postLossMinPairs {
		return nil
	}
	wr := percentage(wins, pairs)
	p := &PostLossPattern{Pairs: pairs, Wins: wins, WinRate: wr}
	switch {
	case wr < postLossNegativeWinRate:
		p.Strength = StrengthWeak
	case wr >= postLossPositiveWinRate:
		p.Strength = StrengthStrong
	default:
		return nil
	}
	return p
}

// detectConfirmationBias flags a long/short count imbalance above 40% of all
// trades.
func detectConfirmationBias(ordered []*domain.Trade) *Bias {
	var longs, shorts int
	for _, t := range ordered {
		switch t.Direction {
		case domain.Long:
			longs++
		case domain.Short:
			shorts++
		}
	}
	total := longs + shorts
	if total == 0 {
		return nil
	}
	imbalance := math.Abs(float64(longs-shorts)) / float64(total)
	if imbalance <= confirmationImbalance {
		return nil
	}
	imbalancePct := round1(imbalance * 100)
	return &Bias{
		Type:       BiasConfirmation,
		Confidence: math.Min(imbalancePct, confirmationConfidenceCap),
		Evidence: []Evidence{
			{Metric: EvidenceLongCount, Value: float64(longs)},
			{Metric: EvidenceShortCount, Value: float64(shorts)},
			{Metric: EvidenceImbalancePercent, Value: imbalancePct},
		},
		Mitigation: MitigationTradeBothSides,
	}
}

// detectRecencyBias compares the average lot size of the most recent ~20% of
// trades against the rest; a shift above 30% flags the bias.
func detectRecencyBias(ordered []*domain.Trade) *Bias {
	n := len(ordered)
	recentN := int(math.Max(1, math.Floor(float64(n)*recencyRecentFraction)))
	if n-recentN < 1 {
		return nil
	}
	earlier := ordered[:n-recentN]
	recent := ordered[n-recentN:]
	earlierAvg := meanLot(earlier)
	recentAvg := meanLot(recent)
	if earlierAvg <= 0 {
		return nil
	}
	shift := math.Abs(recentAvg-earlierAvg) / earlierAvg
	if shift <= recencyLotShift {
		return nil
	}
	shiftPct := round1(shift * 100)
	return &Bias{
		Type:       BiasRecency,
		Confidence: math.Min(30+shiftPct, recencyConfidenceCap),
		Evidence: []Evidence{
			{Metric: EvidenceRecentAvgLot, Value: round2(recentAvg)},
			{Metric: EvidenceEarlierAvgLot, Value: round2(earlierAvg)},
			{Metric: EvidenceShiftPercent, Value: shiftPct},
		},
		Mitigation: MitigationFixPositionSizing,
	}
}

// detectOverconfidence flags wins followed by a position at least 20%
// larger, when 40%+ of 5+ qualifying wins are followed that way.
func detectOverconfidence(closed []*domain.Trade) *Bias {
	var qualifying, upsized int
	for i := 1; i < len(closed); i++ {
		prev := closed[i-1]
		if prev.Outcome() != domain.ResultWin || prev.LotSize <= 0 {
			continue
		}
		qualifying++
		if closed[i].LotSize >= prev.LotSize*(1+overconfidenceSizeIncrease) {
			upsized++
		}
	}
	if qualifying < overconfidenceMinWins {
		return nil
	}
	ratio := float64(upsized) / float64(qualifying)
	if ratio < overconfidenceRatio {
		return nil
	}
	ratioPct := round1(ratio * 100)
	return &Bias{
		Type:       BiasOverconfidence,
		Confidence: math.Min(ratioPct+20, overconfidenceConfidenceCap),
		Evidence: []Evidence{
			{Metric: EvidenceUpsizedWins, Value: float64(upsized)},
			{Metric: EvidenceQualifyingWins, Value: float64(qualifying)},
			{Metric: EvidenceUpsizedPercent, Value: ratioPct},
		},
		Mitigation: MitigationCapSizeAfterWins,
	}
}

// detectLossAversion compares average hold durations: losers held over 50%
// longer than winners, with 3+ of each carrying duration data.
func detectLossAversion(closed []*domain.Trade) *Bias {
	var winTotal, lossTotal float64
	var winN, lossN int
	for _, t := range closed {
		d, ok := t.HoldDuration()
		if !ok {
			continue
		}
		switch t.Outcome() {
		case domain.ResultWin:
			winTotal += d.Minutes()
			winN++
		case domain.ResultLoss:
			lossTotal += d.Minutes()
			lossN++
		}
	}
	if winN < lossAversionMinSamples || lossN < lossAversionMinSamples {
		return nil
	}
	winAvg := winTotal / float64(winN)
	lossAvg := lossTotal / float64(lossN)
	if winAvg <= 0 {
		return nil
	}
	asymmetry := (lossAvg - winAvg) / winAvg
	if asymmetry <= lossAversionHoldAsymmetry {
		return nil
	}
	asymmetryPct := round1(asymmetry * 100)
	return &Bias{
		Type:       BiasLossAversion,
		Confidence: math.Min(asymmetryPct/2+30, lossAversionConfidenceCap),
		Evidence: []Evidence{
			{Metric: EvidenceAvgLossHoldMin, Value: round1(lossAvg)},
			{Metric: EvidenceAvgWinHoldMin, Value: round1(winAvg)},
			{Metric: EvidenceAsymmetryPercent, Value: asymmetryPct},
		},
		Mitigation: MitigationCutLosersFaster,
	}
}
