package analytics

import (
	"math"
	"strings"
	"time"

	"tradejournal/internal/domain"
)

// ProfileType is one of the five behavioral archetypes.
type ProfileType string

const (
	ProfileImpulsive  ProfileType = "impulsive"
	ProfilePatient    ProfileType = "patient"
	ProfileHesitant   ProfileType = "hesitant"
	ProfileAggressive ProfileType = "aggressive"
	ProfileBalanced   ProfileType = "balanced"
)

// AdviceCode is a structured advice identifier; the presentation layer owns
// the wording.
type AdviceCode string

const (
	AdviceCooldownAfterLoss    AdviceCode = "cooldown_after_loss"
	AdvicePreplanEntries       AdviceCode = "preplan_entries"
	AdviceLimitDailyTrades     AdviceCode = "limit_daily_trades"
	AdviceJournalBeforeEntry   AdviceCode = "journal_before_entry"
	AdviceKeepRoutine          AdviceCode = "keep_routine"
	AdviceReviewMissedSetups   AdviceCode = "review_missed_setups"
	AdviceScaleGradually       AdviceCode = "scale_gradually"
	AdviceTrustTestedSetups    AdviceCode = "trust_tested_setups"
	AdviceUseSmallerTimeframes AdviceCode = "use_smaller_timeframes"
	AdviceFixedRiskPercent     AdviceCode = "fixed_risk_percent"
	AdviceAlwaysUseStopLoss    AdviceCode = "always_use_stop_loss"
	AdviceReduceLeverage       AdviceCode = "reduce_leverage"
	AdviceDefineMaxDailyLoss   AdviceCode = "define_max_daily_loss"
	AdviceKeepCurrentBalance   AdviceCode = "keep_current_balance"
	AdviceRaiseSizeSlowly      AdviceCode = "raise_size_slowly"
	AdviceWatchForDrift        AdviceCode = "watch_for_drift"
)

var profileAdvice = map[ProfileType][]AdviceCode{
	ProfileImpulsive: {
		AdviceCooldownAfterLoss,
		AdvicePreplanEntries,
		AdviceLimitDailyTrades,
		AdviceJournalBeforeEntry,
	},
	ProfilePatient: {
		AdviceKeepRoutine,
		AdviceReviewMissedSetups,
		AdviceScaleGradually,
		AdviceWatchForDrift,
	},
	ProfileHesitant: {
		AdviceTrustTestedSetups,
		AdviceUseSmallerTimeframes,
		AdviceFixedRiskPercent,
		AdviceReviewMissedSetups,
		AdviceScaleGradually,
	},
	ProfileAggressive: {
		AdviceAlwaysUseStopLoss,
		AdviceReduceLeverage,
		AdviceDefineMaxDailyLoss,
		AdviceCooldownAfterLoss,
	},
	ProfileBalanced: {
		AdviceKeepRoutine,
		AdviceKeepCurrentBalance,
		AdviceRaiseSizeSlowly,
		AdviceWatchForDrift,
	},
}

// TraderProfile is the output of the behavioral classifier. The four
// characteristic scores are capped at 100 for display.
type TraderProfile struct {
	Type           ProfileType
	Impulsivity    float64
	Patience       float64
	Hesitancy      float64
	Aggressiveness float64
	Advice         []AdviceCode
}

// Emotional tag groups used by the classifier. Matching is case-insensitive.
var (
	hotEmotions     = map[string]bool{"greed": true, "revenge": true, "anger": true, "frustration": true, "fomo": true}
	anxiousEmotions = map[string]bool{"fear": true, "anxiety": true, "doubt": true, "nervous": true}
	calmEmotions    = map[string]bool{"calm": true, "confident": true, "focused": true}
)

// Signal point contributions. These encode domain judgment, not an
// optimization; keep them stable so classifications stay comparable over
// time.
const (
	ptsFreqFranticImpulsive   = 25.0
	ptsFreqFranticAggressive  = 15.0
	ptsFreqBusyImpulsive      = 15.0
	ptsFreqQuietPatient       = 20.0
	ptsFreqRareHesitant       = 15.0
	ptsFreqRarePatient        = 10.0
	ptsHoldScalpImpulsive     = 20.0
	ptsHoldScalpAggressive    = 10.0
	ptsHoldShortImpulsive     = 10.0
	ptsHoldLongPatient        = 10.0
	ptsHoldVeryLongPatient    = 25.0
	ptsEmotionHotImpulsive    = 20.0
	ptsEmotionHotAggressive   = 15.0
	ptsEmotionAnxiousHesitant = 30.0
	ptsEmotionCalmPatient     = 15.0
	ptsLotVolatileAggressive  = 25.0
	ptsLotVolatileImpulsive   = 10.0
	ptsLotSteadyPatient       = 15.0
	ptsQuickReentryImpulsive  = 25.0
	ptsQuickReentryAggressive = 10.0
	ptsNoStopAggressive       = 20.0
	ptsNoStopImpulsive        = 10.0
	ptsRiskManagedPatient     = 15.0
	ptsRiskManagedHesitant    = 10.0
)

// ClassifyTraderProfile classifies the trader into one of five archetypes.
// It returns nil with fewer than 5 closed trades: insufficient data is a
// valid "no classification" outcome, not an error and not "balanced".
func ClassifyTraderProfile(trades []*domain.Trade) *TraderProfile {
	closed := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	if len(closed) < minTradesForProfile {
		return nil
	}

	ordered := sortedByEntryTime(closed)
	var imp, pat, hes, agg float64

	// Signal 1: trading frequency per trading day.
	_, days := groupByDay(ordered)
	freq := float64(len(ordered)) / float64(len(days))
	switch {
	case freq > 10:
		imp += ptsFreqFranticImpulsive
		agg += ptsFreqFranticAggressive
	case freq > 5:
		imp += ptsFreqBusyImpulsive
	case freq <= 1:
		hes += ptsFreqRareHesitant
		pat += ptsFreqRarePatient
	case freq <= 2:
		pat += ptsFreqQuietPatient
	}

	// Signal 2: average holding duration.
	if avg, ok := avgHoldDuration(ordered); ok {
		switch {
		case avg < 5*time.Minute:
			imp += ptsHoldScalpImpulsive
			agg += ptsHoldScalpAggressive
		case avg < 30*time.Minute:
			imp += ptsHoldShortImpulsive
		case avg > 4*time.Hour:
			pat += ptsHoldVeryLongPatient
		case avg > time.Hour:
			pat += ptsHoldLongPatient
		}
	}

	// Signal 3: self-reported emotions, over tagged trades only.
	var tagged, hot, anxious, calm int
	for _, t := range ordered {
		tag := strings.ToLower(t.Emotion)
		if tag == "" {
			continue
		}
		tagged++
		switch {
		case hotEmotions[tag]:
			hot++
		case anxiousEmotions[tag]:
			anxious++
		case calmEmotions[tag]:
			calm++
		}
	}
	if tagged > 0 {
		if float64(hot)/float64(tagged) > 0.3 {
			imp += ptsEmotionHotImpulsive
			agg += ptsEmotionHotAggressive
		}
		if float64(anxious)/float64(tagged) > 0.3 {
			hes += ptsEmotionAnxiousHesitant
		}
		if float64(calm)/float64(tagged) >= 0.5 {
			pat += ptsEmotionCalmPatient
		}
	}

	// Signal 4: lot-size coefficient of variation.
	if cv, ok := lotVariation(ordered); ok {
		switch {
		case cv > 0.5:
			agg += ptsLotVolatileAggressive
			imp += ptsLotVolatileImpulsive
		case cv < 0.2:
			pat += ptsLotSteadyPatient
		}
	}

	// Signal 5: quick re-entries after a losing trade.
	if ratio := quickReentryRatio(ordered); ratio > 0.3 {
		imp += ptsQuickReentryImpulsive
		agg += ptsQuickReentryAggressive
	}

	// Signal 6: stop-loss / take-profit usage.
	var withSL, withTP int
	for _, t := range ordered {
		if t.HasStopLoss() {
			withSL++
		}
		if t.HasTakeProfit() {
			withTP++
		}
	}
	slRate := float64(withSL) / float64(len(ordered))
	tpRate := float64(withTP) / float64(len(ordered))
	if slRate < 0.5 {
		agg += ptsNoStopAggressive
		imp += ptsNoStopImpulsive
	}
	if slRate >= 0.8 && tpRate >= 0.8 {
		pat += ptsRiskManagedPatient
		hes += ptsRiskManagedHesitant
	}

	p := &TraderProfile{
		Impulsivity:    math.Min(imp, profileScoreCap),
		Patience:       math.Min(pat, profileScoreCap),
		Hesitancy:      math.Min(hes, profileScoreCap),
		Aggressiveness: math.Min(agg, profileScoreCap),
	}
	p.Type = classify(imp, pat, hes, agg)
	p.Advice = profileAdvice[p.Type]
	return p
}

// classify picks the archetype: balanced when nothing dominates, a known
// combination when two traits both exceed the bar, else the dominant trait.
func classify(imp, pat, hes, agg float64) ProfileType {
	max := math.Max(math.Max(imp, pat), math.Max(hes, agg))
	if max <= profileDominantScore {
		return ProfileBalanced
	}
	if imp > profileDominantScore && agg > profileDominantScore {
		return ProfileAggressive
	}
	if pat > profileDominantScore && hes > profileDominantScore {
		return ProfileHesitant
	}
	switch max {
	case imp:
		return ProfileImpulsive
	case pat:
		return ProfilePatient
	case hes:
		return ProfileHesitant
	default:
		return ProfileAggressive
	}
}

func avgHoldDuration(trades []*domain.Trade) (time.Duration, bool) {
	var total time.Duration
	var n int
	for _, t := range trades {
		if d, ok := t.HoldDuration(); ok {
			total += d
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / time.Duration(n), true
}

// lotVariation returns the coefficient of variation of lot sizes.
func lotVariation(trades []*domain.Trade) (float64, bool) {
	if len(trades) < 2 {
		return 0, false
	}
	mean := meanLot(trades)
	if mean <= 0 {
		return 0, false
	}
	var sumSq float64
	for _, t := range trades {
		d := t.LotSize - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq/float64(len(trades))) / mean, true
}

// quickReentryRatio is the share of trades entered within the revenge window
// after a losing trade, over the chronologically ordered snapshot.
func quickReentryRatio(ordered []*domain.Trade) float64 {
	if len(ordered) < 2 {
		return 0
	}
	var quick int
	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1]
		if prev.Outcome() != domain.ResultLoss {
			continue
		}
		if ordered[i].EntryTime.Sub(prev.EntryTime) < revengeWindow {
			quick++
		}
	}
	return float64(quick) / float64(len(ordered))
}
