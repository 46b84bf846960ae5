package analytics

import "time"

// Heuristic thresholds used across the engines. These are domain policy
// constants, not values derived from data; keeping them in one place lets
// them be tuned and tested independently of the algorithm structure.

// Externally configurable defaults.
const (
	// DefaultInitialCapital is the notional starting equity for drawdown
	// simulation when the caller does not supply one.
	DefaultInitialCapital = 10000.0
	// DefaultDailyTradeLimit is the overtrading limit used by the discipline
	// scoring engine when the caller does not supply one.
	DefaultDailyTradeLimit = 10
)

// Discipline scoring engine.
const (
	lotConsistencyTolerance = 0.5 // within 50% of the mean lot size
	disciplineDayThreshold  = 70.0
	disciplineHistoryDays   = 30

	// Day-level component weights, deliberately distinct from the overall
	// straight average.
	dayWeightStopLoss    = 0.30
	dayWeightTakeProfit  = 0.25
	dayWeightSetup       = 0.25
	dayWeightOvertrading = 0.20

	// Improvement suggestion thresholds, per component rate.
	suggestStopLossBelow    = 80.0
	suggestTakeProfitBelow  = 80.0
	suggestPlanBelow        = 70.0
	suggestRiskBelow        = 70.0
	suggestOvertradingBelow = 80.0
)

// Streak & violation engine. Note the trade limit differs from the
// discipline engine's default; the two scoring models coexist on purpose.
const (
	streakDailyTradeLimit = 5
	streakDailyLossLimit  = 3
	revengeWindow         = 15 * time.Minute
	streakStaleAfter      = 3 * 24 * time.Hour
)

// Execution quality engine.
const (
	entryGoodPosition  = 0.3
	entryEarlyPosition = 0.5
	slTightPercent     = 0.3
	slWidePercent      = 2.0
	tpHitFraction      = 0.95
	tpPartialCredit    = 0.5

	entryScoreGood = 70.0
	entryScoreFair = 50.0
	slScoreGood    = 60.0
	tpScoreGood    = 70.0
)

// Trader profile classifier.
const (
	minTradesForProfile  = 5
	profileDominantScore = 50.0
	profileScoreCap      = 100.0
)

// Mental fatigue index.
const (
	fatiguePointsPerTrade  = 3.0
	fatigueTradePointsCap  = 30.0
	fatigueScoreCap        = 100.0
	fatigueCriticalLevel   = 70.0
	fatigueHighLevel       = 50.0
	fatigueModerateLevel   = 30.0
	fatigueRollingDays     = 7
	fatigueRollingBusy     = 5.0
	fatigueRollingFrantic  = 10.0
	fatigueDayLossMinor    = 50.0
	fatigueDayLossMajor    = 100.0
	fatigueSessionLong     = 4.0 // hours
	fatigueSessionVeryLong = 6.0
	fatigueSessionExtreme  = 8.0
)

// Cognitive bias / pattern detector.
const (
	minTradesForPatterns = 10

	timeBucketMinTrades      = 3
	timeBucketWorstMinTrades = 5
	timeBucketBestWinRate    = 60.0
	timeBucketWorstWinRate   = 40.0

	setupMinTrades     = 5
	setupStrongWinRate = 70.0
	setupWeakWinRate   = 35.0

	postLossMinPairs        = 5
	postLossNegativeWinRate = 35.0
	postLossPositiveWinRate = 60.0

	confirmationImbalance     = 0.40
	confirmationConfidenceCap = 70.0

	recencyRecentFraction = 0.20
	recencyLotShift       = 0.30
	recencyConfidenceCap  = 75.0

	overconfidenceMinWins       = 5
	overconfidenceSizeIncrease  = 0.20
	overconfidenceRatio         = 0.40
	overconfidenceConfidenceCap = 80.0

	lossAversionMinSamples    = 3
	lossAversionHoldAsymmetry = 0.50
	lossAversionConfidenceCap = 75.0
)
