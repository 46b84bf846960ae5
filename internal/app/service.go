package app

import (
	"context"
	"fmt"
	"time"

	"tradejournal/config"
	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// JournalService orchestrates the trading journal: it owns trade CRUD and
// fans the stored snapshot out to the analytics engines. The engines
// themselves are pure; every clock read happens here and is passed down.
type JournalService struct {
	cfg    *config.Config
	logger ports.Logger
	repo   ports.TradeRepository
}

// Report bundles the output of every analytics engine over one snapshot.
// Pointer fields are nil when their engine had too little data to speak
// (profile) or carry explicit has-data flags (stats).
type Report struct {
	GeneratedAt time.Time
	TradeCount  int

	Stats      *analytics.Stats
	Discipline *analytics.DisciplineAnalysis
	Streaks    *analytics.StreakAnalysis
	Execution  *analytics.ExecutionQuality
	Profile    *analytics.TraderProfile
	Fatigue    *analytics.FatigueIndex
	Patterns   *analytics.PatternReport
}

// NewJournalService creates a new application service instance.
func NewJournalService(cfg *config.Config, logger ports.Logger, repo ports.TradeRepository) (*JournalService, error) {
	if cfg == nil || logger == nil || repo == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService")
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("configuration InitialCapital must be positive")
	}
	if cfg.DailyTradeLimit <= 0 {
		return nil, fmt.Errorf("configuration DailyTradeLimit must be positive")
	}
	return &JournalService{cfg: cfg, logger: logger, repo: repo}, nil
}

// LogTrade validates and persists a new journal entry, returning its ID.
// Derived fields are normalized before storage: the result is aligned with
// the P&L sign and the duration is filled from the timestamps when absent.
func (s *JournalService) LogTrade(ctx context.Context, trade *domain.Trade) (string, error) {
	if err := validateTrade(trade); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	normalizeTrade(trade)

	id, err := s.repo.Create(ctx, trade)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to persist trade", map[string]interface{}{"symbol": trade.Symbol})
		return "", err
	}
	s.logger.Info(ctx, "Trade logged", map[string]interface{}{"tradeID": id, "symbol": trade.Symbol, "result": string(trade.Outcome())})
	return id, nil
}

// UpdateTrade validates and persists changes to an existing entry.
func (s *JournalService) UpdateTrade(ctx context.Context, trade *domain.Trade) error {
	if trade.ID == "" {
		return fmt.Errorf("%w: trade ID is required", ports.ErrInvalidRequest)
	}
	if err := validateTrade(trade); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	normalizeTrade(trade)

	if err := s.repo.Update(ctx, trade); err != nil {
		s.logger.Error(ctx, err, "Failed to update trade", map[string]interface{}{"tradeID": trade.ID})
		return err
	}
	s.logger.Info(ctx, "Trade updated", map[string]interface{}{"tradeID": trade.ID})
	return nil
}

// CloseTrade marks an open trade closed with the given exit details.
func (s *JournalService) CloseTrade(ctx context.Context, id string, exitPrice, profitLoss float64, exitTime time.Time) error {
	trade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if trade == nil {
		return fmt.Errorf("trade ID %s: %w", id, ports.ErrNotFound)
	}
	if trade.IsClosed() {
		return fmt.Errorf("%w: trade %s is already closed", ports.ErrInvalidRequest, id)
	}

	trade.ExitPrice = exitPrice
	trade.ProfitLoss = &profitLoss
	trade.ExitTime = exitTime
	normalizeTrade(trade)

	if err := s.repo.Update(ctx, trade); err != nil {
		s.logger.Error(ctx, err, "Failed to close trade", map[string]interface{}{"tradeID": id})
		return err
	}
	s.logger.Info(ctx, "Trade closed", map[string]interface{}{"tradeID": id, "pnl": profitLoss})
	return nil
}

// DeleteTrade removes a journal entry.
func (s *JournalService) DeleteTrade(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, err, "Failed to delete trade", map[string]interface{}{"tradeID": id})
		return err
	}
	s.logger.Info(ctx, "Trade deleted", map[string]interface{}{"tradeID": id})
	return nil
}

// GetTrade retrieves a single entry. Returns nil, nil when not found.
func (s *JournalService) GetTrade(ctx context.Context, id string) (*domain.Trade, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTrades returns the full snapshot in chronological order.
func (s *JournalService) ListTrades(ctx context.Context) ([]*domain.Trade, error) {
	return s.repo.FindAll(ctx)
}

// BuildReport loads the snapshot and runs every analytics engine over it.
// now anchors the time-sensitive engines (streak staleness, fatigue).
func (s *JournalService) BuildReport(ctx context.Context, now time.Time) (*Report, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load trade snapshot")
		return nil, err
	}

	report := &Report{
		GeneratedAt: now,
		TradeCount:  len(trades),
		Stats:       analytics.ComputeStats(trades, s.cfg.InitialCapital),
		Discipline:  analytics.ComputeDiscipline(trades, s.cfg.DailyTradeLimit),
		Streaks:     analytics.ComputeStreaks(trades, now),
		Execution:   analytics.ComputeExecutionQuality(trades),
		Profile:     analytics.ClassifyTraderProfile(trades),
		Fatigue:     analytics.ComputeFatigue(trades, now),
		Patterns:    analytics.DetectPatterns(trades),
	}

	s.logger.Debug(ctx, "Report built", map[string]interface{}{
		"trades":     report.TradeCount,
		"discipline": report.Discipline.Score,
		"fatigue":    report.Fatigue.Score,
	})
	return report, nil
}

// BuildReportForRange is BuildReport over trades entered within [from, to).
func (s *JournalService) BuildReportForRange(ctx context.Context, from, to, now time.Time) (*Report, error) {
	trades, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load trade snapshot for range")
		return nil, err
	}

	return &Report{
		GeneratedAt: now,
		TradeCount:  len(trades),
		Stats:       analytics.ComputeStats(trades, s.cfg.InitialCapital),
		Discipline:  analytics.ComputeDiscipline(trades, s.cfg.DailyTradeLimit),
		Streaks:     analytics.ComputeStreaks(trades, now),
		Execution:   analytics.ComputeExecutionQuality(trades),
		Profile:     analytics.ClassifyTraderProfile(trades),
		Fatigue:     analytics.ComputeFatigue(trades, now),
		Patterns:    analytics.DetectPatterns(trades),
	}, nil
}

// TradesToday counts entries for the calendar day containing now.
func (s *JournalService) TradesToday(ctx context.Context, now time.Time) (int, error) {
	return s.repo.CountByDay(ctx, now)
}

func validateTrade(t *domain.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if t.Direction != domain.Long && t.Direction != domain.Short {
		return fmt.Errorf("direction must be long or short")
	}
	if t.EntryPrice <= 0 {
		return fmt.Errorf("entry price must be positive")
	}
	if t.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive")
	}
	if t.EntryTime.IsZero() {
		return fmt.Errorf("entry time is required")
	}
	if !t.ExitTime.IsZero() && t.ExitTime.Before(t.EntryTime) {
		return fmt.Errorf("exit time precedes entry time")
	}
	return nil
}

// normalizeTrade fills derived fields so stored rows are self-consistent:
// the result follows the P&L sign and the duration follows the timestamps.
func normalizeTrade(t *domain.Trade) {
	if t.ProfitLoss == nil {
		t.Result = domain.ResultPending
		return
	}
	t.Result = t.Outcome()
	if t.DurationSeconds <= 0 && !t.ExitTime.IsZero() && t.ExitTime.After(t.EntryTime) {
		t.DurationSeconds = t.ExitTime.Sub(t.EntryTime).Seconds()
	}
}
