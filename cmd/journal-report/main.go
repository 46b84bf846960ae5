package main

import (
	"context"
	"flag"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"tradejournal/config"
	"tradejournal/internal/adapters/logger"
	"tradejournal/internal/adapters/sqlite"
	"tradejournal/internal/app"
	"tradejournal/internal/ports"
	"tradejournal/internal/utils"
)

func main() {
	exportCSV := flag.Bool("export", false, "write the trade snapshot to a CSV file under EXPORT_PATH")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	var appLogger ports.Logger
	zl, err := logger.NewZapLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("Failed to initialize zap logger, falling back to standard: %v", err)
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	} else {
		defer zl.Sync()
		appLogger = zl
	}

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Application Service
	svc, err := app.NewJournalService(cfg, appLogger, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize journal service")
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}

	ctx := context.Background()
	now := time.Now()

	report, err := svc.BuildReport(ctx, now)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to build report")
		log.Fatalf("FATAL: Failed to build report: %v", err)
	}

	printReport(report)

	if *exportCSV {
		trades, err := svc.ListTrades(ctx)
		if err != nil {
			log.Fatalf("FATAL: Failed to load trades for export: %v", err)
		}
		if err := os.MkdirAll(cfg.ExportPath, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create export directory: %v", err)
		}
		path := filepath.Join(cfg.ExportPath, fmt.Sprintf("trades_%s.csv", now.Format("20060102_150405")))
		if err := utils.WriteTradesToCSV(trades, path); err != nil {
			log.Fatalf("FATAL: Failed to export trades: %v", err)
		}
		fmt.Printf("\nExported %d trades to %s\n", len(trades), path)
	}
}

func printReport(r *app.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

	fmt.Fprintf(w, "Journal report\t%s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Trades\t%d\n", r.TradeCount)
	fmt.Fprintln(w)

	s := r.Stats
	fmt.Fprintln(w, "## Performance")
	if !s.HasClosedData {
		fmt.Fprintln(w, "No closed trades yet.")
	} else {
		fmt.Fprintf(w, "Win rate\t%.1f%% (%d/%d)\n", s.WinRate, s.WinningTrades, s.ValidClosedTrades)
		fmt.Fprintf(w, "Net profit\t%.2f\n", s.NetProfit)
		fmt.Fprintf(w, "Profit factor\t%s\n", formatRatio(s.ProfitFactor, s.ProfitFactorInfinite))
		fmt.Fprintf(w, "Risk/reward\t%s\n", formatRatio(s.RiskReward, s.RiskRewardInfinite))
		fmt.Fprintf(w, "Expectancy\t%.2f\n", s.Expectancy)
		fmt.Fprintf(w, "Max drawdown\t%.2f (%.1f%%)\n", s.MaxDrawdown, s.MaxDrawdownPercent)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Discipline")
	fmt.Fprintf(w, "Score\t%.1f (grade %s)\n", r.Discipline.Score, r.Discipline.Grade)
	fmt.Fprintf(w, "Clean-day streak\t%d (best %d)\n", r.Streaks.CurrentStreak, r.Streaks.LongestStreak)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Mental state")
	fmt.Fprintf(w, "Fatigue\t%.0f (%s)\n", r.Fatigue.Score, r.Fatigue.Level)
	if r.Fatigue.ShouldPause {
		fmt.Fprintln(w, "Take a break before the next trade.")
	}
	if r.Profile != nil {
		fmt.Fprintf(w, "Profile\t%s\n", r.Profile.Type)
	}
	fmt.Fprintln(w)

	if len(r.Patterns.Biases) > 0 {
		fmt.Fprintln(w, "## Detected biases")
		for _, b := range r.Patterns.Biases {
			fmt.Fprintf(w, "%s\tconfidence %.0f\n", b.Type, b.Confidence)
		}
		fmt.Fprintln(w)
	}
	if len(r.Patterns.SetupPatterns) > 0 {
		fmt.Fprintln(w, "## Setup performance")
		for _, p := range r.Patterns.SetupPatterns {
			fmt.Fprintf(w, "%s\t%.1f%% over %d trades (%s)\n", p.Setup, p.WinRate, p.Trades, p.Strength)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Execution")
	fmt.Fprintf(w, "Overall\t%.1f\n", r.Execution.OverallScore)

	w.Flush()
}

func formatRatio(v float64, infinite bool) string {
	if infinite {
		return "inf (no losses)"
	}
	return fmt.Sprintf("%.2f", v)
}
