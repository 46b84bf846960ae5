package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.TradeRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// NOTE: This is a basic approach. A proper migration tool is recommended for production.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL DEFAULT 0,
		stop_loss REAL NOT NULL DEFAULT 0,
		take_profit REAL NOT NULL DEFAULT 0,
		lot_size REAL NOT NULL DEFAULT 0,
		result TEXT NOT NULL,
		profit_loss REAL DEFAULT NULL,
		setup TEXT NOT NULL DEFAULT '',
		custom_setup TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		emotion TEXT NOT NULL DEFAULT '',
		timeframe TEXT NOT NULL DEFAULT '',
		entry_time TIMESTAMP NOT NULL,
		exit_time TIMESTAMP DEFAULT NULL,
		duration_seconds REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades (entry_time);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol_entry_time ON trades (symbol, entry_time);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

const tradeColumns = `id, symbol, direction, entry_price, exit_price, stop_loss, take_profit,
	       lot_size, result, profit_loss, setup, custom_setup, notes, emotion, timeframe,
	       entry_time, exit_time, duration_seconds`

// Create saves a new trade and returns its assigned ID. A missing ID is
// filled with a fresh UUID; the domain object is updated in place.
func (r *Repository) Create(ctx context.Context, trade *domain.Trade) (string, error) {
	const query = `
	INSERT INTO trades (id, symbol, direction, entry_price, exit_price, stop_loss, take_profit,
	                    lot_size, result, profit_loss, setup, custom_setup, notes, emotion,
	                    timeframe, entry_time, exit_time, duration_seconds)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, query,
		trade.ID, trade.Symbol, string(trade.Direction), trade.EntryPrice, trade.ExitPrice,
		trade.StopLoss, trade.TakeProfit, trade.LotSize, string(trade.Result),
		nullFloat(trade.ProfitLoss), trade.Setup, trade.CustomSetup, trade.Notes,
		trade.Emotion, trade.Timeframe, trade.EntryTime, nullTime(trade.ExitTime),
		trade.DurationSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to insert trade for symbol %s: %w", trade.Symbol, err)
	}

	r.logger.Debug(ctx, "Trade created", map[string]interface{}{"tradeID": trade.ID, "symbol": trade.Symbol})
	return trade.ID, nil
}

// Update modifies an existing trade based on its ID.
func (r *Repository) Update(ctx context.Context, trade *domain.Trade) error {
	const query = `
	UPDATE trades
	SET symbol = ?, direction = ?, entry_price = ?, exit_price = ?, stop_loss = ?,
	    take_profit = ?, lot_size = ?, result = ?, profit_loss = ?, setup = ?,
	    custom_setup = ?, notes = ?, emotion = ?, timeframe = ?, entry_time = ?,
	    exit_time = ?, duration_seconds = ?
	WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		trade.Symbol, string(trade.Direction), trade.EntryPrice, trade.ExitPrice,
		trade.StopLoss, trade.TakeProfit, trade.LotSize, string(trade.Result),
		nullFloat(trade.ProfitLoss), trade.Setup, trade.CustomSetup, trade.Notes,
		trade.Emotion, trade.Timeframe, trade.EntryTime, nullTime(trade.ExitTime),
		trade.DurationSeconds, trade.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade ID %s: %w", trade.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for update trade ID %s: %w", trade.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade ID %s not found for update: %w", trade.ID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade updated", map[string]interface{}{"tradeID": trade.ID, "symbol": trade.Symbol})
	return nil
}

// Delete removes a trade by its unique ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM trades WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade ID %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete trade ID %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade ID %s not found for delete: %w", id, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade deleted", map[string]interface{}{"tradeID": id})
	return nil
}

// FindByID retrieves a trade by its unique ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Trade not found by ID", map[string]interface{}{"tradeID": id})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query trade by ID %s: %w", id, err)
	}
	return trade, nil
}

// FindAll retrieves every trade, ordered by entry time ascending.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY entry_time ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// FindByDateRange retrieves trades entered within [from, to), ordered by
// entry time ascending.
func (r *Repository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE entry_time >= ? AND entry_time < ? ORDER BY entry_time ASC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades in range: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// CountByDay counts trades entered on the given calendar day.
func (r *Repository) CountByDay(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	const query = `SELECT COUNT(*) FROM trades WHERE entry_time >= ? AND entry_time < ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades for day %s: %w", start.Format("2006-01-02"), err)
	}
	return count, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var direction, result string
	var profitLoss sql.NullFloat64
	var exitTime sql.NullTime
	err := s.Scan(
		&t.ID, &t.Symbol, &direction, &t.EntryPrice, &t.ExitPrice, &t.StopLoss, &t.TakeProfit,
		&t.LotSize, &result, &profitLoss, &t.Setup, &t.CustomSetup, &t.Notes, &t.Emotion,
		&t.Timeframe, &t.EntryTime, &exitTime, &t.DurationSeconds)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	t.Direction = domain.Direction(direction)
	t.Result = domain.TradeResult(result)
	if profitLoss.Valid {
		t.ProfitLoss = &profitLoss.Float64
	}
	if exitTime.Valid {
		t.ExitTime = exitTime.Time
	}
	return t, nil
}

func collectTrades(rows *sql.Rows) ([]*domain.Trade, error) {
	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
