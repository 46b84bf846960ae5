package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"tradejournal/internal/domain"
)

var tradeCSVHeader = []string{
	"id", "symbol", "direction", "entry_price", "exit_price", "stop_loss", "take_profit",
	"lot_size", "result", "profit_loss", "setup", "custom_setup", "notes", "emotion",
	"timeframe", "entry_time", "exit_time", "duration_seconds",
}

// WriteTradesToCSV exports a journal snapshot. Absent values stay empty:
// a nil P&L and a zero exit time produce empty cells, not zeros.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(tradeCSVHeader)

	for _, t := range trades {
		pnl := ""
		if t.ProfitLoss != nil {
			pnl = strconv.FormatFloat(*t.ProfitLoss, 'f', -1, 64)
		}
		exitTime := ""
		if !t.ExitTime.IsZero() {
			exitTime = t.ExitTime.Format(time.RFC3339)
		}
		writer.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.StopLoss, 'f', -1, 64),
			strconv.FormatFloat(t.TakeProfit, 'f', -1, 64),
			strconv.FormatFloat(t.LotSize, 'f', -1, 64),
			string(t.Result),
			pnl,
			t.Setup,
			t.CustomSetup,
			t.Notes,
			t.Emotion,
			t.Timeframe,
			t.EntryTime.Format(time.RFC3339),
			exitTime,
			strconv.FormatFloat(t.DurationSeconds, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// ReadTradesFromCSV loads a snapshot previously written by WriteTradesToCSV.
func ReadTradesFromCSV(filename string) ([]*domain.Trade, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(tradeCSVHeader)

	// skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []*domain.Trade{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	trades := make([]*domain.Trade, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		t, err := parseTradeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func parseTradeRecord(record []string) (*domain.Trade, error) {
	t := &domain.Trade{
		ID:          record[0],
		Symbol:      record[1],
		Direction:   domain.Direction(record[2]),
		Result:      domain.TradeResult(record[8]),
		Setup:       record[10],
		CustomSetup: record[11],
		Notes:       record[12],
		Emotion:     record[13],
		Timeframe:   record[14],
	}

	var err error
	if t.EntryPrice, err = strconv.ParseFloat(record[3], 64); err != nil {
		return nil, fmt.Errorf("invalid entry_price '%s'", record[3])
	}
	if t.ExitPrice, err = strconv.ParseFloat(record[4], 64); err != nil {
		return nil, fmt.Errorf("invalid exit_price '%s'", record[4])
	}
	if t.StopLoss, err = strconv.ParseFloat(record[5], 64); err != nil {
		return nil, fmt.Errorf("invalid stop_loss '%s'", record[5])
	}
	if t.TakeProfit, err = strconv.ParseFloat(record[6], 64); err != nil {
		return nil, fmt.Errorf("invalid take_profit '%s'", record[6])
	}
	if t.LotSize, err = strconv.ParseFloat(record[7], 64); err != nil {
		return nil, fmt.Errorf("invalid lot_size '%s'", record[7])
	}
	if record[9] != "" {
		pnl, err := strconv.ParseFloat(record[9], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid profit_loss '%s'", record[9])
		}
		t.ProfitLoss = &pnl
	}
	if t.EntryTime, err = time.Parse(time.RFC3339, record[15]); err != nil {
		return nil, fmt.Errorf("invalid entry_time '%s'", record[15])
	}
	if record[16] != "" {
		if t.ExitTime, err = time.Parse(time.RFC3339, record[16]); err != nil {
			return nil, fmt.Errorf("invalid exit_time '%s'", record[16])
		}
	}
	if t.DurationSeconds, err = strconv.ParseFloat(record[17], 64); err != nil {
		return nil, fmt.Errorf("invalid duration_seconds '%s'", record[17])
	}
	return t, nil
}
