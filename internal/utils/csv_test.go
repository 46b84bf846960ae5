package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

func TestTradeCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trades.csv")

	entry := time.Date(2026, time.May, 4, 10, 15, 0, 0, time.UTC)
	p := -42.5
	closed := &domain.Trade{
		ID:              "t-1",
		Symbol:          "EURUSD",
		Direction:       domain.Short,
		EntryPrice:      1.0850,
		ExitPrice:       1.0892,
		StopLoss:        1.0880,
		LotSize:         0.5,
		Result:          domain.ResultLoss,
		ProfitLoss:      &p,
		Setup:           "reversal",
		Notes:           "faded the news spike, with a \"tight\" stop",
		Emotion:         "anxiety",
		Timeframe:       "M5",
		EntryTime:       entry,
		ExitTime:        entry.Add(25 * time.Minute),
		DurationSeconds: 1500,
	}
	open := &domain.Trade{
		ID:         "t-2",
		Symbol:     "GBPUSD",
		Direction:  domain.Long,
		EntryPrice: 1.2650,
		LotSize:    1,
		Result:     domain.ResultPending,
		EntryTime:  entry.Add(time.Hour),
	}

	require.NoError(t, WriteTradesToCSV([]*domain.Trade{closed, open}, path))

	got, err := ReadTradesFromCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "t-1", got[0].ID)
	assert.Equal(t, domain.Short, got[0].Direction)
	require.NotNil(t, got[0].ProfitLoss)
	assert.Equal(t, -42.5, *got[0].ProfitLoss)
	assert.Equal(t, closed.Notes, got[0].Notes)
	assert.True(t, got[0].EntryTime.Equal(entry))
	assert.True(t, got[0].ExitTime.Equal(closed.ExitTime))

	assert.Nil(t, got[1].ProfitLoss)
	assert.True(t, got[1].ExitTime.IsZero())
	assert.Equal(t, domain.ResultPending, got[1].Result)
}

func TestReadTradesFromCSVEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	got, err := ReadTradesFromCSV(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadTradesFromCSVBadRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	content := "id,symbol,direction,entry_price,exit_price,stop_loss,take_profit,lot_size,result,profit_loss,setup,custom_setup,notes,emotion,timeframe,entry_time,exit_time,duration_seconds\n" +
		"t-1,EURUSD,long,not-a-price,0,0,0,1,win,5,,,,,,2026-05-04T10:15:00Z,,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ReadTradesFromCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry_price")
}
