package domain

// Direction represents the side of a trade (long or short).
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// TradeResult represents the recorded outcome of a journaled trade.
type TradeResult string

const (
	ResultWin       TradeResult = "win"
	ResultLoss      TradeResult = "loss"
	ResultBreakeven TradeResult = "breakeven"
	ResultPending   TradeResult = "pending"
)

// IsTerminal reports whether the result marks a closed trade.
func (r TradeResult) IsTerminal() bool {
	return r == ResultWin || r == ResultLoss || r == ResultBreakeven
}
