package ports

import (
	"context"
	"time"

	"tradejournal/internal/domain"
)

// TradeRepository defines the interface for storing and retrieving journaled
// trades. The analytics engines never call it directly; they consume the
// snapshot it produces.
type TradeRepository interface {
	// Create saves a new trade and returns its assigned ID.
	Create(ctx context.Context, trade *domain.Trade) (string, error)
	// Update modifies an existing trade.
	Update(ctx context.Context, trade *domain.Trade) error
	// Delete removes a trade by its unique ID.
	Delete(ctx context.Context, id string) error
	// FindByID retrieves a trade by its unique ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id string) (*domain.Trade, error)
	// FindAll retrieves every trade, ordered by entry time ascending.
	FindAll(ctx context.Context) ([]*domain.Trade, error)
	// FindByDateRange retrieves trades entered within [from, to), ordered by
	// entry time ascending.
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Trade, error)
	// CountByDay counts trades entered on the given calendar day.
	CountByDay(ctx context.Context, day time.Time) (int, error)
}
