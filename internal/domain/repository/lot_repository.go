package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// LotRepository is the persistence port for purchase lots.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// ListOpen returns lots with remaining quantity > 0 ordered by
	// acquired_at ascending, then insertion sequence — the FIFO order.
	ListOpen(ctx context.Context, itemID string) ([]*entity.Lot, error)
	// Decrement subtracts amount from remaining_quantity, guarded so the
	// result can never go negative (ErrInsufficientLotQuantity).
	Decrement(ctx context.Context, lotID string, amount decimal.Decimal) error
	// SetRemaining rewrites remaining_quantity for recounts; the store
	// rejects values outside [0, original_quantity].
	SetRemaining(ctx context.Context, lotID string, amount decimal.Decimal) error
	// SumOpen is the live lot sum for an item, used to reconcile the cached balance.
	SumOpen(ctx context.Context, itemID string) (decimal.Decimal, error)
	// ListExpiring returns open lots with an expiry date in [now, until],
	// soonest first. itemID empty means all items.
	ListExpiring(ctx context.Context, itemID string, until time.Time) ([]*entity.Lot, error)
}
