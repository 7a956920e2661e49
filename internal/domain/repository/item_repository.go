package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Active   *bool
	Category string
}

// ItemRepository is the persistence port for items. GetForUpdate locks the
// item row for the duration of the enclosing transaction; every mutating
// ledger operation takes that lock first, which serializes writers per item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	SetActive(ctx context.Context, id string, active bool) error
	// UpdateCachedQty rewrites the cached quantity-on-hand. Only ledger
	// operations call it, always in the same unit of work as the lot
	// mutation and the transaction append.
	UpdateCachedQty(ctx context.Context, id string, qty decimal.Decimal) error
	// ListBelowReorder returns active items with current_qty <= reorder_threshold,
	// most deficient first.
	ListBelowReorder(ctx context.Context) ([]*entity.Item, error)
}
