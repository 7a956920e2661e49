package repository

import (
	"context"
	"time"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// TransactionFilter narrows the audit trail listing.
type TransactionFilter struct {
	ItemID string
	Type   string
	From   *time.Time
	Limit  int
	Offset int
}

// TransactionRepository is the persistence port for the append-only audit
// trail. There is no update or delete: transactions are immutable.
type TransactionRepository interface {
	// Create appends the record and fills in its store-assigned Seq.
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// List returns transactions newest first.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, error)
}
