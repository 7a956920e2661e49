package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// PurchaseOrderRepository is the persistence port for purchase orders and lines.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate locks the order row so concurrent receipts of different
	// lines of the same order serialize their status rollup.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// GetLineForUpdate locks the PO line row so concurrent receipts of the
	// same line serialize their outstanding-quantity checks.
	GetLineForUpdate(ctx context.Context, lineID string) (*entity.POLine, error)
	UpdateLineReceived(ctx context.Context, lineID string, received decimal.Decimal) error
	UpdateStatus(ctx context.Context, poID, status string) error
}
