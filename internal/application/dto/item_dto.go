package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// CreateItemRequest body for POST /api/items.
type CreateItemRequest struct {
	Name             string          `json:"name" validate:"required"`
	Unit             string          `json:"unit" validate:"required"`
	Category         string          `json:"category,omitempty"`
	DefaultSupplier  string          `json:"default_supplier,omitempty"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold" validate:"omitempty,gte=0"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level" validate:"omitempty,gte=0"`
	DefaultPrice     decimal.Decimal `json:"default_price" validate:"omitempty,gte=0"`
}

// UpdateItemRequest body for PUT /api/items/:id. Quantity is never updated
// here; only ledger operations touch the cached balance.
type UpdateItemRequest struct {
	Name             string          `json:"name" validate:"required"`
	Unit             string          `json:"unit" validate:"required"`
	Category         string          `json:"category,omitempty"`
	DefaultSupplier  string          `json:"default_supplier,omitempty"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold" validate:"omitempty,gte=0"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level" validate:"omitempty,gte=0"`
	DefaultPrice     decimal.Decimal `json:"default_price" validate:"omitempty,gte=0"`
}

// ItemResponse item with its derived current quantity.
type ItemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Category         string          `json:"category,omitempty"`
	DefaultSupplier  string          `json:"default_supplier,omitempty"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level"`
	DefaultPrice     decimal.Decimal `json:"default_price"`
	CurrentQty       decimal.Decimal `json:"current_qty"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewItemResponse maps the entity to its JSON shape.
func NewItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:               i.ID,
		Name:             i.Name,
		Unit:             i.Unit,
		Category:         i.Category,
		DefaultSupplier:  i.DefaultSupplier,
		ReorderThreshold: i.ReorderThreshold,
		MinStockLevel:    i.MinStockLevel,
		DefaultPrice:     i.DefaultPrice,
		CurrentQty:       i.CurrentQty,
		Active:           i.Active,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

// ItemBalanceResponse cached balance next to the live lot sum, so operators
// can verify the reconciliation invariant from the outside.
type ItemBalanceResponse struct {
	ItemID     string          `json:"item_id"`
	CurrentQty decimal.Decimal `json:"current_qty"`
	LotSum     decimal.Decimal `json:"lot_sum"`
	Consistent bool            `json:"consistent"`
}

// LowStockItemDTO one row of the low-stock alert view.
type LowStockItemDTO struct {
	ItemID           string          `json:"item_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	CurrentQty       decimal.Decimal `json:"current_qty"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	Deficit          decimal.Decimal `json:"deficit"`
}

// ExpiringLotDTO one row of the expiry alert view.
type ExpiringLotDTO struct {
	LotID        string          `json:"lot_id"`
	ItemID       string          `json:"item_id"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	DaysLeft     int             `json:"days_left"`
}
