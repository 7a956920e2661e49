package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// AddStockRequest body for POST /api/stock/add.
type AddStockRequest struct {
	ItemID       string           `json:"item_id" validate:"required"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost     decimal.Decimal  `json:"unit_cost" validate:"gt=0"`
	PurchaseDate *time.Time       `json:"purchase_date,omitempty"`
	Supplier     string           `json:"supplier,omitempty"`
	BatchNumber  string           `json:"batch_number,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	PONumber     string           `json:"po_number,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// UseStockRequest body for POST /api/stock/use.
type UseStockRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
	Purpose         string          `json:"purpose" validate:"required"`
	ModuleReference string          `json:"module_reference,omitempty"`
	TankID          string          `json:"tank_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// AdjustmentRequest body for POST /api/stock/adjustment.
// quantity_change is used by increase/decrease, target_quantity by recount.
type AdjustmentRequest struct {
	ItemID         string           `json:"item_id" validate:"required"`
	AdjustmentType string           `json:"adjustment_type" validate:"required,oneof=increase decrease recount"`
	QuantityChange decimal.Decimal  `json:"quantity_change,omitempty"`
	TargetQuantity *decimal.Decimal `json:"target_quantity,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason         string           `json:"reason" validate:"required"`
	Notes          string           `json:"notes,omitempty"`
}

// TransactionResponse is the JSON shape of one audit-trail record.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	ItemID       string          `json:"item_id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Purpose      string          `json:"purpose,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	ModuleRef    string          `json:"module_reference,omitempty"`
	TankID       string          `json:"tank_id,omitempty"`
	PONumber     string          `json:"po_number,omitempty"`
	Actor        string          `json:"actor,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewTransactionResponse maps the entity to its JSON shape.
func NewTransactionResponse(tx *entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Seq:          tx.Seq,
		ItemID:       tx.ItemID,
		Type:         tx.Type,
		Quantity:     tx.Quantity,
		BalanceAfter: tx.BalanceAfter,
		UnitCost:     tx.UnitCost,
		TotalCost:    tx.TotalCost,
		Purpose:      tx.Purpose,
		Reason:       tx.Reason,
		Notes:        tx.Notes,
		ModuleRef:    tx.ModuleRef,
		TankID:       tx.TankID,
		PONumber:     tx.PONumber,
		Actor:        tx.Actor,
		CreatedAt:    tx.CreatedAt,
	}
}

// UseStockResponse returns the transaction plus the weighted FIFO cost of the
// consumed quantity, which the caller displays to the user.
type UseStockResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
}
