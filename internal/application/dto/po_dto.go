package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// CreatePORequest body for POST /api/purchase-orders.
type CreatePORequest struct {
	PONumber string                `json:"po_number" validate:"required"`
	Supplier string                `json:"supplier" validate:"required"`
	Notes    string                `json:"notes,omitempty"`
	Lines    []CreatePOLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePOLineRequest one ordered line on a new purchase order.
type CreatePOLineRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	OrderedQty decimal.Decimal `json:"ordered_qty" validate:"gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost" validate:"gt=0"`
}

// ReceivePORequest body for POST /api/purchase-orders/:id/receive.
// Each line is received as its own atomic unit; the response reports
// per-line success or failure.
type ReceivePORequest struct {
	Lines []ReceivePOLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceivePOLineRequest one received line. UnitCost overrides the ordered
// cost when the supplier invoiced a different price.
type ReceivePOLineRequest struct {
	LineID   string           `json:"line_id" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// POLineResponse one line with its outstanding quantity.
type POLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Outstanding decimal.Decimal `json:"outstanding"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// POResponse purchase order with lines.
type POResponse struct {
	ID        string           `json:"id"`
	PONumber  string           `json:"po_number"`
	Supplier  string           `json:"supplier"`
	Status    string           `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedBy string           `json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Lines     []POLineResponse `json:"lines"`
}

// NewPOResponse maps the aggregate to its JSON shape.
func NewPOResponse(po *entity.PurchaseOrder) POResponse {
	resp := POResponse{
		ID:        po.ID,
		PONumber:  po.PONumber,
		Supplier:  po.Supplier,
		Status:    po.Status,
		Notes:     po.Notes,
		CreatedBy: po.CreatedBy,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Lines:     make([]POLineResponse, 0, len(po.Lines)),
	}
	for _, l := range po.Lines {
		resp.Lines = append(resp.Lines, POLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			Outstanding: l.Outstanding(),
			UnitCost:    l.UnitCost,
		})
	}
	return resp
}

// ReceiveLineResultDTO per-line outcome of a multi-line receipt.
type ReceiveLineResultDTO struct {
	LineID      string               `json:"line_id"`
	OK          bool                 `json:"ok"`
	Error       string               `json:"error,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}
