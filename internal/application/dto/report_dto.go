package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockValuationRowDTO one item's remaining stock valued at FIFO lot costs.
type StockValuationRowDTO struct {
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category,omitempty"`
	QtyOnHand   decimal.Decimal `json:"qty_on_hand"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	ZeroCostQty decimal.Decimal `json:"zero_cost_qty"`
}

// StockValuationReportDTO full valuation report with totals.
type StockValuationReportDTO struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Rows        []StockValuationRowDTO `json:"rows"`
	TotalValue  decimal.Decimal        `json:"total_value"`
}
