package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValuationRow is one item's remaining stock valued at FIFO lot costs.
type ValuationRow struct {
	ItemID      string
	Name        string
	Unit        string
	Category    string
	QtyOnHand   decimal.Decimal
	AvgUnitCost decimal.Decimal
	TotalValue  decimal.Decimal
	// ZeroCostQty is remaining quantity held in zero-cost lots (adjustment
	// increases), reported separately so valuation readers can exclude it.
	ZeroCostQty decimal.Decimal
}

// ReportRepository aggregates read-only reporting queries.
type ReportRepository interface {
	StockValuation(ctx context.Context) ([]ValuationRow, error)
}
