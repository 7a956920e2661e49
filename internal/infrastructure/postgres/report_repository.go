package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo read-only reporting queries over items and lots.
type ReportRepo struct {
	q Querier
}

// NewReportRepository builds the reporting adapter. Pass pool or tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockValuation values every active item's remaining stock at its FIFO lot
// costs. Zero-cost remainders (adjustment increases) are aggregated into a
// separate column, and the average cost divides only over costed quantity.
func (r *ReportRepo) StockValuation(ctx context.Context) ([]repository.ValuationRow, error) {
	query := `
		SELECT i.id, i.name, i.unit, i.category,
			COALESCE(SUM(l.remaining_qty), 0)                                            AS qty_on_hand,
			COALESCE(SUM(l.remaining_qty * l.unit_cost), 0)                              AS total_value,
			COALESCE(SUM(l.remaining_qty) FILTER (WHERE l.unit_cost = 0), 0)             AS zero_cost_qty,
			COALESCE(SUM(l.remaining_qty) FILTER (WHERE l.unit_cost > 0), 0)             AS costed_qty
		FROM items i
		LEFT JOIN lots l ON l.item_id = i.id AND l.remaining_qty > 0
		WHERE i.active = true
		GROUP BY i.id, i.name, i.unit, i.category
		ORDER BY i.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	defer rows.Close()

	var out []repository.ValuationRow
	for rows.Next() {
		var row repository.ValuationRow
		var category *string
		var costedQty decimal.Decimal
		if err := rows.Scan(
			&row.ItemID, &row.Name, &row.Unit, &category,
			&row.QtyOnHand, &row.TotalValue, &row.ZeroCostQty, &costedQty,
		); err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		row.Category = deref(category)
		if costedQty.GreaterThan(decimal.Zero) {
			row.AvgUnitCost = row.TotalValue.Div(costedQty)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
