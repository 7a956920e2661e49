package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a trackable inventory unit (feed, chemicals, equipment...).
// CurrentQty is a cached value derived from the sum of open lot quantities;
// the lots remain the source of truth and the two must reconcile after every
// committed operation.
type Item struct {
	ID               string
	Name             string
	Unit             string // kg, L, pcs...
	Category         string
	DefaultSupplier  string
	ReorderThreshold decimal.Decimal
	MinStockLevel    decimal.Decimal
	DefaultPrice     decimal.Decimal
	CurrentQty       decimal.Decimal
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BelowReorder reports whether the cached balance is at or under the reorder threshold.
func (i *Item) BelowReorder() bool {
	return i.CurrentQty.LessThanOrEqual(i.ReorderThreshold)
}

// Deficit is how far the balance sits below the reorder threshold (negative means above).
func (i *Item) Deficit() decimal.Decimal {
	return i.ReorderThreshold.Sub(i.CurrentQty)
}
