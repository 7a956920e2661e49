package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a quantity of one item acquired at one time at one unit cost.
// Lots are immutable except for RemainingQty, which only FIFO consumption and
// adjustments may change; a lot is never deleted, only exhausted, so costing
// lineage survives in the audit trail.
//
// Seq is a monotonic insertion sequence used as the FIFO tie-break when two
// lots share the same acquisition date; wall-clock alone is not deterministic.
type Lot struct {
	ID           string
	ItemID       string
	Seq          int64
	OriginalQty  decimal.Decimal
	RemainingQty decimal.Decimal
	UnitCost     decimal.Decimal
	AcquiredAt   time.Time
	BatchNumber  string
	ExpiryDate   *time.Time
	Supplier     string
	PONumber     string
	CreatedAt    time.Time
}

// Open reports whether the lot still has stock to consume.
func (l *Lot) Open() bool {
	return l.RemainingQty.GreaterThan(decimal.Zero)
}

// ExpiresWithin reports whether the lot has an expiry date inside [now, until].
func (l *Lot) ExpiresWithin(now, until time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return !l.ExpiryDate.Before(now) && !l.ExpiryDate.After(until)
}
