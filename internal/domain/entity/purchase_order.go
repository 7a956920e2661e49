package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	POStatusPending   = "pending"
	POStatusPartial   = "partial"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// PurchaseOrder is a supplier order whose received lines feed the stock ledger.
type PurchaseOrder struct {
	ID        string
	PONumber  string
	Supplier  string
	Status    string
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Lines     []*POLine
}

// POLine is one ordered item on a purchase order. ReceivedQty advances as
// receipts are posted and never exceeds OrderedQty; over-receipt is rejected
// at the ledger boundary.
type POLine struct {
	ID          string
	POID        string
	ItemID      string
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	UnitCost    decimal.Decimal
}

// Outstanding is the quantity still expected on the line.
func (l *POLine) Outstanding() decimal.Decimal {
	return l.OrderedQty.Sub(l.ReceivedQty)
}

// FullyReceived reports whether the line has no outstanding quantity.
func (l *POLine) FullyReceived() bool {
	return l.Outstanding().LessThanOrEqual(decimal.Zero)
}
