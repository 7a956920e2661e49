package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock transaction types.
const (
	TxTypeAdd        = "add"        // purchase lot created (manual add or PO receipt)
	TxTypeUse        = "use"        // FIFO consumption
	TxTypeAdjustment = "adjustment" // manual correction (increase, decrease, recount)
)

// StockTransaction is an append-only audit record of one quantity change.
// Quantity and TotalCost are signed (negative for consumption); BalanceAfter
// snapshots the item's cached balance as of this transaction. Records are
// never mutated or deleted.
//
// Seq is assigned by the store and strictly increases, so the audit trail has
// a total order even when timestamps collide.
type StockTransaction struct {
	ID           string
	Seq          int64
	ItemID       string
	Type         string
	Quantity     decimal.Decimal
	BalanceAfter decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Purpose      string // use: what the stock was consumed for
	Reason       string // adjustment: mandatory operator reason
	Notes        string
	ModuleRef    string // originating module/screen reference
	TankID       string // aquaculture tank, when consumption targets one
	PONumber     string
	Actor        string
	CreatedAt    time.Time
}
