package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// LineReceipt one received purchase-order line. UnitCost overrides the
// ordered cost when set.
type LineReceipt struct {
	LineID   string
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
}

// LineResult per-line outcome of a multi-line receipt.
type LineResult struct {
	LineID      string
	Transaction *entity.StockTransaction
	Err         error
}

// ReceivePOLine posts one received line into the ledger: validates the
// outstanding quantity (over-receipt is rejected, it must be an explicit
// separately-authorized adjustment), creates the lot via the add path with the
// PO reference stamped on it, advances the line's received quantity and the
// order status. One atomic unit of work.
func (uc *UseCase) ReceivePOLine(ctx context.Context, poID string, rcpt LineReceipt, actor string) (*entity.StockTransaction, error) {
	if poID == "" || rcpt.LineID == "" || !rcpt.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	if rcpt.UnitCost != nil && !rcpt.UnitCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}

	var result *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		// Lock order: order row, then line, then item. Receipts always
		// follow it, so concurrent receipts cannot deadlock, and holding the
		// order lock keeps the line snapshot below fresh for the status
		// rollup.
		po, err := poRepo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if po.Status == entity.POStatusCancelled {
			return domain.ErrConflict
		}

		line, err := poRepo.GetLineForUpdate(ctx, rcpt.LineID)
		if err != nil {
			return err
		}
		if line.POID != po.ID {
			return domain.ErrNotFound
		}
		if rcpt.Quantity.GreaterThan(line.Outstanding()) {
			return domain.ErrValidation
		}

		item, err := itemRepo.GetForUpdate(ctx, line.ItemID)
		if err != nil {
			return err
		}

		unitCost := line.UnitCost
		if rcpt.UnitCost != nil {
			unitCost = *rcpt.UnitCost
		}
		tx, err := uc.doAdd(ctx, itemRepo, lotRepo, txRepo, item, entity.TxTypeAdd, addParams{
			quantity: rcpt.Quantity,
			unitCost: unitCost,
			supplier: po.Supplier,
			poNumber: po.PONumber,
			actor:    actor,
		})
		if err != nil {
			return err
		}

		line.ReceivedQty = line.ReceivedQty.Add(rcpt.Quantity)
		if err := poRepo.UpdateLineReceived(ctx, line.ID, line.ReceivedQty); err != nil {
			return err
		}
		if err := uc.refreshPOStatus(ctx, poRepo, po, line); err != nil {
			return err
		}
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReceivePO applies the bridge once per line. Each line is its own atomic
// unit of work; a failing line never rolls back its siblings and the result
// reports exactly which lines succeeded.
func (uc *UseCase) ReceivePO(ctx context.Context, poID string, receipts []LineReceipt, actor string) []LineResult {
	results := make([]LineResult, 0, len(receipts))
	for _, rcpt := range receipts {
		tx, err := uc.ReceivePOLine(ctx, poID, rcpt, actor)
		results = append(results, LineResult{LineID: rcpt.LineID, Transaction: tx, Err: err})
	}
	return results
}

// refreshPOStatus recomputes the order status from its lines, substituting the
// just-updated line (the aggregate read happened before the update).
func (uc *UseCase) refreshPOStatus(
	ctx context.Context,
	poRepo repository.PurchaseOrderRepository,
	po *entity.PurchaseOrder,
	updated *entity.POLine,
) error {
	allReceived := true
	anyReceived := false
	for _, l := range po.Lines {
		if l.ID == updated.ID {
			l = updated
		}
		if l.ReceivedQty.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if !l.FullyReceived() {
			allReceived = false
		}
	}

	status := po.Status
	switch {
	case allReceived:
		status = entity.POStatusReceived
	case anyReceived:
		status = entity.POStatusPartial
	}
	if status == po.Status {
		return nil
	}
	return poRepo.UpdateStatus(ctx, po.ID, status)
}
