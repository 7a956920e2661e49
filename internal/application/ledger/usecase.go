package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	domledger "github.com/farmerp/stockledger-api/internal/domain/ledger"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// UseCase is the ledger writer: it records stock additions, FIFO consumptions,
// adjustments and purchase-order receipts. Each operation acquires the item
// row lock (GetForUpdate) inside a transaction, so writers against the same
// item serialize while different items proceed in parallel.
type UseCase struct {
	txRunner TxRunner
	txRepo   repository.TransactionRepository // pool-bound, read side only
}

// NewUseCase builds the ledger use case. txRepo is used only for reads; all
// writes go through repositories bound to the runner's transaction.
func NewUseCase(txRunner TxRunner, txRepo repository.TransactionRepository) *UseCase {
	return &UseCase{txRunner: txRunner, txRepo: txRepo}
}

// AddStockInput input for RecordAdd.
type AddStockInput struct {
	ItemID       string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	PurchaseDate *time.Time
	Supplier     string
	BatchNumber  string
	ExpiryDate   *time.Time
	PONumber     string
	Notes        string
	Actor        string
}

// UseStockInput input for RecordUse.
type UseStockInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	Purpose   string
	ModuleRef string
	TankID    string
	Notes     string
	Actor     string
}

// RecordAdd creates a purchase lot, bumps the cached balance and appends an
// `add` transaction, all in one unit of work.
func (uc *UseCase) RecordAdd(ctx context.Context, in AddStockInput) (*entity.StockTransaction, error) {
	if in.ItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) || !in.UnitCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}

	var result *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		tx, err := uc.doAdd(ctx, itemRepo, lotRepo, txRepo, item, entity.TxTypeAdd, addParams{
			quantity:    in.Quantity,
			unitCost:    in.UnitCost,
			acquiredAt:  in.PurchaseDate,
			supplier:    in.Supplier,
			batchNumber: in.BatchNumber,
			expiryDate:  in.ExpiryDate,
			poNumber:    in.PONumber,
			notes:       in.Notes,
			actor:       in.Actor,
		})
		if err != nil {
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

// RecordUse consumes stock in FIFO order and appends a `use` transaction
// carrying the weighted cost. All-or-nothing: an infeasible request leaves
// every lot and the cached balance untouched. Returns the transaction and the
// positive total cost of the consumed quantity.
func (uc *UseCase) RecordUse(ctx context.Context, in UseStockInput) (*entity.StockTransaction, decimal.Decimal, error) {
	if in.ItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) || strings.TrimSpace(in.Purpose) == "" {
		return nil, decimal.Zero, domain.ErrValidation
	}

	var (
		result    *entity.StockTransaction
		totalCost decimal.Decimal
	)
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		plan, err := uc.doConsume(ctx, itemRepo, lotRepo, item, in.Quantity)
		if err != nil {
			return err
		}
		tx := &entity.StockTransaction{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			Type:         entity.TxTypeUse,
			Quantity:     in.Quantity.Neg(),
			BalanceAfter: item.CurrentQty,
			UnitCost:     plan.UnitCost(in.Quantity),
			TotalCost:    plan.TotalCost.Neg(),
			Purpose:      in.Purpose,
			Notes:        in.Notes,
			ModuleRef:    in.ModuleRef,
			TankID:       in.TankID,
			Actor:        in.Actor,
			CreatedAt:    time.Now(),
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		result = tx
		totalCost = plan.TotalCost
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return result, totalCost, nil
}

// ListTransactions returns the audit trail, newest first.
func (uc *UseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.txRepo.List(ctx, filter)
}

// addParams common lot-creation parameters shared by add, PO receipt and
// increase adjustments.
type addParams struct {
	quantity    decimal.Decimal
	unitCost    decimal.Decimal
	acquiredAt  *time.Time
	supplier    string
	batchNumber string
	expiryDate  *time.Time
	poNumber    string
	reason      string
	notes       string
	actor       string
}

// doAdd creates the lot, rewrites the cached balance and appends the
// transaction. Caller already holds the item row lock.
func (uc *UseCase) doAdd(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	txRepo repository.TransactionRepository,
	item *entity.Item,
	txType string,
	p addParams,
) (*entity.StockTransaction, error) {
	if !item.Active {
		return nil, domain.ErrItemInactive
	}
	now := time.Now()
	acquiredAt := now
	if p.acquiredAt != nil {
		acquiredAt = *p.acquiredAt
	}

	lot := &entity.Lot{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		OriginalQty:  p.quantity,
		RemainingQty: p.quantity,
		UnitCost:     p.unitCost,
		AcquiredAt:   acquiredAt,
		BatchNumber:  p.batchNumber,
		ExpiryDate:   p.expiryDate,
		Supplier:     p.supplier,
		PONumber:     p.poNumber,
		CreatedAt:    now,
	}
	if err := lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}

	item.CurrentQty = item.CurrentQty.Add(p.quantity)
	if err := itemRepo.UpdateCachedQty(ctx, item.ID, item.CurrentQty); err != nil {
		return nil, err
	}

	tx := &entity.StockTransaction{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		Type:         txType,
		Quantity:     p.quantity,
		BalanceAfter: item.CurrentQty,
		UnitCost:     p.unitCost,
		TotalCost:    p.quantity.Mul(p.unitCost),
		Reason:       p.reason,
		Notes:        p.notes,
		PONumber:     p.poNumber,
		Actor:        p.actor,
		CreatedAt:    now,
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// doConsume plans the FIFO consumption over the item's open lots, applies the
// lot decrements and rewrites the cached balance. Caller already holds the
// item row lock and appends the transaction itself (type differs between use
// and adjustment).
func (uc *UseCase) doConsume(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	item *entity.Item,
	quantity decimal.Decimal,
) (*domledger.ConsumptionPlan, error) {
	if !item.Active {
		return nil, domain.ErrItemInactive
	}
	lots, err := lotRepo.ListOpen(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	plan, err := domledger.PlanConsumption(lots, quantity)
	if err != nil {
		return nil, err
	}
	for _, c := range plan.Consumptions {
		if err := lotRepo.Decrement(ctx, c.Lot.ID, c.Quantity); err != nil {
			return nil, err
		}
	}
	item.CurrentQty = item.CurrentQty.Sub(quantity)
	if item.CurrentQty.IsNegative() {
		// The lot sum covered the request, so the cached balance drifted.
		// Refuse rather than commit a negative balance.
		return nil, domain.ErrConflict
	}
	if err := itemRepo.UpdateCachedQty(ctx, item.ID, item.CurrentQty); err != nil {
		return nil, err
	}
	return plan, nil
}
