package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// Adjustment types.
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
	AdjustRecount  = "recount"
)

// AdjustmentInput input for RecordAdjustment. QuantityChange drives increase
// and decrease; TargetQuantity drives recount. Reason is mandatory for all
// three types.
type AdjustmentInput struct {
	ItemID         string
	Type           string
	QuantityChange decimal.Decimal
	TargetQuantity *decimal.Decimal
	UnitCost       *decimal.Decimal // optional operator cost for increases
	Reason         string
	Notes          string
	Actor          string
}

// RecordAdjustment applies a manual correction that does not originate from a
// purchase or a consumption. Increases create a lot (zero-cost unless the
// operator supplies one), decreases consume FIFO, and recounts resolve to the
// delta against the current balance — including a zero-effect transaction when
// the count confirms the books.
func (uc *UseCase) RecordAdjustment(ctx context.Context, in AdjustmentInput) (*entity.StockTransaction, error) {
	if in.ItemID == "" || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrValidation
	}
	switch in.Type {
	case AdjustIncrease, AdjustDecrease:
		if !in.QuantityChange.GreaterThan(decimal.Zero) {
			return nil, domain.ErrValidation
		}
	case AdjustRecount:
		if in.TargetQuantity == nil || in.TargetQuantity.IsNegative() {
			return nil, domain.ErrValidation
		}
	default:
		return nil, domain.ErrValidation
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
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

		adjType := in.Type
		change := in.QuantityChange
		if adjType == AdjustRecount {
			delta := in.TargetQuantity.Sub(item.CurrentQty)
			switch {
			case delta.IsZero():
				// A confirming recount is itself a meaningful event:
				// append a zero-effect record for audit continuity.
				tx, err := uc.appendZeroEffect(ctx, txRepo, item, in)
				if err != nil {
					return err
				}
				result = tx
				return nil
			case delta.IsPositive():
				adjType = AdjustIncrease
				change = delta
			default:
				adjType = AdjustDecrease
				change = delta.Neg()
			}
		}

		switch adjType {
		case AdjustIncrease:
			cost := decimal.Zero
			if in.UnitCost != nil {
				cost = *in.UnitCost
			}
			tx, err := uc.doAdd(ctx, itemRepo, lotRepo, txRepo, item, entity.TxTypeAdjustment, addParams{
				quantity: change,
				unitCost: cost,
				reason:   in.Reason,
				notes:    in.Notes,
				actor:    in.Actor,
			})
			if err != nil {
				return err
			}
			result = tx
			return nil

		default: // AdjustDecrease
			plan, err := uc.doConsume(ctx, itemRepo, lotRepo, item, change)
			if err != nil {
				return err
			}
			tx := &entity.StockTransaction{
				ID:           uuid.New().String(),
				ItemID:       item.ID,
				Type:         entity.TxTypeAdjustment,
				Quantity:     change.Neg(),
				BalanceAfter: item.CurrentQty,
				UnitCost:     plan.UnitCost(change),
				TotalCost:    plan.TotalCost.Neg(),
				Reason:       in.Reason,
				Notes:        in.Notes,
				Actor:        in.Actor,
				CreatedAt:    time.Now(),
			}
			if err := txRepo.Create(ctx, tx); err != nil {
				return err
			}
			result = tx
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) appendZeroEffect(
	ctx context.Context,
	txRepo repository.TransactionRepository,
	item *entity.Item,
	in AdjustmentInput,
) (*entity.StockTransaction, error) {
	if !item.Active {
		return nil, domain.ErrItemInactive
	}
	tx := &entity.StockTransaction{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		Type:         entity.TxTypeAdjustment,
		Quantity:     decimal.Zero,
		BalanceAfter: item.CurrentQty,
		UnitCost:     decimal.Zero,
		TotalCost:    decimal.Zero,
		Reason:       in.Reason,
		Notes:        in.Notes,
		Actor:        in.Actor,
		CreatedAt:    time.Now(),
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
