package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// PurchaseOrderUseCase manages purchase orders; receipts themselves go
// through the ledger bridge.
type PurchaseOrderUseCase struct {
	poRepo   repository.PurchaseOrderRepository
	itemRepo repository.ItemRepository
}

// NewPurchaseOrderUseCase builds the use case.
func NewPurchaseOrderUseCase(poRepo repository.PurchaseOrderRepository, itemRepo repository.ItemRepository) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{poRepo: poRepo, itemRepo: itemRepo}
}

// Create registers a purchase order with its lines.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor string, in dto.CreatePORequest) (*dto.POResponse, error) {
	if in.PONumber == "" || in.Supplier == "" || len(in.Lines) == 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:        uuid.New().String(),
		PONumber:  in.PONumber,
		Supplier:  in.Supplier,
		Status:    entity.POStatusPending,
		Notes:     in.Notes,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || !l.OrderedQty.GreaterThan(decimal.Zero) || !l.UnitCost.GreaterThan(decimal.Zero) {
			return nil, domain.ErrValidation
		}
		// Ordered items must exist and be active.
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.Active {
			return nil, domain.ErrItemInactive
		}
		po.Lines = append(po.Lines, &entity.POLine{
			ID:          uuid.New().String(),
			POID:        po.ID,
			ItemID:      l.ItemID,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: decimal.Zero,
			UnitCost:    l.UnitCost,
		})
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	resp := dto.NewPOResponse(po)
	return &resp, nil
}

// GetByID fetches one purchase order with lines.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.POResponse, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPOResponse(po)
	return &resp, nil
}

// List returns purchase orders, optionally filtered by status.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.POResponse, error) {
	page.DefaultPage()
	pos, err := uc.poRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.POResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, dto.NewPOResponse(po))
	}
	return out, nil
}
