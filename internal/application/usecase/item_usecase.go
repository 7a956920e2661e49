package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// ItemUseCase CRUD for inventory items. The cached quantity is never set
// here; only ledger operations move it.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	lotRepo  repository.LotRepository
}

// NewItemUseCase builds the use case.
func NewItemUseCase(itemRepo repository.ItemRepository, lotRepo repository.LotRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, lotRepo: lotRepo}
}

// Create registers a new item with a zero balance.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrValidation
	}
	if in.ReorderThreshold.IsNegative() || in.MinStockLevel.IsNegative() || in.DefaultPrice.IsNegative() {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Unit:             in.Unit,
		Category:         in.Category,
		DefaultSupplier:  in.DefaultSupplier,
		ReorderThreshold: in.ReorderThreshold,
		MinStockLevel:    in.MinStockLevel,
		DefaultPrice:     in.DefaultPrice,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// GetByID fetches one item with its derived current quantity.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// List returns items, optionally filtered by active flag and category.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter) ([]dto.ItemResponse, error) {
	items, err := uc.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return out, nil
}

// Update edits item master data. Quantity and costing are ledger-owned.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrValidation
	}
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Unit = in.Unit
	item.Category = in.Category
	item.DefaultSupplier = in.DefaultSupplier
	item.ReorderThreshold = in.ReorderThreshold
	item.MinStockLevel = in.MinStockLevel
	item.DefaultPrice = in.DefaultPrice
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// Deactivate soft-deactivates an item. Items are never hard-deleted: lots and
// transactions must survive for audit and costing lineage.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Remaining stock keeps the item alive; consume or adjust it away first.
	if item.CurrentQty.IsPositive() {
		return fmt.Errorf("deactivate item with %s on hand: %w", item.CurrentQty, domain.ErrConflict)
	}
	return uc.itemRepo.SetActive(ctx, id, false)
}

// Balance returns the cached quantity next to the live lot sum so callers can
// verify the reconciliation invariant.
func (uc *ItemUseCase) Balance(ctx context.Context, id string) (*dto.ItemBalanceResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lotSum, err := uc.lotRepo.SumOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ItemBalanceResponse{
		ItemID:     item.ID,
		CurrentQty: item.CurrentQty,
		LotSum:     lotSum,
		Consistent: item.CurrentQty.Equal(lotSum),
	}, nil
}
