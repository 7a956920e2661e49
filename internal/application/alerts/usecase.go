package alerts

import (
	"context"
	"time"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// UseCase derives low-stock and expiry views from current ledger state.
// Read-only and recomputed on demand: a cached alert view would go stale and
// raise false operational alerts.
type UseCase struct {
	itemRepo    repository.ItemRepository
	lotRepo     repository.LotRepository
	defaultDays int
}

// NewUseCase builds the alert evaluator. defaultWindowDays is the expiry
// window used when a caller does not pass one; non-positive falls back to 30.
func NewUseCase(itemRepo repository.ItemRepository, lotRepo repository.LotRepository, defaultWindowDays int) *UseCase {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 30
	}
	return &UseCase{itemRepo: itemRepo, lotRepo: lotRepo, defaultDays: defaultWindowDays}
}

// LowStockItems returns active items at or under their reorder threshold,
// most deficient first.
func (uc *UseCase) LowStockItems(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	items, err := uc.itemRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ItemID:           it.ID,
			Name:             it.Name,
			Unit:             it.Unit,
			CurrentQty:       it.CurrentQty,
			ReorderThreshold: it.ReorderThreshold,
			Deficit:          it.Deficit(),
		})
	}
	return out, nil
}

// ExpiringLots returns open lots whose expiry date falls within
// [now, now+withinDays], soonest first.
func (uc *UseCase) ExpiringLots(ctx context.Context, withinDays int) ([]dto.ExpiringLotDTO, error) {
	if withinDays <= 0 {
		withinDays = uc.defaultDays
	}
	now := time.Now()
	until := now.AddDate(0, 0, withinDays)

	lots, err := uc.lotRepo.ListExpiring(ctx, "", until)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringLotDTO, 0, len(lots))
	for _, l := range lots {
		if l.ExpiryDate == nil {
			continue
		}
		out = append(out, dto.ExpiringLotDTO{
			LotID:        l.ID,
			ItemID:       l.ItemID,
			BatchNumber:  l.BatchNumber,
			RemainingQty: l.RemainingQty,
			ExpiryDate:   *l.ExpiryDate,
			DaysLeft:     int(l.ExpiryDate.Sub(now).Hours() / 24),
		})
	}
	return out, nil
}
