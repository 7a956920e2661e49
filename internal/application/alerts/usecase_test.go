package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmerp/stockledger-api/internal/application/alerts"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/infrastructure/memory"
)

func seedItem(t *testing.T, store *memory.Store, id string, threshold int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, store.Items().Create(context.Background(), &entity.Item{
		ID:               id,
		Name:             "Item " + id,
		Unit:             "kg",
		ReorderThreshold: decimal.NewFromInt(threshold),
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
}

// An item drops below its threshold, shows up in the low-stock view, and
// disappears again once restocked. The view is derived, never stored.
func TestLowStockItems_Lifecycle(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "feed", 20)

	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(30), UnitCost: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	low, err := uc.LowStockItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, low, "30 on hand, threshold 20")

	_, _, err = lg.RecordUse(ctx, ledger.UseStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(15), Purpose: "feeding",
	})
	require.NoError(t, err)

	low, err = uc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "feed", low[0].ItemID)
	assert.True(t, low[0].CurrentQty.Equal(decimal.NewFromInt(15)))
	assert.True(t, low[0].Deficit.Equal(decimal.NewFromInt(5)))

	_, err = lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	low, err = uc.LowStockItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, low, "restocked past the threshold")
}

func TestLowStockItems_ExactThresholdCountsAsLow(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "salt", 10)
	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "salt", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	low, err := uc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1, "at-threshold is low, not merely below")
	assert.True(t, low[0].Deficit.IsZero())
}

func TestLowStockItems_SkipsInactive(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "old-feed", 20)
	require.NoError(t, store.Items().SetActive(ctx, "old-feed", false))

	low, err := uc.LowStockItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestLowStockItems_MostDeficientFirst(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "a", 10)
	seedItem(t, store, "b", 50)

	low, err := uc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "b", low[0].ItemID, "deficit 50 before deficit 10")
	assert.Equal(t, "a", low[1].ItemID)
}

func TestExpiringLots_WindowAndOrdering(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "vitamins", 0)

	add := func(days int, batch string) {
		exp := time.Now().AddDate(0, 0, days)
		_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
			ItemID:      "vitamins",
			Quantity:    decimal.NewFromInt(5),
			UnitCost:    decimal.NewFromInt(3),
			BatchNumber: batch,
			ExpiryDate:  &exp,
		})
		require.NoError(t, err)
	}
	add(45, "far")   // outside the 30-day window
	add(10, "soon")  // inside
	add(25, "later") // inside

	// No expiry date at all: never alerts.
	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "vitamins", Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	lots, err := uc.ExpiringLots(ctx, 30)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, "soon", lots[0].BatchNumber, "soonest first")
	assert.Equal(t, "later", lots[1].BatchNumber)
	assert.InDelta(t, 10, lots[0].DaysLeft, 1)
}

func TestExpiringLots_SkipsExhaustedLots(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 30)
	ctx := context.Background()

	seedItem(t, store, "feed", 0)
	exp := time.Now().AddDate(0, 0, 5)
	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(8), UnitCost: decimal.NewFromInt(2), ExpiryDate: &exp,
	})
	require.NoError(t, err)
	_, _, err = lg.RecordUse(ctx, ledger.UseStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(8), Purpose: "feeding",
	})
	require.NoError(t, err)

	lots, err := uc.ExpiringLots(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, lots, "an empty lot cannot expire into waste")
}

func TestExpiringLots_ConfiguredDefaultWindow(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := alerts.NewUseCase(store.Items(), store.Lots(), 15)
	ctx := context.Background()

	seedItem(t, store, "feed", 0)
	add := func(days int, batch string) {
		exp := time.Now().AddDate(0, 0, days)
		_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
			ItemID:      "feed",
			Quantity:    decimal.NewFromInt(5),
			UnitCost:    decimal.NewFromInt(3),
			BatchNumber: batch,
			ExpiryDate:  &exp,
		})
		require.NoError(t, err)
	}
	add(10, "inside")
	add(20, "outside")

	// Zero means "use the configured default", here 15 days.
	lots, err := uc.ExpiringLots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "inside", lots[0].BatchNumber)
}
