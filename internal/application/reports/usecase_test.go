package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/application/reports"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/infrastructure/memory"
)

func TestStockValuation_SeparatesZeroCostQuantity(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := reports.NewUseCase(store.Reports(), nil)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "feed", Name: "Fish feed", Unit: "kg", Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "feed", Quantity: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// Found stock with no costing lineage.
	_, err = lg.RecordAdjustment(ctx, ledger.AdjustmentInput{
		ItemID: "feed", Type: ledger.AdjustIncrease,
		QuantityChange: decimal.NewFromInt(20), Reason: "found during cleanup",
	})
	require.NoError(t, err)

	report, err := uc.StockValuation(ctx)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.True(t, row.QtyOnHand.Equal(decimal.NewFromInt(120)))
	assert.True(t, row.ZeroCostQty.Equal(decimal.NewFromInt(20)))
	assert.True(t, row.TotalValue.Equal(decimal.NewFromInt(1000)), "uncosted stock adds no value")
	assert.True(t, row.AvgUnitCost.Equal(decimal.NewFromInt(10)), "average over costed quantity only")
	assert.True(t, report.TotalValue.Equal(decimal.NewFromInt(1000)))
}

func TestStockValuationPDF_NoGeneratorConfigured(t *testing.T) {
	store := memory.NewStore()
	uc := reports.NewUseCase(store.Reports(), nil)

	var err error
	require.NotPanics(t, func() {
		_, err = uc.StockValuationPDF(context.Background())
	})
	assert.ErrorIs(t, err, reports.ErrPDFNotConfigured)
}

func TestStockValuation_ReflectsConsumption(t *testing.T) {
	store := memory.NewStore()
	lg := ledger.NewUseCase(memory.NewRunner(store), store.Transactions())
	uc := reports.NewUseCase(store.Reports(), nil)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "salt", Name: "Salt", Unit: "kg", Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := lg.RecordAdd(ctx, ledger.AddStockInput{
		ItemID: "salt", Quantity: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	_, _, err = lg.RecordUse(ctx, ledger.UseStockInput{
		ItemID: "salt", Quantity: decimal.NewFromInt(30), Purpose: "water treatment",
	})
	require.NoError(t, err)

	report, err := uc.StockValuation(ctx)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].QtyOnHand.Equal(decimal.NewFromInt(20)))
	assert.True(t, report.Rows[0].TotalValue.Equal(decimal.NewFromInt(40)))
}
