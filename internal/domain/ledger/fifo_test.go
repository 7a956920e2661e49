package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/ledger"
)

func lot(seq int64, day int, remaining, cost float64) *entity.Lot {
	return &entity.Lot{
		ID:           "lot-" + string(rune('0'+seq)),
		ItemID:       "item-1",
		Seq:          seq,
		OriginalQty:  decimal.NewFromFloat(remaining),
		RemainingQty: decimal.NewFromFloat(remaining),
		UnitCost:     decimal.NewFromFloat(cost),
		AcquiredAt:   time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

// 100 units at 10 on day 1, 50 units at 12 on day 3, use 120.
// Consumes all 100 from lot 1 (1000) plus 20 from lot 2 (240): total 1240.
func TestPlanConsumption_OldestFirstWeightedCost(t *testing.T) {
	lots := []*entity.Lot{lot(1, 1, 100, 10), lot(2, 3, 50, 12)}

	plan, err := ledger.PlanConsumption(lots, decimal.NewFromInt(120))
	require.NoError(t, err)

	require.Len(t, plan.Consumptions, 2)
	assert.True(t, plan.Consumptions[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(1), plan.Consumptions[0].Lot.Seq)
	assert.True(t, plan.Consumptions[1].Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, int64(2), plan.Consumptions[1].Lot.Seq)
	assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(1240)), "total cost = %s", plan.TotalCost)
}

func TestPlanConsumption_InsufficientStock(t *testing.T) {
	lots := []*entity.Lot{lot(1, 1, 100, 10), lot(2, 3, 50, 12)}

	plan, err := ledger.PlanConsumption(lots, decimal.NewFromInt(200))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, plan, "no partial plan on failure")

	// Lots untouched.
	assert.True(t, lots[0].RemainingQty.Equal(decimal.NewFromInt(100)))
	assert.True(t, lots[1].RemainingQty.Equal(decimal.NewFromInt(50)))
}

func TestPlanConsumption_SameDateTieBreakBySeq(t *testing.T) {
	a := lot(1, 1, 10, 5)
	b := lot(2, 1, 10, 7) // same acquisition date, created later

	plan, err := ledger.PlanConsumption([]*entity.Lot{b, a}, decimal.NewFromInt(15))
	require.NoError(t, err)

	require.Len(t, plan.Consumptions, 2)
	assert.Equal(t, int64(1), plan.Consumptions[0].Lot.Seq)
	assert.True(t, plan.Consumptions[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(2), plan.Consumptions[1].Lot.Seq)
	assert.True(t, plan.Consumptions[1].Quantity.Equal(decimal.NewFromInt(5)))
	// 10*5 + 5*7 = 85
	assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(85)))
}

// Identical history must yield an identical plan on every run.
func TestPlanConsumption_Deterministic(t *testing.T) {
	build := func() []*entity.Lot {
		return []*entity.Lot{lot(3, 2, 25, 8), lot(1, 1, 40, 10), lot(2, 2, 25, 9)}
	}

	first, err := ledger.PlanConsumption(build(), decimal.NewFromInt(70))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ledger.PlanConsumption(build(), decimal.NewFromInt(70))
		require.NoError(t, err)
		require.Len(t, again.Consumptions, len(first.Consumptions))
		for j := range first.Consumptions {
			assert.Equal(t, first.Consumptions[j].Lot.Seq, again.Consumptions[j].Lot.Seq)
			assert.True(t, first.Consumptions[j].Quantity.Equal(again.Consumptions[j].Quantity))
		}
		assert.True(t, first.TotalCost.Equal(again.TotalCost))
	}
}

func TestPlanConsumption_SkipsExhaustedLots(t *testing.T) {
	empty := lot(1, 1, 0, 10)
	open := lot(2, 2, 30, 6)

	plan, err := ledger.PlanConsumption([]*entity.Lot{empty, open}, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Len(t, plan.Consumptions, 1)
	assert.Equal(t, int64(2), plan.Consumptions[0].Lot.Seq)
}

func TestPlanConsumption_RejectsNonPositiveQuantity(t *testing.T) {
	lots := []*entity.Lot{lot(1, 1, 10, 5)}

	_, err := ledger.PlanConsumption(lots, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ledger.PlanConsumption(lots, decimal.NewFromInt(-3))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
