package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
)

// Consumption is one lot's share of a planned FIFO consumption.
type Consumption struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
}

// ConsumptionPlan is the result of planning a FIFO consumption: which lots to
// draw down, by how much, and the weighted cost of the consumed quantity.
type ConsumptionPlan struct {
	Consumptions []Consumption
	TotalCost    decimal.Decimal
}

// UnitCost is the weighted average cost of the consumed quantity.
func (p *ConsumptionPlan) UnitCost(requested decimal.Decimal) decimal.Decimal {
	if requested.IsZero() {
		return decimal.Zero
	}
	return p.TotalCost.Div(requested)
}

// PlanConsumption selects lots oldest-first to cover the requested quantity.
// Feasibility is checked before anything is planned: if the open lots cannot
// cover the request the whole operation fails with ErrInsufficientStock and no
// partial plan is returned.
//
// Ordering is acquisition date ascending with the lot insertion sequence as
// tie-break, so replaying an identical history always consumes the same lots
// for the same amounts. The function never mutates the lots; the caller
// applies the plan inside its unit of work.
func PlanConsumption(lots []*entity.Lot, requested decimal.Decimal) (*ConsumptionPlan, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}

	ordered := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Open() {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].AcquiredAt.Equal(ordered[j].AcquiredAt) {
			return ordered[i].AcquiredAt.Before(ordered[j].AcquiredAt)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	available := decimal.Zero
	for _, l := range ordered {
		available = available.Add(l.RemainingQty)
	}
	if available.LessThan(requested) {
		return nil, domain.ErrInsufficientStock
	}

	need := requested
	plan := &ConsumptionPlan{TotalCost: decimal.Zero}
	for _, lot := range ordered {
		if need.IsZero() {
			break
		}
		consumed := decimal.Min(need, lot.RemainingQty)
		plan.Consumptions = append(plan.Consumptions, Consumption{Lot: lot, Quantity: consumed})
		plan.TotalCost = plan.TotalCost.Add(consumed.Mul(lot.UnitCost))
		need = need.Sub(consumed)
	}
	return plan, nil
}
