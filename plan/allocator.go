package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// Allocation is the bonus assigned to one KPI.
type Allocation struct {
	BonusPerMonth decimal.Decimal
	BonusCap      decimal.Decimal
}

// Gap is the (current, target) pair the allocator weighs.
type Gap struct {
	Current decimal.Decimal
	Target  decimal.Decimal
}

// AllocateBonuses splits the monthly budget across KPIs in proportion to
// |target − current|, with the policy's floor and per-KPI ceiling. The
// result is in input order and never sums above budget.
//
// The cap is what a technician can earn by overshooting the target:
// min(ceiling, round(bonus × cap multiplier)).
func AllocateBonuses(gaps []Gap, budget decimal.Decimal, policy AllocationPolicy) []Allocation {
	weights := make([]decimal.Decimal, len(gaps))
	for i, g := range gaps {
		weights[i] = g.Target.Sub(g.Current).Abs()
	}

	distributor := &generic.BudgetDistributor{Floor: policy.Floor, Ceiling: policy.Ceiling}
	distribution := distributor.Distribute(weights, budget)

	out := make([]Allocation, len(gaps))
	for i, amount := range distribution.Amounts {
		out[i] = Allocation{
			BonusPerMonth: amount,
			BonusCap:      policy.capFor(amount),
		}
	}
	return out
}

func (p AllocationPolicy) capFor(bonus decimal.Decimal) decimal.Decimal {
	c := generic.Whole(bonus.Mul(p.CapMultiplier))
	if p.Ceiling.IsPositive() && c.GreaterThan(p.Ceiling) {
		return p.Ceiling
	}
	return c
}
