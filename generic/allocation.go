/*
allocation.go - Proportional budget distribution with floor and ceiling

PURPOSE:
  Splits a fixed whole-dollar budget across N entries in proportion to a
  weight per entry. Used by the plan package to turn improvement gaps into
  monthly bonus amounts, but knows nothing about KPIs.

ALGORITHM:
  1. All weights zero: even split, remainder onto the first entry
  2. Otherwise: raw[i] = max(Floor, round(total × w[i] / Σw))
  3. Rescale: out[i] = round(raw[i] × total / Σraw)
  4. Residual: total − Σout goes onto the largest entry (first on ties),
     so the entries sum exactly to total
  5. Ceiling: any entry above Ceiling is clamped and its excess becomes
     overflow. Overflow is handed out largest-remaining-room-first until it
     is gone or no entry has room left. What cannot be placed is Dropped.

INVARIANTS:
  - Σ Amounts + Dropped == Total
  - Every amount <= Ceiling (when Ceiling is set)
  - Dropped > 0 only when N × Ceiling < Total

EXAMPLE:
  d := &BudgetDistributor{Floor: decimal.NewFromInt(100), Ceiling: decimal.NewFromInt(400)}
  r := d.Distribute([]decimal.Decimal{d70, d10, d10}, decimal.NewFromInt(800))
  // raw [622, 100, 100] rescales to [606, 97, 97]; 606 is clamped to 400
  // and the 206 overflow goes to the entry with the most room: [400, 303, 97]

SEE ALSO:
  - plan/allocator.go: Bonus allocation on top of this
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// BudgetDistributor splits a budget by weight.
// A zero Ceiling disables clamping.
type BudgetDistributor struct {
	Floor   decimal.Decimal
	Ceiling decimal.Decimal
}

// BudgetDistribution is the outcome of one distribution.
type BudgetDistribution struct {
	Total   decimal.Decimal
	Amounts []decimal.Decimal // same order as the weights
	Dropped decimal.Decimal   // overflow nobody had room for
}

// Distributed returns Σ Amounts.
func (d BudgetDistribution) Distributed() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range d.Amounts {
		sum = sum.Add(a)
	}
	return sum
}

// Distribute splits total across len(weights) entries.
// Negative weights are treated by magnitude.
func (bd *BudgetDistributor) Distribute(weights []decimal.Decimal, total decimal.Decimal) BudgetDistribution {
	result := BudgetDistribution{Total: total, Dropped: decimal.Zero}
	n := len(weights)
	if n == 0 {
		result.Dropped = total
		return result
	}

	sumWeights := decimal.Zero
	for _, w := range weights {
		sumWeights = sumWeights.Add(w.Abs())
	}

	var amounts []decimal.Decimal
	if sumWeights.IsZero() {
		amounts = evenSplit(n, total)
	} else {
		amounts = bd.proportional(weights, sumWeights, total)
	}

	result.Amounts = amounts
	if bd.Ceiling.IsPositive() {
		result.Dropped = bd.clampAndRedistribute(amounts)
	}
	return result
}

func evenSplit(n int, total decimal.Decimal) []decimal.Decimal {
	each := total.Div(decimal.NewFromInt(int64(n))).Floor()
	amounts := make([]decimal.Decimal, n)
	for i := range amounts {
		amounts[i] = each
	}
	amounts[0] = amounts[0].Add(total.Sub(each.Mul(decimal.NewFromInt(int64(n)))))
	return amounts
}

func (bd *BudgetDistributor) proportional(weights []decimal.Decimal, sumWeights, total decimal.Decimal) []decimal.Decimal {
	raw := make([]decimal.Decimal, len(weights))
	sumRaw := decimal.Zero
	for i, w := range weights {
		share := Whole(total.Mul(w.Abs()).Div(sumWeights))
		raw[i] = decimal.Max(bd.Floor, share)
		sumRaw = sumRaw.Add(raw[i])
	}

	amounts := make([]decimal.Decimal, len(weights))
	if sumRaw.IsZero() {
		return evenSplit(len(weights), total)
	}
	sum := decimal.Zero
	for i, r := range raw {
		amounts[i] = Whole(r.Mul(total).Div(sumRaw))
		sum = sum.Add(amounts[i])
	}

	if residual := total.Sub(sum); !residual.IsZero() {
		largest := indexOfLargest(amounts)
		amounts[largest] = amounts[largest].Add(residual)
	}
	return amounts
}

// clampAndRedistribute mutates amounts in place and returns what was dropped.
func (bd *BudgetDistributor) clampAndRedistribute(amounts []decimal.Decimal) decimal.Decimal {
	overflow := decimal.Zero
	for i, a := range amounts {
		if a.GreaterThan(bd.Ceiling) {
			overflow = overflow.Add(a.Sub(bd.Ceiling))
			amounts[i] = bd.Ceiling
		}
	}

	// Each pass either empties overflow or fills one entry to the ceiling,
	// so this runs at most len(amounts) times.
	for overflow.IsPositive() {
		best := -1
		bestRoom := decimal.Zero
		for i, a := range amounts {
			room := bd.Ceiling.Sub(a)
			if room.GreaterThan(bestRoom) {
				best = i
				bestRoom = room
			}
		}
		if best < 0 {
			break
		}

		give := decimal.Min(overflow, bestRoom)
		amounts[best] = amounts[best].Add(give)
		overflow = overflow.Sub(give)
	}
	return overflow
}

func indexOfLargest(values []decimal.Decimal) int {
	largest := 0
	for i := 1; i < len(values); i++ {
		if values[i].GreaterThan(values[largest]) {
			largest = i
		}
	}
	return largest
}
