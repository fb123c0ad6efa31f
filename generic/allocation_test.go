package generic_test

import (
	"testing"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decs(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func assertAmounts(t *testing.T, expected []int64, actual []decimal.Decimal) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i, e := range expected {
		assert.True(t, dec(e).Equal(actual[i]), "amount[%d]: expected %d, got %s", i, e, actual[i])
	}
}

func assertSameAmounts(t *testing.T, expected, actual []decimal.Decimal) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equal(actual[i]), "amount[%d]: %s != %s", i, expected[i], actual[i])
	}
}

func bonusDistributor() *generic.BudgetDistributor {
	return &generic.BudgetDistributor{Floor: dec(100), Ceiling: dec(400)}
}

// =============================================================================
// PROPORTIONAL SPLIT
// =============================================================================

func TestDistribute_FloorThenRescale(t *testing.T) {
	// GIVEN: One dominant weight, no ceiling
	// WHEN: Distributing 800
	// THEN: Small entries are lifted to the floor, then everything is rescaled
	//       raw [784, 100, 100] -> [637, 81, 81] + residual 1 on the largest

	d := &generic.BudgetDistributor{Floor: dec(100)}
	r := d.Distribute(decs(98, 1, 1), dec(800))

	assertAmounts(t, []int64{638, 81, 81}, r.Amounts)
	assert.True(t, r.Dropped.IsZero())
	assert.True(t, r.Distributed().Equal(dec(800)))
}

func TestDistribute_CeilingOverflowGoesToLargestRoom(t *testing.T) {
	// GIVEN: Weights 70/10/10 with floor 100 and ceiling 400
	// WHEN: Distributing 800
	// THEN: [606, 97, 97] clamps to 400 and the 206 overflow lands on the
	//       first entry with the most room

	r := bonusDistributor().Distribute(decs(70, 10, 10), dec(800))

	assertAmounts(t, []int64{400, 303, 97}, r.Amounts)
	assert.True(t, r.Distributed().Equal(dec(800)))
}

func TestDistribute_ZeroWeights_EvenSplit(t *testing.T) {
	r := bonusDistributor().Distribute(decs(0, 0, 0), dec(800))

	assertAmounts(t, []int64{268, 266, 266}, r.Amounts)
	assert.True(t, r.Distributed().Equal(dec(800)))
}

func TestDistribute_ZeroWeights_EvenSplitClampedToCeiling(t *testing.T) {
	// GIVEN: 1500 split evenly three ways with a 400 ceiling
	// THEN: Nobody has room for the overflow, so 300 is dropped

	r := bonusDistributor().Distribute(decs(0, 0, 0), dec(1500))

	assertAmounts(t, []int64{400, 400, 400}, r.Amounts)
	assert.True(t, r.Dropped.Equal(dec(300)))
	assert.True(t, r.Distributed().Add(r.Dropped).Equal(dec(1500)))
}

func TestDistribute_NegativeWeightsUseMagnitude(t *testing.T) {
	a := bonusDistributor().Distribute(decs(-70, 10, -10), dec(800))
	b := bonusDistributor().Distribute(decs(70, 10, 10), dec(800))

	assertSameAmounts(t, b.Amounts, a.Amounts)
}

func TestDistribute_NoEntries(t *testing.T) {
	r := bonusDistributor().Distribute(nil, dec(800))

	assert.Empty(t, r.Amounts)
	assert.True(t, r.Dropped.Equal(dec(800)))
}

func TestDistribute_SingleEntryCappedAtCeiling(t *testing.T) {
	r := bonusDistributor().Distribute(decs(5), dec(800))

	assertAmounts(t, []int64{400}, r.Amounts)
	assert.True(t, r.Dropped.Equal(dec(400)))
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestDistribute_SumInvariant(t *testing.T) {
	// GIVEN: A grid of budgets and weight shapes
	// THEN: Σ amounts <= budget, equal when 3 × ceiling >= budget,
	//       and no amount exceeds the ceiling

	budgets := []int64{300, 500, 650, 800, 1000, 1200, 1500}
	shapes := [][]int64{
		{1, 1, 1},
		{0, 0, 0},
		{100, 1, 1},
		{3, 2, 1},
		{0, 5, 0},
		{37, 41, 2},
		{1000, 999, 1},
	}

	for _, budget := range budgets {
		for _, shape := range shapes {
			r := bonusDistributor().Distribute(decs(shape...), dec(budget))

			total := r.Distributed()
			assert.True(t, total.LessThanOrEqual(dec(budget)), "budget %d shape %v: %s", budget, shape, total)
			if 3*400 >= budget {
				assert.True(t, total.Equal(dec(budget)), "budget %d shape %v: %s", budget, shape, total)
			}
			for _, a := range r.Amounts {
				assert.True(t, a.LessThanOrEqual(dec(400)), "budget %d shape %v: %s", budget, shape, a)
			}
		}
	}
}

func TestDistribute_Deterministic(t *testing.T) {
	first := bonusDistributor().Distribute(decs(37, 41, 2), dec(950))
	second := bonusDistributor().Distribute(decs(37, 41, 2), dec(950))

	assertSameAmounts(t, first.Amounts, second.Amounts)
	assert.True(t, first.Dropped.Equal(second.Dropped))
}
