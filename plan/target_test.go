package plan_test

import (
	"testing"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TARGET CALCULATOR
// =============================================================================

func TestTarget(t *testing.T) {
	policy := plan.StandardPolicy()

	tests := []struct {
		name   string
		in     plan.TargetInput
		expect float64
	}{
		{
			name:   "below median closes 40% of the gap",
			in:     plan.TargetInput{Current: num(300), Median: num(370), GapClosureRate: num(0.4)},
			expect: 328,
		},
		{
			name:   "inverted above median closes down",
			in:     plan.TargetInput{Current: num(39), Median: num(30), Inverted: true, GapClosureRate: num(0.4)},
			expect: 35.4,
		},
		{
			name:   "at median stretches 7%",
			in:     plan.TargetInput{Current: num(370), Median: num(370), GapClosureRate: num(0.4)},
			expect: 395.9,
		},
		{
			name:   "inverted at median shrinks 7%",
			in:     plan.TargetInput{Current: num(30), Median: num(30), Inverted: true, GapClosureRate: num(0.4)},
			expect: 27.9,
		},
		{
			name:   "beyond median ignores gap closure rate",
			in:     plan.TargetInput{Current: num(500), Median: num(370), GapClosureRate: num(0.65)},
			expect: 535,
		},
		{
			name:   "inverted beyond median stretches down",
			in:     plan.TargetInput{Current: num(2), Median: num(5), Inverted: true, GapClosureRate: num(0.65)},
			expect: 1.86,
		},
		{
			name: "custom mode uses the top performer",
			in: plan.TargetInput{
				Current: num(300), Median: num(370), TopPerformer: known(500),
				Mode: plan.ModeCustom, GapClosureRate: num(0.4),
			},
			expect: 380,
		},
		{
			name: "generic mode ignores the top performer",
			in: plan.TargetInput{
				Current: num(300), Median: num(370), TopPerformer: known(500),
				Mode: plan.ModeGeneric, GapClosureRate: num(0.4),
			},
			expect: 328,
		},
		{
			name: "custom mode without a top performer uses the median",
			in: plan.TargetInput{
				Current: num(300), Median: num(370), TopPerformer: generic.Unknown(),
				Mode: plan.ModeCustom, GapClosureRate: num(0.4),
			},
			expect: 328,
		},
		{
			name:   "rounds to cents",
			in:     plan.TargetInput{Current: num(4.21), Median: num(4.4), GapClosureRate: num(0.45)},
			expect: 4.30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.expect, plan.Target(tt.in, policy))
		})
	}
}

func TestTarget_AtMedianStretchIsNotCurrent(t *testing.T) {
	// GIVEN: current exactly equal to median, not inverted
	// THEN: target = round(current × 1.07, 2), never current itself

	for _, current := range []float64{48, 370, 4.4, 21111} {
		target := plan.Target(plan.TargetInput{
			Current:        num(current),
			Median:         num(current),
			GapClosureRate: num(0.4),
		}, plan.StandardPolicy())

		assert.True(t, generic.Round2(num(current).Mul(num(1.07))).Equal(target), "current %v: %s", current, target)
		assert.False(t, target.Equal(num(current)))
	}
}

func TestTarget_RoundsEachStep(t *testing.T) {
	// GIVEN: A current value finer than cents
	// WHEN: The target is computed
	// THEN: current rounds to 100.01, gap 99.99, step round(39.996) = 40,
	//       target 140.01 (not round(140.003) = 140)

	target := plan.Target(plan.TargetInput{
		Current:        num(100.005),
		Median:         num(200),
		GapClosureRate: num(0.4),
	}, plan.StandardPolicy())

	assertDecimal(t, 140.01, target)
}

func TestTarget_DirectionProperty(t *testing.T) {
	// GIVEN: A positive gap
	// THEN: Normal targets never drop, inverted targets never rise

	for _, rate := range []float64{0.40, 0.45, 0.5, 0.65} {
		up := plan.Target(plan.TargetInput{Current: num(40), Median: num(48), GapClosureRate: num(rate)}, plan.StandardPolicy())
		down := plan.Target(plan.TargetInput{Current: num(8), Median: num(5), Inverted: true, GapClosureRate: num(rate)}, plan.StandardPolicy())

		assert.True(t, up.GreaterThanOrEqual(num(40)))
		assert.True(t, up.LessThanOrEqual(num(48)))
		assert.True(t, down.LessThanOrEqual(num(8)))
		assert.True(t, down.GreaterThanOrEqual(num(5)))
	}
}

// =============================================================================
// RESOLVER AND MATCHER
// =============================================================================

func TestResolveCurrent(t *testing.T) {
	company := scenarioCompany()
	summary := plan.MetricSummary{
		AvgTicket:       known(412),
		CallbackRate:    known(0),
		AvgGoogleRating: known(4.6),
	}

	v, ok := plan.ResolveCurrent(plan.KPIAverageJobValue, company, summary)
	assert.True(t, ok)
	assertDecimal(t, 412, v)

	v, ok = plan.ResolveCurrent(plan.KPIAverageJobValue, company, plan.MetricSummary{})
	assert.True(t, ok, "falls back to the profile")
	assertDecimal(t, 300, v)

	v, ok = plan.ResolveCurrent(plan.KPIRevenuePerTechnician, company, summary)
	assert.True(t, ok)
	assertDecimal(t, 21111, v)

	v, ok = plan.ResolveCurrent(plan.KPILaborRate, company, summary)
	assert.True(t, ok)
	assertDecimal(t, 39, v)

	v, ok = plan.ResolveCurrent(plan.KPICallbackRate, company, summary)
	assert.True(t, ok, "a measured 0% is a value")
	assert.True(t, v.IsZero())

	v, ok = plan.ResolveCurrent(plan.KPIGoogleRating, company, summary)
	assert.True(t, ok, "equivalent rating field")
	assertDecimal(t, 4.6, v)

	_, ok = plan.ResolveCurrent(plan.KPIBillableEfficiency, company, summary)
	assert.False(t, ok)

	_, ok = plan.ResolveCurrent(plan.KPIName("Truck Rolls"), company, summary)
	assert.False(t, ok)
}

func TestResolveCurrent_TechniciansPreferredOverTeamSize(t *testing.T) {
	company := scenarioCompany()
	company.Technicians = 10

	v, ok := plan.ResolveCurrent(plan.KPIRevenuePerTechnician, company, plan.MetricSummary{})
	assert.True(t, ok)
	assertDecimal(t, 31667, v)
}

func TestResolveCurrent_MissingOperands(t *testing.T) {
	noRevenue := plan.CompanyProfile{TeamSize: 15, StaffCosts: known(1482000)}
	_, ok := plan.ResolveCurrent(plan.KPIRevenuePerTechnician, noRevenue, plan.MetricSummary{})
	assert.False(t, ok)
	_, ok = plan.ResolveCurrent(plan.KPILaborRate, noRevenue, plan.MetricSummary{})
	assert.False(t, ok)

	noTeam := plan.CompanyProfile{AnnualRevenue: known(3800000)}
	_, ok = plan.ResolveCurrent(plan.KPIRevenuePerTechnician, noTeam, plan.MetricSummary{})
	assert.False(t, ok)

	zeroRevenue := plan.CompanyProfile{AnnualRevenue: known(0), StaffCosts: known(10)}
	_, ok = plan.ResolveCurrent(plan.KPILaborRate, zeroRevenue, plan.MetricSummary{})
	assert.False(t, ok)
}

func TestMatchBenchmark_Aliases(t *testing.T) {
	set := hvacBenchmarks()

	b, ok := plan.MatchBenchmark(plan.KPIRevenuePerTechnician, set)
	assert.True(t, ok)
	assert.Equal(t, "Monthly Revenue per Team Member", b.DisplayName)

	b, ok = plan.MatchBenchmark(plan.KPIGoogleRating, set)
	assert.True(t, ok)
	assert.Equal(t, "Google Rating", b.DisplayName)

	b, ok = plan.MatchBenchmark(plan.KPILaborRate, set)
	assert.True(t, ok)
	assert.True(t, b.Inverted)

	_, ok = plan.MatchBenchmark(plan.KPIFirstTimeFixRate, set)
	assert.False(t, ok)
}

// =============================================================================
// FORMATTING
// =============================================================================

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$21,111", plan.FormatValue(generic.UnitDollarsPerMonth, num(21111)))
	assert.Equal(t, "$321.50", plan.FormatValue(generic.UnitDollars, num(321.5)))
	assert.Equal(t, "$1,250,000", plan.FormatValue(generic.UnitDollars, num(1250000)))
	assert.Equal(t, "39%", plan.FormatValue(generic.UnitPercent, num(39)))
	assert.Equal(t, "35.4%", plan.FormatValue(generic.UnitPercent, num(35.4)))
	assert.Equal(t, "4.4", plan.FormatValue(generic.UnitRating, num(4.4)))
	assert.Equal(t, "5.0", plan.FormatValue(generic.UnitRating, num(5)))
}
