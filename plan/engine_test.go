package plan_test

import (
	"errors"
	"testing"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SCENARIO: GENERIC MODE, ALL METRICS AVAILABLE
// =============================================================================

func TestEngine_GenericScenario(t *testing.T) {
	// GIVEN: 15 techs, $3.8M revenue, $1.482M staff costs, $300 tickets
	//        medians 370 / 30% (inverted) / 21,111
	// WHEN: Building a generic plan
	// THEN: The three form KPIs come back in fixed order with targets that
	//       move the right way

	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Company:    scenarioCompany(),
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.ModeGeneric,
	})

	require.Len(t, result.KPIs, 3)
	assert.Equal(t, plan.KPIAverageJobValue, result.KPIs[0].Name)
	assert.Equal(t, plan.KPIRevenuePerTechnician, result.KPIs[1].Name)
	assert.Equal(t, plan.KPILaborRate, result.KPIs[2].Name)

	ajv := result.KPIs[0]
	assertDecimal(t, 300, ajv.Current)
	assert.True(t, ajv.Target.GreaterThan(ajv.Current))
	assert.True(t, ajv.Target.LessThan(num(370)))
	assert.False(t, ajv.Inverted)

	rpt := result.KPIs[1]
	assertDecimal(t, 21111, rpt.Current)
	assert.Equal(t, "$21,111", rpt.CurrentFormatted)

	labor := result.KPIs[2]
	assertDecimal(t, 39, labor.Current)
	assert.True(t, labor.Target.LessThan(labor.Current), "inverted target must go down")
	assert.True(t, labor.Inverted)
	assert.Equal(t, "39%", labor.CurrentFormatted)
}

func TestEngine_GenericScenario_ConvergenceTrace(t *testing.T) {
	// GIVEN: The generic scenario (required minimum 20% of $3.8M = $760,000)
	// WHEN: The loop runs
	// THEN: Iteration 5 (rate 0.60, budget 600) is the first to clear the bar
	//
	//   iter  rate  budget  gross     cost     net
	//   1     0.40  800     705,199   144,000  561,199
	//   2     0.45  750     760,099   135,000  625,099
	//   3     0.50  700     814,999   126,000  688,999
	//   4     0.55  650     869,899   117,000  752,899
	//   5     0.60  600     924,799   108,000  816,799  ✓

	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Company:    scenarioCompany(),
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.ModeGeneric,
	})

	assert.True(t, result.Converged)
	require.Len(t, result.Iterations, 5)
	assertDecimal(t, 760000, result.RequiredMinimum)
	assertDecimal(t, 0.60, result.GapClosureRate)
	assertDecimal(t, 600, result.Budget)
	assertDecimal(t, 924799, result.GrossUplift)
	assertDecimal(t, 108000, result.AnnualBonusCost)
	assertDecimal(t, 816799, result.NetUplift)

	assertDecimal(t, 705199, result.Iterations[0].GrossUplift)
	assertDecimal(t, 561199, result.Iterations[0].NetUplift)
	assert.False(t, result.Iterations[3].Met)
	assert.True(t, result.Iterations[4].Met)

	// Final targets
	assertDecimal(t, 342, result.KPIs[0].Target)
	assertDecimal(t, 22588.77, result.KPIs[1].Target)
	assertDecimal(t, 33.6, result.KPIs[2].Target)
	assert.Equal(t, "$22,588.77", result.KPIs[1].TargetFormatted)
	assert.Equal(t, "33.6%", result.KPIs[2].TargetFormatted)

	// Final bonuses: [77, 446, 77] clamps 446 to 400, overflow 46 to AJV
	assertDecimal(t, 123, result.KPIs[0].BonusPerMonth)
	assertDecimal(t, 400, result.KPIs[1].BonusPerMonth)
	assertDecimal(t, 77, result.KPIs[2].BonusPerMonth)
	assertDecimal(t, 185, result.KPIs[0].BonusCap)
	assertDecimal(t, 400, result.KPIs[1].BonusCap)
	assertDecimal(t, 116, result.KPIs[2].BonusCap)
}

func TestEngine_FirstIterationAllocation(t *testing.T) {
	// GIVEN: A single-iteration policy
	// THEN: The 800 budget splits as [319, 400, 81]

	policy := plan.StandardPolicy()
	policy.MaxIterations = 1

	result := plan.NewEngine(policy).Calculate(plan.Request{
		Company:    scenarioCompany(),
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.ModeGeneric,
	})

	assert.False(t, result.Converged)
	require.Len(t, result.Iterations, 1)
	assertDecimal(t, 328, result.KPIs[0].Target)
	assertDecimal(t, 35.4, result.KPIs[2].Target)
	assertDecimal(t, 319, result.KPIs[0].BonusPerMonth)
	assertDecimal(t, 400, result.KPIs[1].BonusPerMonth)
	assertDecimal(t, 81, result.KPIs[2].BonusPerMonth)
	assertDecimal(t, 122, result.KPIs[2].BonusCap)
}

// =============================================================================
// SCENARIO: STARVED CUSTOM MODE
// =============================================================================

func TestEngine_StarvedCustomMode(t *testing.T) {
	// GIVEN: No uploaded metrics, no revenue, no team size
	// WHEN: Building a custom plan
	// THEN: Only Average Job Value is calculable; the result is short and
	//       reports insufficient data without panicking

	company := plan.CompanyProfile{Industry: "HVAC", AvgJobValue: known(300)}

	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Company:    company,
		Benchmarks: hvacBenchmarks(),
		Mode:       plan.ModeCustom,
	})

	require.Len(t, result.KPIs, 1)
	assert.Equal(t, plan.KPIAverageJobValue, result.KPIs[0].Name)
	assert.False(t, result.Complete())

	var insufficient *generic.InsufficientDataError
	require.ErrorAs(t, result.Err(), &insufficient)
	assert.Equal(t, 1, insufficient.Eligible)
	assert.True(t, errors.Is(result.Err(), generic.ErrInsufficientData))

	_, hasRPT := kpiByName(result.KPIs, plan.KPIRevenuePerTechnician)
	_, hasLabor := kpiByName(result.KPIs, plan.KPILaborRate)
	assert.False(t, hasRPT)
	assert.False(t, hasLabor)

	// Lone KPI takes the whole ceiling, the rest of the budget is dropped
	assertDecimal(t, 400, result.KPIs[0].BonusPerMonth)
}

func TestEngine_NothingCalculable(t *testing.T) {
	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Benchmarks: hvacBenchmarks(),
		Mode:       plan.ModeCustom,
	})

	assert.Empty(t, result.KPIs)
	assert.Empty(t, result.Iterations)
	assert.False(t, result.Converged)
	assert.Error(t, result.Err())
}

// =============================================================================
// NON-CONVERGENCE
// =============================================================================

func TestEngine_ExhaustsAdjustmentsWithoutConverging(t *testing.T) {
	// GIVEN: A company already at or beyond every median with huge revenue,
	//        so only the fixed stretch applies and uplift stays far below
	//        20% of revenue
	// WHEN: The loop runs
	// THEN: It stops once rate is at max and budget at floor (7 passes)
	//       and returns the last plan

	company := plan.CompanyProfile{
		TeamSize:      15,
		AnnualRevenue: known(100000000),
		StaffCosts:    known(30000000),
		AvgJobValue:   known(370),
	}

	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Company:    company,
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.ModeGeneric,
	})

	assert.False(t, result.Converged)
	require.Len(t, result.Iterations, 7)
	assertDecimal(t, 0.65, result.GapClosureRate)
	assertDecimal(t, 500, result.Budget)
	require.Len(t, result.KPIs, 3)

	// At-median stretch regardless of rate
	assertDecimal(t, 395.9, result.KPIs[0].Target)
	assertDecimal(t, 27.9, result.KPIs[2].Target)
}

func TestEngine_IterationBound(t *testing.T) {
	policy := plan.StandardPolicy()
	policy.GapClosure.Step = num(0.01)
	policy.Budget.Step = num(10)
	policy.MinProfitShare = num(0.9)

	result := plan.NewEngine(policy).Calculate(plan.Request{
		Company:    scenarioCompany(),
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.ModeGeneric,
	})

	assert.False(t, result.Converged)
	assert.Len(t, result.Iterations, 10)
}

func TestEngine_BudgetByTeamSize(t *testing.T) {
	budget := plan.StandardPolicy().Budget

	assertDecimal(t, 500, budget.For(3))
	assertDecimal(t, 800, budget.For(4))
	assertDecimal(t, 800, budget.For(0))
	assertDecimal(t, 800, budget.For(49))
	assertDecimal(t, 1200, budget.For(50))
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestEngine_Idempotent(t *testing.T) {
	req := plan.Request{
		Company: scenarioCompany(),
		Summary: plan.MetricSummary{
			BillableEfficiency: known(40),
			CallbackRate:       known(8),
			GoogleRating:       known(4.2),
		},
		Benchmarks: hvacBenchmarks(),
		Mode:       plan.ModeCustom,
		Selected:   []plan.SelectedKPI{{Name: "Callback Rate"}},
	}
	engine := plan.NewEngine(plan.StandardPolicy())

	first := engine.Calculate(req)
	second := engine.Calculate(req)

	require.Len(t, second.KPIs, len(first.KPIs))
	for i := range first.KPIs {
		a, b := first.KPIs[i], second.KPIs[i]
		assert.Equal(t, a.Name, b.Name)
		assert.True(t, a.Target.Equal(b.Target))
		assert.True(t, a.BonusPerMonth.Equal(b.BonusPerMonth))
		assert.True(t, a.BonusCap.Equal(b.BonusCap))
		assert.Equal(t, a.TargetFormatted, b.TargetFormatted)
	}
	assert.Equal(t, len(first.Iterations), len(second.Iterations))
	assert.True(t, first.NetUplift.Equal(second.NetUplift))
}

func TestEngine_AllocationAndDirectionInvariants(t *testing.T) {
	// GIVEN: Several company shapes in both modes
	// THEN: Σ bonus <= budget, cap in [bonus, ceiling], and every target
	//       moves in the KPI's better direction

	companies := []plan.CompanyProfile{
		scenarioCompany(),
		{TeamSize: 2, AnnualRevenue: known(400000), StaffCosts: known(200000), AvgJobValue: known(150)},
		{TeamSize: 80, AnnualRevenue: known(20000000), StaffCosts: known(5000000), AvgJobValue: known(900)},
	}
	summary := plan.MetricSummary{
		BillableEfficiency: known(55),
		CallbackRate:       known(1),
		GoogleRating:       known(4.9),
	}

	for _, company := range companies {
		for _, mode := range []plan.Mode{plan.ModeGeneric, plan.ModeCustom} {
			result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
				Company:    company,
				Summary:    summary,
				Benchmarks: hvacBenchmarks(),
				Mode:       mode,
			})
			require.Len(t, result.KPIs, 3)

			total := num(0)
			for _, k := range result.KPIs {
				total = total.Add(k.BonusPerMonth)
				assert.True(t, k.BonusCap.GreaterThanOrEqual(k.BonusPerMonth), "%s cap", k.Name)
				assert.True(t, k.BonusCap.LessThanOrEqual(num(plan.DefaultBonusCeiling)), "%s cap", k.Name)
				if k.Inverted {
					assert.True(t, k.Target.LessThan(k.Current), "%s should go down", k.Name)
				} else {
					assert.True(t, k.Target.GreaterThan(k.Current), "%s should go up", k.Name)
				}
			}
			assert.True(t, total.LessThanOrEqual(result.Budget))
			assert.True(t, total.Equal(result.Budget), "3 × 400 covers every budget here")
		}
	}
}

func TestCalculatePlanTargets_UsesStandardPolicy(t *testing.T) {
	kpis := plan.CalculatePlanTargets(nil, scenarioCompany(), plan.MetricSummary{}, scenarioBenchmarks(), plan.ModeGeneric)

	require.Len(t, kpis, 3)
	assertDecimal(t, 123, kpis[0].BonusPerMonth)
}

func TestEngine_InvalidModeFallsBackToGeneric(t *testing.T) {
	result := plan.NewEngine(plan.StandardPolicy()).Calculate(plan.Request{
		Company:    scenarioCompany(),
		Benchmarks: scenarioBenchmarks(),
		Mode:       plan.Mode("bespoke"),
	})

	assert.Equal(t, plan.ModeGeneric, result.Mode)
	assert.Len(t, result.KPIs, 3)
}
