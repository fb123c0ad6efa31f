package plan_test

import (
	"testing"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func num(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func known(v float64) decimal.NullDecimal { return generic.Known(v) }

func bench(display string, lower, median, upper float64, inverted bool) generic.Benchmark {
	return generic.Benchmark{
		DisplayName: display,
		Lower:       num(lower),
		Median:      num(median),
		Upper:       num(upper),
		Inverted:    inverted,
	}
}

// hvacBenchmarks is a 15-25 person HVAC reference set.
func hvacBenchmarks() generic.BenchmarkSet {
	return generic.BenchmarkSet{
		bench("Annual Revenue", 2500000, 3800000, 6200000, false),
		bench("Labor Rate", 38, 30, 23, true),
		bench("Average Job Value", 200, 370, 600, false),
		bench("Monthly Revenue per Team Member", 10500, 15800, 24600, false),
		bench("Billable Efficiency", 30, 48, 75, false),
		bench("Callback Rate", 9, 5, 2.25, true),
		bench("Google Rating", 3.8, 4.4, 4.8, false),
	}
}

// scenarioBenchmarks matches the generic-mode walkthrough: medians
// 370 / 30% (inverted) / 21,111.
func scenarioBenchmarks() generic.BenchmarkSet {
	return generic.BenchmarkSet{
		bench("Average Job Value", 200, 370, 600, false),
		bench("Labor Rate", 38, 30, 23, true),
		bench("Monthly Revenue per Team Member", 15000, 21111, 30000, false),
	}
}

func scenarioCompany() plan.CompanyProfile {
	return plan.CompanyProfile{
		Name:          "Acme Heating",
		Industry:      "HVAC",
		TeamSize:      15,
		AnnualRevenue: known(3800000),
		StaffCosts:    known(1482000),
		AvgJobValue:   known(300),
	}
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, num(expected).Equal(actual), "expected %v, got %s", expected, actual.String())
}

func kpiByName(kpis []plan.CalculatedKPI, name plan.KPIName) (plan.CalculatedKPI, bool) {
	for _, k := range kpis {
		if k.Name == name {
			return k, true
		}
	}
	return plan.CalculatedKPI{}, false
}
