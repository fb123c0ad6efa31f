package plan_test

import (
	"testing"

	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/stretchr/testify/assert"
)

func connectedSummary() plan.MetricSummary {
	return plan.MetricSummary{
		BillableEfficiency: known(40),
		CallbackRate:       known(8),
		GoogleRating:       known(4.2),
	}
}

// Distances from hvacBenchmarks medians for scenarioCompany + connectedSummary:
//
//	Revenue Per Technician  |15800 − 21111| = 5311
//	Average Job Value       |370 − 300|     = 70
//	Labor Rate              |30 − 39|       = 9
//	Billable Efficiency     |48 − 40|       = 8
//	Callback Rate           |5 − 8|         = 3
//	Average Google Rating   |4.4 − 4.2|     = 0.2

func TestSelect_GenericModeIgnoresNominations(t *testing.T) {
	names := plan.SelectKPINames(
		[]plan.SelectedKPI{{Name: "Callback Rate"}, {Name: "Billable Efficiency"}},
		scenarioCompany(), connectedSummary(), hvacBenchmarks(), plan.ModeGeneric,
	)

	assert.Equal(t, []plan.KPIName{
		plan.KPIAverageJobValue,
		plan.KPIRevenuePerTechnician,
		plan.KPILaborRate,
	}, names)
}

func TestSelect_CustomKeepsAvailableNominationsThenRanksByGap(t *testing.T) {
	// GIVEN: Nominations with a duplicate, an unknown name and an
	//        unavailable KPI
	// WHEN: Selecting in custom mode
	// THEN: Available nominations come first, deduplicated, and the
	//       biggest remaining benchmark gap fills the last slot

	selected := []plan.SelectedKPI{
		{Name: "Callback Rate", Reason: "rework"},
		{Name: "Callback Rate", Reason: "again"},
		{Name: "Truck Rolls"},
		{Name: "First-Time Fix Rate"},
		{Name: " Billable Efficiency "},
	}

	names := plan.SelectKPINames(selected, scenarioCompany(), connectedSummary(), hvacBenchmarks(), plan.ModeCustom)

	assert.Equal(t, []plan.KPIName{
		plan.KPICallbackRate,
		plan.KPIBillableEfficiency,
		plan.KPIRevenuePerTechnician,
	}, names)
}

func TestSelect_CustomWithoutNominationsRanksByGap(t *testing.T) {
	names := plan.SelectKPINames(nil, scenarioCompany(), connectedSummary(), hvacBenchmarks(), plan.ModeCustom)

	assert.Equal(t, []plan.KPIName{
		plan.KPIRevenuePerTechnician,
		plan.KPIAverageJobValue,
		plan.KPILaborRate,
	}, names)
}

func TestSelect_CustomTruncatesNominationsToThree(t *testing.T) {
	selected := []plan.SelectedKPI{
		{Name: "Average Google Rating"},
		{Name: "Callback Rate"},
		{Name: "Billable Efficiency"},
		{Name: "Labor Rate"},
	}

	names := plan.SelectKPINames(selected, scenarioCompany(), connectedSummary(), hvacBenchmarks(), plan.ModeCustom)

	assert.Equal(t, []plan.KPIName{
		plan.KPIGoogleRating,
		plan.KPICallbackRate,
		plan.KPIBillableEfficiency,
	}, names)
}

func TestSelect_ZeroGapCandidatesBackfillInEligibilityOrder(t *testing.T) {
	// GIVEN: Two KPIs exactly at median and one slightly off
	// THEN: The off-median KPI ranks first, the rest follow in catalog order

	summary := plan.MetricSummary{
		BillableEfficiency: known(48),
		CallbackRate:       known(5),
		GoogleRating:       known(4.2),
	}

	names := plan.SelectKPINames(nil, plan.CompanyProfile{}, summary, hvacBenchmarks(), plan.ModeCustom)

	assert.Equal(t, []plan.KPIName{
		plan.KPIGoogleRating,
		plan.KPIBillableEfficiency,
		plan.KPICallbackRate,
	}, names)
}

func TestSelect_StarvedUniverse(t *testing.T) {
	company := plan.CompanyProfile{AvgJobValue: known(300)}

	custom := plan.SelectKPINames(nil, company, plan.MetricSummary{}, hvacBenchmarks(), plan.ModeCustom)
	assert.Equal(t, []plan.KPIName{plan.KPIAverageJobValue}, custom)

	generic := plan.SelectKPINames(nil, company, plan.MetricSummary{}, hvacBenchmarks(), plan.ModeGeneric)
	assert.Equal(t, []plan.KPIName{plan.KPIAverageJobValue}, generic)
}

func TestSelect_MissingBenchmarkMakesKPIIneligible(t *testing.T) {
	// GIVEN: Data for Average Job Value but no benchmark row for it
	set := scenarioBenchmarks()[1:]

	names := plan.SelectKPINames(nil, scenarioCompany(), plan.MetricSummary{}, set, plan.ModeGeneric)

	assert.Equal(t, []plan.KPIName{plan.KPIRevenuePerTechnician, plan.KPILaborRate}, names)
}

func TestSelect_CompletenessProperty(t *testing.T) {
	// GIVEN: Every subset of nominations over a universe with six
	//        available KPIs
	// THEN: Exactly three distinct names, nominations first

	universe := []string{
		"Average Job Value", "Revenue Per Technician", "Labor Rate",
		"Billable Efficiency", "Callback Rate", "Average Google Rating",
	}

	for mask := 0; mask < 1<<len(universe); mask++ {
		var selected []plan.SelectedKPI
		for i, name := range universe {
			if mask&(1<<i) != 0 {
				selected = append(selected, plan.SelectedKPI{Name: name})
			}
		}

		names := plan.SelectKPINames(selected, scenarioCompany(), connectedSummary(), hvacBenchmarks(), plan.ModeCustom)
		assert.Len(t, names, 3, "mask %b", mask)

		seen := map[plan.KPIName]bool{}
		for _, n := range names {
			assert.False(t, seen[n], "duplicate %s", n)
			seen[n] = true
		}

		for i := 0; i < len(selected) && i < 3; i++ {
			assert.Equal(t, plan.KPIName(selected[i].Name), names[i], "mask %b", mask)
		}
	}
}

func TestEligible(t *testing.T) {
	assert.Len(t, plan.Eligible(plan.ModeGeneric), 3)
	assert.Len(t, plan.Eligible(plan.ModeCustom), 8)
	assert.Equal(t, plan.KPIFirstTimeFixRate, plan.Eligible(plan.ModeCustom)[7])
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, plan.ModeCustom, plan.ParseMode(" Custom "))
	assert.Equal(t, plan.ModeGeneric, plan.ParseMode("generic"))
	assert.Equal(t, plan.ModeGeneric, plan.ParseMode("anything"))
}
