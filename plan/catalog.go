package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
)

// KPIName is the canonical display name of a plannable KPI.
type KPIName string

const (
	KPIAverageJobValue       KPIName = "Average Job Value"
	KPIRevenuePerTechnician  KPIName = "Revenue Per Technician"
	KPILaborRate             KPIName = "Labor Rate"
	KPIBillableEfficiency    KPIName = "Billable Efficiency"
	KPICallbackRate          KPIName = "Callback Rate"
	KPIGoogleRating          KPIName = "Average Google Rating"
	KPIMaintenanceConversion KPIName = "Maintenance Agreement Conversion"
	KPIFirstTimeFixRate      KPIName = "First-Time Fix Rate"
)

// MetricDomain is the registry domain for plan KPIs.
const MetricDomain = "bonus_plan"

// PlanSize is how many KPIs a complete plan carries.
const PlanSize = 3

// KPIDef describes one KPI. Direction here is the usual one; the benchmark
// row's inverted flag is authoritative when a plan is built.
type KPIDef struct {
	Name        KPIName
	Unit        generic.Unit
	Direction   generic.Direction
	Description string
}

// catalog is in eligibility order. The first three form the generic set.
var catalog = []KPIDef{
	{KPIAverageJobValue, generic.UnitDollars, generic.HigherIsBetter,
		"Average invoice total per completed job"},
	{KPIRevenuePerTechnician, generic.UnitDollarsPerMonth, generic.HigherIsBetter,
		"Monthly revenue divided by technician headcount"},
	{KPILaborRate, generic.UnitPercent, generic.LowerIsBetter,
		"Staff costs as a share of annual revenue"},
	{KPIBillableEfficiency, generic.UnitPercent, generic.HigherIsBetter,
		"Billable hours as a share of hours worked"},
	{KPICallbackRate, generic.UnitPercent, generic.LowerIsBetter,
		"Share of jobs that are callbacks, recalls or warranty returns"},
	{KPIGoogleRating, generic.UnitRating, generic.HigherIsBetter,
		"Average Google review rating"},
	{KPIMaintenanceConversion, generic.UnitPercent, generic.HigherIsBetter,
		"Share of jobs that convert to a maintenance agreement"},
	{KPIFirstTimeFixRate, generic.UnitPercent, generic.HigherIsBetter,
		"Share of jobs resolved on the first visit"},
}

func init() {
	for _, def := range catalog {
		generic.RegisterMetric(generic.MetricDef{
			Name:        string(def.Name),
			Domain:      MetricDomain,
			Unit:        def.Unit,
			Direction:   def.Direction,
			Description: def.Description,
		})
	}
}

// Catalog returns every KPI definition in eligibility order.
func Catalog() []KPIDef {
	out := make([]KPIDef, len(catalog))
	copy(out, catalog)
	return out
}

// LookupKPI finds a KPI definition by name.
func LookupKPI(name KPIName) (KPIDef, bool) {
	for _, def := range catalog {
		if def.Name == name {
			return def, true
		}
	}
	return KPIDef{}, false
}

// Eligible returns the KPI universe for a mode, in eligibility order.
func Eligible(mode Mode) []KPIName {
	defs := catalog
	if mode != ModeCustom {
		defs = catalog[:PlanSize]
	}
	names := make([]KPIName, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
