/*
Package plan builds technician bonus plans for trades businesses.

PURPOSE:
  Compares a company's operating metrics against industry benchmarks and
  recommends three KPIs, each with a stretch target and a monthly bonus,
  sized so the projected revenue uplift pays for the bonuses.

PIPELINE:
  1. Selector picks three KPI names (caller nominations first)
  2. Resolver extracts each KPI's current value from the profile/summary
  3. Matcher finds each KPI's benchmark row (with a small alias table)
  4. Target calculator closes part of the gap to the reference value
  5. Allocator splits the monthly budget by improvement gap
  6. Uplift estimator projects gross annual revenue uplift
  7. Engine loops 4-6, raising aggressiveness and trimming the budget
     until the plan clears the profitability bar or runs out of room

PURITY:
  Everything in this package is a deterministic function of its inputs.
  No I/O, no clock, no logging. Persistence and transport live in store/
  and api/.

SEE ALSO:
  - engine.go: The convergence loop and public entry points
  - generic/: Numeric primitives this package is built on
*/
package plan

import (
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects which KPIs are eligible and which reference values apply.
type Mode string

const (
	// ModeGeneric uses self-reported form data only. The three form-derived
	// KPIs are always selected.
	ModeGeneric Mode = "generic"

	// ModeCustom uses uploaded job data. Up to eight KPIs are eligible and
	// top-performer values replace the median as the target reference.
	ModeCustom Mode = "custom"
)

// ParseMode accepts "generic" or "custom" case-insensitively.
// Anything else falls back to generic.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeCustom {
		return ModeCustom
	}
	return ModeGeneric
}

func (m Mode) Valid() bool { return m == ModeGeneric || m == ModeCustom }

// =============================================================================
// INPUTS
// =============================================================================

// CompanyProfile is the self-reported company data.
// TeamSize and Technicians use 0 for unknown.
type CompanyProfile struct {
	Name          string
	Industry      string
	TeamSize      int
	Technicians   int
	AnnualRevenue decimal.NullDecimal
	StaffCosts    decimal.NullDecimal
	AvgJobValue   decimal.NullDecimal
}

// TechnicianCount prefers the explicit technician count over team size.
func (c CompanyProfile) TechnicianCount() int {
	if c.Technicians > 0 {
		return c.Technicians
	}
	return c.TeamSize
}

// MetricSummary holds facts derived from uploaded job data.
// Every numeric field may be unknown; a measured zero is a real value.
type MetricSummary struct {
	AvgTicket             decimal.NullDecimal
	BillableEfficiency    decimal.NullDecimal
	CallbackRate          decimal.NullDecimal
	GoogleRating          decimal.NullDecimal
	AvgGoogleRating       decimal.NullDecimal
	MaintenanceConversion decimal.NullDecimal
	FirstTimeFixRate      decimal.NullDecimal
	MonthlyOvertimeSpend  decimal.NullDecimal
	TotalRevenue          decimal.NullDecimal
	TotalJobs             int

	// TopPerformers holds connected-data reference values per KPI.
	// Only consulted in custom mode.
	TopPerformers map[KPIName]decimal.Decimal

	// Copywriting inputs. Never read by the numeric engine.
	TopPerformerInsights string
	AdditionalInsights   string
}

// TopPerformer returns the top-performer value for a KPI, if any.
func (s MetricSummary) TopPerformer(name KPIName) decimal.NullDecimal {
	if v, ok := s.TopPerformers[name]; ok {
		return generic.KnownDecimal(v)
	}
	return generic.Unknown()
}

// SelectedKPI is a caller nomination. Reason is opaque to the engine.
type SelectedKPI struct {
	Name   string
	Reason string
}

// =============================================================================
// OUTPUT
// =============================================================================

// CalculatedKPI is one line of a plan. Constructed once per invocation and
// never mutated after bonuses are assigned.
type CalculatedKPI struct {
	Name             KPIName
	Unit             generic.Unit
	Current          decimal.Decimal
	CurrentFormatted string
	Target           decimal.Decimal
	TargetFormatted  string
	BonusPerMonth    decimal.Decimal
	BonusCap         decimal.Decimal
	Inverted         bool
}

// Improvement is |target − current|.
func (k CalculatedKPI) Improvement() decimal.Decimal {
	return k.Target.Sub(k.Current).Abs()
}
