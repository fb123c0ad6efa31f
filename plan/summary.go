package plan

import (
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// FallbackSelections are used when the caller nominates nothing.
func FallbackSelections() []SelectedKPI {
	return []SelectedKPI{
		{Name: string(KPIAverageJobValue), Reason: "Core revenue lever tied to ticket size."},
		{Name: string(KPIBillableEfficiency), Reason: "Improves technician productivity."},
		{Name: string(KPICallbackRate), Reason: "Reducing rework improves margin and capacity."},
	}
}

// PlanKPI is a calculated KPI with the nomination reason attached.
type PlanKPI struct {
	CalculatedKPI
	Rationale string
}

// Summary is the payout view of a plan.
type Summary struct {
	KPIs                []PlanKPI
	BonusPerTech        decimal.Decimal
	MonthlyPayout       decimal.Decimal
	AnnualBonusCost     decimal.Decimal
	GrossUplift         decimal.Decimal
	ProjectedUpliftLow  decimal.Decimal
	ProjectedUpliftHigh decimal.Decimal
}

// Summarize computes payouts and the projected net uplift range from the
// bonuses actually allocated:
//
//	bonus per tech  Σ bonus per month
//	monthly payout  bonus per tech × team
//	low / high      max(0, round(gross × share) − annual bonus cost)
func Summarize(result *Result, company CompanyProfile, selected []SelectedKPI, policy Policy) Summary {
	reasons := make(map[KPIName]string, len(selected))
	for _, s := range selected {
		name := KPIName(strings.TrimSpace(s.Name))
		if _, ok := reasons[name]; !ok {
			reasons[name] = s.Reason
		}
	}

	s := Summary{
		BonusPerTech: decimal.Zero,
		GrossUplift:  result.GrossUplift,
	}
	for _, k := range result.KPIs {
		s.KPIs = append(s.KPIs, PlanKPI{CalculatedKPI: k, Rationale: reasons[k.Name]})
		s.BonusPerTech = s.BonusPerTech.Add(k.BonusPerMonth)
	}

	team := decimal.NewFromInt(int64(effectiveTeam(company.TeamSize)))
	s.MonthlyPayout = s.BonusPerTech.Mul(team)
	s.AnnualBonusCost = s.MonthlyPayout.Mul(monthsPerYear)
	s.ProjectedUpliftLow = projected(s.GrossUplift, policy.Projection.LowShare, s.AnnualBonusCost)
	s.ProjectedUpliftHigh = projected(s.GrossUplift, policy.Projection.HighShare, s.AnnualBonusCost)
	return s
}

func projected(gross, share, cost decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, generic.Whole(gross.Mul(share)).Sub(cost))
}
