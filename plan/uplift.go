package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// EstimateGrossUplift projects annual gross revenue uplift for a plan.
//
// This is a heuristic. It exists to drive the convergence loop's stopping
// condition and the projected range, not to forecast revenue. Each KPI
// contributes by its own formula, with improvement = |target − current|:
//
//	Average Job Value         improvement × jobs/tech/month × team × 12
//	Revenue Per Technician    improvement × team × 12
//	Billable Eff., Labor Rate improvement × revenue × share per point
//	Callback Rate             improvement/100 × annual jobs × avg job value
//	Maintenance Conversion    improvement/100 × annual jobs × agreement value
//	Average Google Rating     improvement/step × revenue × share per step
//	First-Time Fix Rate       improvement/100 × annual jobs × avg job value × share
//
// Unknown team size counts as one technician. Unknown revenue zeroes the
// revenue-based terms. Result is rounded to whole dollars.
func EstimateGrossUplift(kpis []CalculatedKPI, teamSize int, company CompanyProfile, policy UpliftPolicy) decimal.Decimal {
	team := decimal.NewFromInt(int64(effectiveTeam(teamSize)))
	revenue := decimal.Zero
	if company.AnnualRevenue.Valid {
		revenue = company.AnnualRevenue.Decimal
	}
	annualJobs := policy.JobsPerTechPerMonth.Mul(team).Mul(monthsPerYear)
	jobValue := planJobValue(kpis, company, policy)

	gross := decimal.Zero
	for _, k := range kpis {
		improvement := k.Improvement()
		var uplift decimal.Decimal

		switch k.Name {
		case KPIAverageJobValue:
			uplift = improvement.Mul(policy.JobsPerTechPerMonth).Mul(team).Mul(monthsPerYear)
		case KPIRevenuePerTechnician:
			uplift = improvement.Mul(team).Mul(monthsPerYear)
		case KPIBillableEfficiency, KPILaborRate:
			uplift = improvement.Mul(revenue.Mul(policy.RevenueSharePerPoint))
		case KPICallbackRate:
			uplift = improvement.Div(hundred).Mul(annualJobs).Mul(jobValue)
		case KPIMaintenanceConversion:
			uplift = improvement.Div(hundred).Mul(annualJobs).Mul(policy.AgreementValue)
		case KPIGoogleRating:
			if policy.RatingStep.IsPositive() {
				uplift = improvement.Div(policy.RatingStep).Mul(revenue).Mul(policy.RevenueSharePerRatingStep)
			}
		case KPIFirstTimeFixRate:
			uplift = improvement.Div(hundred).Mul(annualJobs).Mul(jobValue.Mul(policy.FirstFixJobShare))
		}

		gross = gross.Add(uplift)
	}
	return generic.Whole(gross)
}

// planJobValue is the plan's Average Job Value current, else the profile's
// average job value, else the policy fallback.
func planJobValue(kpis []CalculatedKPI, company CompanyProfile, policy UpliftPolicy) decimal.Decimal {
	for _, k := range kpis {
		if k.Name == KPIAverageJobValue {
			return k.Current
		}
	}
	if company.AvgJobValue.Valid {
		return company.AvgJobValue.Decimal
	}
	return policy.FallbackJobValue
}

func effectiveTeam(teamSize int) int {
	if teamSize < 1 {
		return 1
	}
	return teamSize
}
