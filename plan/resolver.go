package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// ResolveCurrent extracts a KPI's current value. The second return is false
// when the value cannot be determined, which makes the KPI ineligible.
//
//	Average Job Value       summary avg ticket, else profile avg job value
//	Revenue Per Technician  round(annual revenue / 12 / technicians)
//	Labor Rate              round(staff costs / annual revenue × 100)
//	Average Google Rating   summary rating, else the equivalent avg rating
//	everything else         the matching summary field
func ResolveCurrent(name KPIName, company CompanyProfile, summary MetricSummary) (decimal.Decimal, bool) {
	var v decimal.NullDecimal

	switch name {
	case KPIAverageJobValue:
		v = generic.FirstKnown(summary.AvgTicket, company.AvgJobValue)
	case KPIRevenuePerTechnician:
		v = revenuePerTechnician(company)
	case KPILaborRate:
		v = laborRate(company)
	case KPIBillableEfficiency:
		v = summary.BillableEfficiency
	case KPICallbackRate:
		v = summary.CallbackRate
	case KPIGoogleRating:
		v = generic.FirstKnown(summary.GoogleRating, summary.AvgGoogleRating)
	case KPIMaintenanceConversion:
		v = summary.MaintenanceConversion
	case KPIFirstTimeFixRate:
		v = summary.FirstTimeFixRate
	}

	return v.Decimal, v.Valid
}

func revenuePerTechnician(company CompanyProfile) decimal.NullDecimal {
	techs := company.TechnicianCount()
	if !company.AnnualRevenue.Valid || techs <= 0 {
		return generic.Unknown()
	}
	perTech := company.AnnualRevenue.Decimal.
		Div(monthsPerYear).
		Div(decimal.NewFromInt(int64(techs)))
	return generic.KnownDecimal(generic.Whole(perTech))
}

func laborRate(company CompanyProfile) decimal.NullDecimal {
	if !company.StaffCosts.Valid || !company.AnnualRevenue.Valid || company.AnnualRevenue.Decimal.IsZero() {
		return generic.Unknown()
	}
	return generic.KnownDecimal(generic.Percent(company.StaffCosts.Decimal, company.AnnualRevenue.Decimal))
}
