package benchmark

import (
	"fmt"
	"math"
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

type metricMeta struct {
	displayName string
	unit        generic.Unit
	inverted    bool
}

// metricKeys maps CSV metric keys to catalog metric names.
var metricKeys = map[string]string{
	"annualRevenue":                  "annualRevenue",
	"avgMonthlyRevenuePerTeamMember": "monthlyRevenuePerMember",
	"laborRate":                      "laborRate",
	"avgJobValue":                    "avgJobValue",
	"billableEfficiency":             "billableEfficiency",
	"callbackRate":                   "callbackRate",
	"avgGoogleRating":                "googleRating",
	"monthlyOvertimeSpend":           "monthlyOvertimeSpend",
	"maintenanceConversion":          "maintenanceConversion",
	"firstTimeFixRate":               "firstTimeFixRate",
}

// metricOrder is the order benchmark sets are returned in.
var metricOrder = []string{
	"annualRevenue",
	"monthlyRevenuePerMember",
	"laborRate",
	"avgJobValue",
	"billableEfficiency",
	"callbackRate",
	"googleRating",
	"monthlyOvertimeSpend",
	"maintenanceConversion",
	"firstTimeFixRate",
}

var metrics = map[string]metricMeta{
	"annualRevenue":           {"Annual Revenue", generic.UnitDollars, false},
	"monthlyRevenuePerMember": {"Monthly Revenue per Team Member", generic.UnitDollarsPerMonth, false},
	"laborRate":               {"Labor Rate", generic.UnitPercent, true},
	"avgJobValue":             {"Average Job Value", generic.UnitDollars, false},
	"billableEfficiency":      {"Billable Efficiency", generic.UnitPercent, false},
	"callbackRate":            {"Callback Rate", generic.UnitPercent, true},
	"googleRating":            {"Google Rating", generic.UnitRating, false},
	"monthlyOvertimeSpend":    {"Monthly Overtime Spend", generic.UnitDollarsPerMonth, true},
	"maintenanceConversion":   {"Maintenance Agreement Conversion", generic.UnitPercent, false},
	"firstTimeFixRate":        {"First-Time Fix Rate", generic.UnitPercent, false},
}

// describe renders the two-sentence benchmark blurb.
func describe(industry string, band Band, meta metricMeta, row Row) string {
	return fmt.Sprintf("For %s companies with %s team members, the median %s is %s. Typical range runs from %s to %s.",
		industry, band, strings.ToLower(meta.displayName),
		compact(meta.unit, row.Median), compact(meta.unit, row.Lower), compact(meta.unit, row.Upper))
}

// compact formats a benchmark value for prose: $2.4M, $28K, 42%, 4.5.
func compact(unit generic.Unit, v decimal.Decimal) string {
	f, _ := v.Float64()
	switch unit {
	case generic.UnitDollars, generic.UnitDollarsPerMonth:
		switch {
		case f >= 1_000_000:
			return fmt.Sprintf("$%.1fM", f/1_000_000)
		case f >= 1_000:
			return fmt.Sprintf("$%.0fK", math.Round(f/1_000))
		default:
			return fmt.Sprintf("$%.0f", math.Round(f))
		}
	case generic.UnitPercent:
		return v.String() + "%"
	case generic.UnitRating:
		if v.IsInteger() {
			return v.String()
		}
		return v.StringFixed(1)
	default:
		return v.String()
	}
}
