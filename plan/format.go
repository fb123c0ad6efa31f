package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatValue renders a KPI value for display.
//
//	currency   $21,111 or $321.50
//	percent    39% or 36.27%
//	rating     4.4
func FormatValue(unit generic.Unit, v decimal.Decimal) string {
	switch unit {
	case generic.UnitDollars, generic.UnitDollarsPerMonth:
		if v.Equal(v.Truncate(0)) {
			return printer.Sprintf("$%d", v.IntPart())
		}
		f, _ := v.Round(2).Float64()
		return printer.Sprintf("$%.2f", f)
	case generic.UnitPercent:
		return v.Round(2).String() + "%"
	case generic.UnitRating:
		return v.StringFixed(1)
	default:
		return v.String()
	}
}
