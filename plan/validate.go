package plan

import (
	"errors"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

// ValidateCompany rejects profiles the engine must never see. The engine
// itself assumes sane input; this runs at the boundary.
func ValidateCompany(c CompanyProfile) error {
	var errs []error
	if c.TeamSize < 0 {
		errs = append(errs, &generic.FieldError{Field: "company.team_size", Message: "must not be negative"})
	}
	if c.Technicians < 0 {
		errs = append(errs, &generic.FieldError{Field: "company.technicians", Message: "must not be negative"})
	}
	errs = appendNegative(errs, "company.annual_revenue", c.AnnualRevenue)
	errs = appendNegative(errs, "company.staff_costs", c.StaffCosts)
	errs = appendNegative(errs, "company.avg_job_value", c.AvgJobValue)
	return errors.Join(errs...)
}

// ValidateSummary checks percentage and rating ranges.
func ValidateSummary(s MetricSummary) error {
	var errs []error
	errs = appendNegative(errs, "metrics.avg_ticket", s.AvgTicket)
	errs = appendNegative(errs, "metrics.total_revenue", s.TotalRevenue)
	errs = appendNegative(errs, "metrics.monthly_overtime_spend", s.MonthlyOvertimeSpend)
	errs = appendOutOfRange(errs, "metrics.billable_efficiency", s.BillableEfficiency, hundred)
	errs = appendOutOfRange(errs, "metrics.callback_rate", s.CallbackRate, hundred)
	errs = appendOutOfRange(errs, "metrics.maintenance_conversion", s.MaintenanceConversion, hundred)
	errs = appendOutOfRange(errs, "metrics.first_time_fix_rate", s.FirstTimeFixRate, hundred)
	errs = appendOutOfRange(errs, "metrics.google_rating", s.GoogleRating, maxRating)
	errs = appendOutOfRange(errs, "metrics.avg_google_rating", s.AvgGoogleRating, maxRating)
	if s.TotalJobs < 0 {
		errs = append(errs, &generic.FieldError{Field: "metrics.total_jobs", Message: "must not be negative"})
	}
	return errors.Join(errs...)
}

func appendOutOfRange(errs []error, field string, v decimal.NullDecimal, limit decimal.Decimal) []error {
	if v.Valid && (v.Decimal.IsNegative() || v.Decimal.GreaterThan(limit)) {
		return append(errs, &generic.FieldError{Field: field, Message: "must be between 0 and " + limit.String()})
	}
	return errs
}

func appendNegative(errs []error, field string, v decimal.NullDecimal) []error {
	if v.Valid && v.Decimal.IsNegative() {
		return append(errs, &generic.FieldError{Field: field, Message: "must not be negative"})
	}
	return errs
}

// ValidatePolicy rejects settings the engine cannot run with.
func ValidatePolicy(p Policy) error {
	var errs []error
	bad := func(setting, reason string) {
		errs = append(errs, &generic.PolicyError{Setting: setting, Reason: reason})
	}
	one := decimal.NewFromInt(1)

	if p.StretchRate.IsNegative() || p.StretchRate.GreaterThanOrEqual(one) {
		bad("stretch_rate", "must be in [0, 1)")
	}

	gc := p.GapClosure
	if !gc.Initial.IsPositive() || gc.Max.GreaterThan(one) || gc.Initial.GreaterThan(gc.Max) {
		bad("gap_closure", "must satisfy 0 < initial <= max <= 1")
	}
	if gc.Step.IsNegative() || (gc.Step.IsZero() && gc.Initial.LessThan(gc.Max)) {
		bad("gap_closure.step", "must be positive when initial < max")
	}

	b := p.Budget
	if !b.Standard.IsPositive() || !b.SmallTeam.IsPositive() || !b.LargeTeam.IsPositive() {
		bad("budget", "standard, small_team and large_team must be positive")
	}
	if b.Step.IsNegative() || b.Floor.IsNegative() {
		bad("budget", "step and floor must not be negative")
	}

	a := p.Allocation
	if !a.Ceiling.IsPositive() {
		bad("allocation.ceiling", "must be positive")
	}
	if a.Floor.IsNegative() {
		bad("allocation.floor", "must not be negative")
	}
	if a.CapMultiplier.LessThan(one) {
		bad("allocation.cap_multiplier", "must be at least 1")
	}

	if !p.Uplift.RatingStep.IsPositive() {
		bad("uplift.rating_step", "must be positive")
	}
	if p.Uplift.JobsPerTechPerMonth.IsNegative() || p.Uplift.FallbackJobValue.IsNegative() ||
		p.Uplift.AgreementValue.IsNegative() || p.Uplift.RevenueSharePerPoint.IsNegative() ||
		p.Uplift.RevenueSharePerRatingStep.IsNegative() || p.Uplift.FirstFixJobShare.IsNegative() {
		bad("uplift", "multipliers must not be negative")
	}

	pr := p.Projection
	if pr.LowShare.IsNegative() || pr.HighShare.GreaterThan(one) || pr.LowShare.GreaterThan(pr.HighShare) {
		bad("projection", "must satisfy 0 <= low_share <= high_share <= 1")
	}

	if p.MaxIterations < 1 {
		bad("max_iterations", "must be at least 1")
	}
	if p.MinProfitShare.IsNegative() {
		bad("min_profit_share", "must not be negative")
	}
	return errors.Join(errs...)
}
