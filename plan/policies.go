/*
policies.go - Plan policy settings and presets

PURPOSE:
  Every constant the engine uses lives in a Policy, so a deployment can
  tune the plan without code changes. factory/ builds policies from JSON
  or YAML documents; the presets below are the built-in defaults.

AVAILABLE POLICIES:
  StandardPolicy:
    - 7% stretch when already at or past the reference
    - Gap closure 40% → 65% in 5-point steps
    - Budget $800/tech/month ($500 for teams of 3 or fewer, $1,200 for 50+),
      trimmed $50 per iteration down to $500
    - Per-KPI ceiling $400, floor $100, cap 150% of base
    - Net uplift must reach 20% of annual revenue

  ConservativePolicy:
    - Smaller budgets and a $300 ceiling
    - Gentler gap closure (30% → 50%)
    - Net uplift must reach 25% of annual revenue

UPLIFT MULTIPLIERS:
  The uplift constants (60 jobs/tech/month, $500 per agreement, 2% of
  revenue per 0.1 star, ...) are heuristics. They drive the loop's
  stopping condition and the projected range; they are not forecasts.

SEE ALSO:
  - factory/policy.go: Policy documents
  - engine.go: Where these settings are consumed
*/
package plan

import (
	"github.com/shopspring/decimal"
)

// DefaultBonusCeiling is the per-KPI monthly bonus ceiling.
const DefaultBonusCeiling = 400

// Policy holds every tunable of the engine.
type Policy struct {
	ID          string
	Name        string
	Description string
	Version     int

	// StretchRate is the forward move applied when a KPI is already at or
	// beyond its reference.
	StretchRate decimal.Decimal

	GapClosure GapClosurePolicy
	Budget     BudgetPolicy
	Allocation AllocationPolicy
	Uplift     UpliftPolicy
	Projection ProjectionPolicy

	// MaxIterations bounds the convergence loop.
	MaxIterations int

	// MinProfitShare is the share of annual revenue net uplift must reach.
	MinProfitShare decimal.Decimal
}

// GapClosurePolicy is the aggressiveness schedule.
type GapClosurePolicy struct {
	Initial decimal.Decimal
	Max     decimal.Decimal
	Step    decimal.Decimal
}

// BudgetPolicy is the monthly bonus budget per technician.
type BudgetPolicy struct {
	Standard     decimal.Decimal
	SmallTeam    decimal.Decimal
	SmallTeamMax int // team sizes at or below use SmallTeam
	LargeTeam    decimal.Decimal
	LargeTeamMin int // team sizes at or above use LargeTeam
	Step         decimal.Decimal
	Floor        decimal.Decimal
}

// For returns the starting budget for a team size. Unknown (0) is standard.
func (b BudgetPolicy) For(teamSize int) decimal.Decimal {
	switch {
	case teamSize > 0 && teamSize <= b.SmallTeamMax:
		return b.SmallTeam
	case b.LargeTeamMin > 0 && teamSize >= b.LargeTeamMin:
		return b.LargeTeam
	default:
		return b.Standard
	}
}

// AllocationPolicy shapes the per-KPI split.
type AllocationPolicy struct {
	Floor         decimal.Decimal
	Ceiling       decimal.Decimal
	CapMultiplier decimal.Decimal
}

// UpliftPolicy holds the heuristic multipliers of the uplift estimator.
type UpliftPolicy struct {
	JobsPerTechPerMonth       decimal.Decimal
	RevenueSharePerPoint      decimal.Decimal // billable efficiency, labor rate
	FallbackJobValue          decimal.Decimal
	AgreementValue            decimal.Decimal
	RatingStep                decimal.Decimal
	RevenueSharePerRatingStep decimal.Decimal
	FirstFixJobShare          decimal.Decimal
}

// ProjectionPolicy turns gross uplift into the projected net range.
type ProjectionPolicy struct {
	LowShare  decimal.Decimal
	HighShare decimal.Decimal
}

// =============================================================================
// PRESETS
// =============================================================================

func num(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// DefaultUpliftPolicy returns the standard uplift multipliers.
func DefaultUpliftPolicy() UpliftPolicy {
	return UpliftPolicy{
		JobsPerTechPerMonth:       num(60),
		RevenueSharePerPoint:      num(0.01),
		FallbackJobValue:          num(350),
		AgreementValue:            num(500),
		RatingStep:                num(0.1),
		RevenueSharePerRatingStep: num(0.02),
		FirstFixJobShare:          num(0.3),
	}
}

// StandardPolicy is the default plan policy.
func StandardPolicy() Policy {
	return Policy{
		ID:          "standard",
		Name:        "Standard",
		Description: "Balanced targets with a $400 per-KPI ceiling",
		Version:     1,
		StretchRate: num(0.07),
		GapClosure: GapClosurePolicy{
			Initial: num(0.40),
			Max:     num(0.65),
			Step:    num(0.05),
		},
		Budget: BudgetPolicy{
			Standard:     num(800),
			SmallTeam:    num(500),
			SmallTeamMax: 3,
			LargeTeam:    num(1200),
			LargeTeamMin: 50,
			Step:         num(50),
			Floor:        num(500),
		},
		Allocation: AllocationPolicy{
			Floor:         num(100),
			Ceiling:       num(DefaultBonusCeiling),
			CapMultiplier: num(1.5),
		},
		Uplift: DefaultUpliftPolicy(),
		Projection: ProjectionPolicy{
			LowShare:  num(0.5),
			HighShare: num(0.85),
		},
		MaxIterations:  10,
		MinProfitShare: num(0.20),
	}
}

// ConservativePolicy asks for less and pays less.
func ConservativePolicy() Policy {
	p := StandardPolicy()
	p.ID = "conservative"
	p.Name = "Conservative"
	p.Description = "Gentler targets and smaller bonuses for cautious rollouts"
	p.GapClosure = GapClosurePolicy{Initial: num(0.30), Max: num(0.50), Step: num(0.05)}
	p.Budget.Standard = num(600)
	p.Budget.SmallTeam = num(400)
	p.Budget.LargeTeam = num(900)
	p.Budget.Floor = num(400)
	p.Allocation.Ceiling = num(300)
	p.MinProfitShare = num(0.25)
	return p
}

// Presets returns the built-in policies keyed by ID.
func Presets() map[string]Policy {
	return map[string]Policy{
		"standard":     StandardPolicy(),
		"conservative": ConservativePolicy(),
	}
}

// StandardPolicyJSON is StandardPolicy as a policy document.
const StandardPolicyJSON = `{
  "id": "standard",
  "name": "Standard",
  "description": "Balanced targets with a $400 per-KPI ceiling",
  "version": 1,
  "stretch_rate": 0.07,
  "gap_closure": {"initial": 0.40, "max": 0.65, "step": 0.05},
  "budget": {
    "standard": 800,
    "small_team": 500,
    "small_team_max": 3,
    "large_team": 1200,
    "large_team_min": 50,
    "step": 50,
    "floor": 500
  },
  "allocation": {"floor": 100, "ceiling": 400, "cap_multiplier": 1.5},
  "uplift": {
    "jobs_per_tech_per_month": 60,
    "revenue_share_per_point": 0.01,
    "fallback_job_value": 350,
    "agreement_value": 500,
    "rating_step": 0.1,
    "revenue_share_per_rating_step": 0.02,
    "first_fix_job_share": 0.3
  },
  "projection": {"low_share": 0.5, "high_share": 0.85},
  "max_iterations": 10,
  "min_profit_share": 0.20
}`
