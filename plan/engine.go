/*
engine.go - Plan convergence loop

PURPOSE:
  Orchestrates target calculation, bonus allocation and uplift estimation,
  then adjusts two knobs until the plan pays for itself:

    gap closure rate   starts at policy initial, rises by step up to max
    monthly budget     starts by team size, falls by step down to floor

STATE MACHINE (bounded by MaxIterations):

    ┌──────────────┐
    │ build plan   │◄─────────────────────────────┐
    └──────┬───────┘                              │
           │ net = gross − budget × team × 12     │
           ▼                                      │
    net ≥ share × revenue? ── yes ──► converged   │
           │ no                                   │
           ▼                                      │
    rate at max AND budget at floor? ── yes ──► stop (best effort)
           │ no                                   │
           └── raise rate / trim budget ──────────┘

  KPI selection happens once, before the loop. Only targets, bonuses and
  uplift change between iterations.

NOT CONVERGING IS NOT AN ERROR:
  The last computed plan is returned with Converged=false. Callers must not
  assume the profitability bar always holds.

USAGE:
  engine := plan.NewEngine(plan.StandardPolicy())
  result := engine.Calculate(plan.Request{
      Company:    company,
      Summary:    summary,
      Benchmarks: set,
      Mode:       plan.ModeGeneric,
  })
  if len(result.KPIs) < plan.PlanSize {
      // not enough calculable data
  }

SEE ALSO:
  - selector.go, target.go, allocator.go, uplift.go: The steps
  - summary.go: Payout and projected range for presentation
*/
package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// Request is one planning invocation.
type Request struct {
	Company    CompanyProfile
	Summary    MetricSummary
	Benchmarks generic.BenchmarkSet
	Mode       Mode
	Selected   []SelectedKPI
}

// Iteration records one pass of the loop.
type Iteration struct {
	Number          int
	GapClosureRate  decimal.Decimal
	Budget          decimal.Decimal
	GrossUplift     decimal.Decimal
	AnnualBonusCost decimal.Decimal
	NetUplift       decimal.Decimal
	Met             bool
}

// Result is the plan plus the trace of how it was reached.
type Result struct {
	KPIs            []CalculatedKPI
	Mode            Mode
	Converged       bool
	Iterations      []Iteration
	GapClosureRate  decimal.Decimal
	Budget          decimal.Decimal
	GrossUplift     decimal.Decimal
	AnnualBonusCost decimal.Decimal
	NetUplift       decimal.Decimal
	RequiredMinimum decimal.Decimal
}

// Complete reports whether the plan has a full set of KPIs.
func (r *Result) Complete() bool { return len(r.KPIs) >= PlanSize }

// Err returns an InsufficientDataError for an incomplete plan, nil otherwise.
func (r *Result) Err() error {
	if r.Complete() {
		return nil
	}
	return &generic.InsufficientDataError{Eligible: len(r.KPIs), Required: PlanSize}
}

// Engine runs the convergence loop under one policy.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy { return e.policy }

// Calculate builds a plan.
func (e *Engine) Calculate(req Request) *Result {
	p := e.policy
	mode := req.Mode
	if !mode.Valid() {
		mode = ModeGeneric
	}

	names := SelectKPINames(req.Selected, req.Company, req.Summary, req.Benchmarks, mode)

	rate := p.GapClosure.Initial
	budget := p.Budget.For(req.Company.TeamSize)
	team := decimal.NewFromInt(int64(effectiveTeam(req.Company.TeamSize)))

	result := &Result{
		Mode:            mode,
		RequiredMinimum: decimal.Zero,
		GapClosureRate:  rate,
		Budget:          budget,
	}
	if req.Company.AnnualRevenue.Valid {
		result.RequiredMinimum = generic.Whole(req.Company.AnnualRevenue.Decimal.Mul(p.MinProfitShare))
	}
	if len(names) == 0 {
		return result
	}

	for i := 1; i <= p.MaxIterations; i++ {
		kpis := e.build(names, req, mode, rate, budget)
		gross := EstimateGrossUplift(kpis, req.Company.TeamSize, req.Company, p.Uplift)
		cost := budget.Mul(team).Mul(monthsPerYear)
		net := gross.Sub(cost)
		met := net.GreaterThanOrEqual(result.RequiredMinimum)

		result.KPIs = kpis
		result.GapClosureRate = rate
		result.Budget = budget
		result.GrossUplift = gross
		result.AnnualBonusCost = cost
		result.NetUplift = net
		result.Iterations = append(result.Iterations, Iteration{
			Number:          i,
			GapClosureRate:  rate,
			Budget:          budget,
			GrossUplift:     gross,
			AnnualBonusCost: cost,
			NetUplift:       net,
			Met:             met,
		})

		if met {
			result.Converged = true
			break
		}

		canRaise := rate.LessThan(p.GapClosure.Max)
		canTrim := budget.GreaterThan(p.Budget.Floor)
		if !canRaise && !canTrim {
			break
		}
		if canRaise {
			rate = decimal.Min(rate.Add(p.GapClosure.Step), p.GapClosure.Max)
		}
		if canTrim {
			budget = decimal.Max(budget.Sub(p.Budget.Step), p.Budget.Floor)
		}
	}

	return result
}

// build computes targets and bonuses for the selected names.
func (e *Engine) build(names []KPIName, req Request, mode Mode, rate, budget decimal.Decimal) []CalculatedKPI {
	kpis := make([]CalculatedKPI, 0, len(names))
	gaps := make([]Gap, 0, len(names))

	for _, name := range names {
		current, _ := ResolveCurrent(name, req.Company, req.Summary)
		bench, _ := MatchBenchmark(name, req.Benchmarks)

		target := Target(TargetInput{
			Current:        current,
			Median:         bench.Median,
			TopPerformer:   req.Summary.TopPerformer(name),
			Inverted:       bench.Inverted,
			Mode:           mode,
			GapClosureRate: rate,
		}, e.policy)

		unit := bench.Unit
		if def, ok := LookupKPI(name); ok {
			unit = def.Unit
		}

		kpis = append(kpis, CalculatedKPI{
			Name:             name,
			Unit:             unit,
			Current:          current,
			CurrentFormatted: FormatValue(unit, current),
			Target:           target,
			TargetFormatted:  FormatValue(unit, target),
			Inverted:         bench.Inverted,
		})
		gaps = append(gaps, Gap{Current: current, Target: target})
	}

	for i, a := range AllocateBonuses(gaps, budget, e.policy.Allocation) {
		kpis[i].BonusPerMonth = a.BonusPerMonth
		kpis[i].BonusCap = a.BonusCap
	}
	return kpis
}

// CalculatePlanTargets runs the standard policy and returns the KPIs.
func CalculatePlanTargets(selected []SelectedKPI, company CompanyProfile, summary MetricSummary, set generic.BenchmarkSet, mode Mode) []CalculatedKPI {
	return NewEngine(StandardPolicy()).Calculate(Request{
		Company:    company,
		Summary:    summary,
		Benchmarks: set,
		Mode:       mode,
		Selected:   selected,
	}).KPIs
}
