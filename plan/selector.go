package plan

import (
	"sort"
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// candidate is a KPI with both a current value and a benchmark.
type candidate struct {
	name      KPIName
	current   decimal.Decimal
	benchmark generic.Benchmark
}

// distance is |median − current|, ignoring direction.
func (c candidate) distance() decimal.Decimal {
	return c.benchmark.Median.Sub(c.current).Abs()
}

// availableCandidates returns the data-available KPIs of a mode in
// eligibility order.
func availableCandidates(mode Mode, company CompanyProfile, summary MetricSummary, set generic.BenchmarkSet) []candidate {
	var out []candidate
	for _, name := range Eligible(mode) {
		current, ok := ResolveCurrent(name, company, summary)
		if !ok {
			continue
		}
		bench, ok := MatchBenchmark(name, set)
		if !ok {
			continue
		}
		out = append(out, candidate{name: name, current: current, benchmark: bench})
	}
	return out
}

// SelectKPINames picks up to three KPI names.
//
// Generic mode always takes the fixed form-derived set, in order, minus
// anything without data or a benchmark.
//
// Custom mode treats nominations as a soft preference:
//  1. nominated names that are data-available, deduplicated
//  2. remaining candidates by descending |median − current|
//  3. any remaining candidate in eligibility order
//
// Fewer than three comes back only when fewer than three are available.
func SelectKPINames(selected []SelectedKPI, company CompanyProfile, summary MetricSummary, set generic.BenchmarkSet, mode Mode) []KPIName {
	available := availableCandidates(mode, company, summary, set)

	if mode != ModeCustom {
		names := make([]KPIName, 0, len(available))
		for _, c := range available {
			names = append(names, c.name)
		}
		return names
	}

	byName := make(map[KPIName]candidate, len(available))
	for _, c := range available {
		byName[c.name] = c
	}

	picked := make([]KPIName, 0, PlanSize)
	taken := make(map[KPIName]bool)
	take := func(name KPIName) {
		if len(picked) < PlanSize && !taken[name] {
			picked = append(picked, name)
			taken[name] = true
		}
	}

	// Stage 1: nominations
	for _, s := range selected {
		name := KPIName(strings.TrimSpace(s.Name))
		if _, ok := byName[name]; ok {
			take(name)
		}
	}

	// Stage 2: biggest benchmark gaps
	var ranked []candidate
	for _, c := range available {
		if !taken[c.name] && !c.distance().IsZero() {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance().GreaterThan(ranked[j].distance())
	})
	for _, c := range ranked {
		take(c.name)
	}

	// Stage 3: anything left
	for _, c := range available {
		take(c.name)
	}

	return picked
}
