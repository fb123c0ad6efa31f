package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
)

// benchmarkAliases maps KPI names to benchmark display names where they
// differ. Every other KPI matches its benchmark by its own name.
var benchmarkAliases = map[KPIName]string{
	KPIRevenuePerTechnician: "Monthly Revenue per Team Member",
	KPIGoogleRating:         "Google Rating",
}

// BenchmarkName returns the benchmark display name used for a KPI.
func BenchmarkName(name KPIName) string {
	if alias, ok := benchmarkAliases[name]; ok {
		return alias
	}
	return string(name)
}

// MatchBenchmark finds the benchmark row for a KPI. A miss makes the KPI
// ineligible regardless of data availability.
func MatchBenchmark(name KPIName, set generic.BenchmarkSet) (generic.Benchmark, bool) {
	return set.Lookup(BenchmarkName(name))
}
