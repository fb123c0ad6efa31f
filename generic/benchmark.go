/*
benchmark.go - Industry benchmark records

PURPOSE:
  A Benchmark is one industry reference row for one metric: lower quartile,
  median and upper quartile, plus the direction flag. A BenchmarkSet is the
  ordered collection returned for one (industry, team-size band).

INVERTED SCALE:
  When Inverted is true a LOWER raw value is better. Lower and Upper are
  stored as given by the source: the embedded catalog lists every metric
  in raw ascending order, inverted or not, while callers may send
  worst-to-best rows. Only Median feeds target calculation.

    Labor Rate (catalog):  lower=33  median=40  upper=48

  Never compare raw values without consulting Direction().

SEE ALSO:
  - benchmark/catalog.go: Builds BenchmarkSets from CSV
  - plan/benchmark.go: KPI name to benchmark matching
*/
package generic

import "github.com/shopspring/decimal"

// Benchmark is one reference row for one metric.
type Benchmark struct {
	Name        string // catalog key, e.g. "laborRate"
	DisplayName string // what KPI matching uses, e.g. "Labor Rate"
	Unit        Unit
	Lower       decimal.Decimal
	Median      decimal.Decimal
	Upper       decimal.Decimal
	Inverted    bool
	Description string
}

func (b Benchmark) Direction() Direction { return DirectionOf(b.Inverted) }

// BenchmarkSet is an ordered list of benchmarks for one industry/band.
type BenchmarkSet []Benchmark

// Lookup finds a benchmark by display name.
func (s BenchmarkSet) Lookup(displayName string) (Benchmark, bool) {
	for _, b := range s {
		if b.DisplayName == displayName {
			return b, true
		}
	}
	return Benchmark{}, false
}

// DisplayNames lists display names in set order.
func (s BenchmarkSet) DisplayNames() []string {
	names := make([]string, len(s))
	for i, b := range s {
		names[i] = b.DisplayName
	}
	return names
}
