/*
Package generic provides the numeric building blocks of the plan engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms used by the
  bonus plan engine. Whether the lever is a ticket value, a percentage or a
  star rating, the same primitives handle optional measurements, rounding,
  benchmark records and budget distribution.

KEY CONCEPTS IN THIS FILE (types.go):
  - Unit: How a measurement is expressed (dollars, percent, rating)
  - Direction: Whether a higher or a lower value is the better outcome
  - Optional measurements: decimal.NullDecimal, never a zero placeholder

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Unknown is not zero: a 0% callback rate is a measurement, a missing
     column is not
  3. Determinism: nothing here reads the clock or a random source

USAGE:
  v := generic.Known(39)
  if generic.IsKnown(v) {
      fmt.Println(generic.Round2(v.Decimal))
  }

SEE ALSO:
  - benchmark.go: Benchmark records and sets
  - allocation.go: Proportional budget distribution
  - registry.go: Metric registration
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// UNIT - How a measurement is expressed
// =============================================================================

type Unit string

const (
	UnitDollars         Unit = "currency"
	UnitDollarsPerMonth Unit = "currencyPerMonth"
	UnitPercent         Unit = "percentage"
	UnitRating          Unit = "rating"
)

// =============================================================================
// DIRECTION - Which way is better
// =============================================================================

// Direction states which way a metric improves.
// Inverted metrics (labor rate, callback rate, overtime spend) improve
// as the raw number goes DOWN.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// DirectionOf converts an inverted-scale flag into a Direction.
func DirectionOf(inverted bool) Direction {
	if inverted {
		return LowerIsBetter
	}
	return HigherIsBetter
}

func (d Direction) Inverted() bool { return d == LowerIsBetter }

func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower_is_better"
	}
	return "higher_is_better"
}

// Improve moves value by delta in the better direction.
func (d Direction) Improve(value, delta decimal.Decimal) decimal.Decimal {
	if d == LowerIsBetter {
		return value.Sub(delta)
	}
	return value.Add(delta)
}

// GapTo returns how far value is from reference in the better direction.
// A positive gap means the reference is better than the value.
func (d Direction) GapTo(value, reference decimal.Decimal) decimal.Decimal {
	if d == LowerIsBetter {
		return value.Sub(reference)
	}
	return reference.Sub(value)
}

// =============================================================================
// OPTIONAL MEASUREMENTS
// =============================================================================

// Known wraps a measured value.
func Known(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

// KnownDecimal wraps a measured decimal value.
func KnownDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// Unknown is the absence of a measurement.
func Unknown() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func IsKnown(v decimal.NullDecimal) bool { return v.Valid }

// FirstKnown returns the first valid value in order.
func FirstKnown(values ...decimal.NullDecimal) decimal.NullDecimal {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return Unknown()
}

// =============================================================================
// ROUNDING
// =============================================================================

var (
	hundred = decimal.NewFromInt(100)
)

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Whole rounds half away from zero to an integer value.
func Whole(d decimal.Decimal) decimal.Decimal { return d.Round(0) }

// Percent returns round(part / whole * 100). Whole must be non-zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	return Whole(part.Div(whole).Mul(hundred))
}

// Float converts for transport. Precision loss is acceptable at the edge.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// NullFloat converts an optional value into a nullable float for transport.
func NullFloat(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}
	f := Float(v.Decimal)
	return &f
}

// FromNullFloat is the inverse of NullFloat.
func FromNullFloat(f *float64) decimal.NullDecimal {
	if f == nil {
		return Unknown()
	}
	return Known(*f)
}
