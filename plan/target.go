package plan

import (
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
)

// TargetInput is everything the target calculator needs for one KPI.
type TargetInput struct {
	Current        decimal.Decimal
	Median         decimal.Decimal
	TopPerformer   decimal.NullDecimal
	Inverted       bool
	Mode           Mode
	GapClosureRate decimal.Decimal
}

// Reference is the value the target moves toward: the top performer in
// custom mode when one is known, otherwise the benchmark median.
func (in TargetInput) Reference() decimal.Decimal {
	if in.Mode == ModeCustom && in.TopPerformer.Valid {
		return in.TopPerformer.Decimal
	}
	return in.Median
}

// Target computes a stretch target by gap closure.
//
// With a positive gap the target closes GapClosureRate of it. At or beyond
// the reference the policy's stretch rate applies instead (7% by default),
// grown for normal metrics and shrunk for inverted ones. The gap closure
// rate is never used on that branch. The current value, the step and the
// result are each rounded to cents.
func Target(in TargetInput, policy Policy) decimal.Decimal {
	direction := generic.DirectionOf(in.Inverted)
	current := generic.Round2(in.Current)
	gap := direction.GapTo(current, generic.Round2(in.Reference()))

	step := gap.Mul(in.GapClosureRate)
	if !gap.IsPositive() {
		step = current.Mul(policy.StretchRate)
	}
	return generic.Round2(direction.Improve(current, generic.Round2(step)))
}
