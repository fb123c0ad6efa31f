package generic_test

import (
	"errors"
	"testing"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DIRECTION
// =============================================================================

func TestDirection_GapAndImprove(t *testing.T) {
	tests := []struct {
		name      string
		direction generic.Direction
		value     float64
		reference float64
		wantGap   float64
		improved  float64 // value improved by 2
	}{
		{"higher below reference", generic.HigherIsBetter, 300, 370, 70, 302},
		{"higher above reference", generic.HigherIsBetter, 400, 370, -30, 402},
		{"lower above reference", generic.LowerIsBetter, 39, 30, 9, 37},
		{"lower below reference", generic.LowerIsBetter, 25, 30, -5, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.NewFromFloat(tt.value)
			ref := decimal.NewFromFloat(tt.reference)

			gap := tt.direction.GapTo(v, ref)
			assert.True(t, gap.Equal(decimal.NewFromFloat(tt.wantGap)), "gap %s", gap)

			improved := tt.direction.Improve(v, decimal.NewFromInt(2))
			assert.True(t, improved.Equal(decimal.NewFromFloat(tt.improved)), "improved %s", improved)
		})
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, generic.LowerIsBetter, generic.DirectionOf(true))
	assert.Equal(t, generic.HigherIsBetter, generic.DirectionOf(false))
	assert.True(t, generic.LowerIsBetter.Inverted())
	assert.Equal(t, "lower_is_better", generic.LowerIsBetter.String())
}

// =============================================================================
// OPTIONAL MEASUREMENTS
// =============================================================================

func TestKnownZeroIsNotUnknown(t *testing.T) {
	// GIVEN: A measured 0% callback rate
	// THEN: It is a real value, distinct from a missing column

	zero := generic.Known(0)
	assert.True(t, generic.IsKnown(zero))
	assert.False(t, generic.IsKnown(generic.Unknown()))
}

func TestFirstKnown(t *testing.T) {
	got := generic.FirstKnown(generic.Unknown(), generic.Known(4.6), generic.Known(4.1))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.NewFromFloat(4.6)))

	assert.False(t, generic.FirstKnown(generic.Unknown()).Valid)
}

func TestNullFloatRoundTrip(t *testing.T) {
	assert.Nil(t, generic.NullFloat(generic.Unknown()))

	f := generic.NullFloat(generic.Known(21111))
	require.NotNil(t, f)
	assert.Equal(t, 21111.0, *f)

	assert.False(t, generic.FromNullFloat(nil).Valid)
	assert.True(t, generic.FromNullFloat(f).Decimal.Equal(decimal.NewFromInt(21111)))
}

func TestRounding(t *testing.T) {
	assert.True(t, generic.Round2(decimal.NewFromFloat(321.005)).Equal(decimal.NewFromFloat(321.01)))
	assert.True(t, generic.Whole(decimal.NewFromFloat(21111.5)).Equal(decimal.NewFromInt(21112)))
	assert.True(t, generic.Percent(decimal.NewFromInt(1482000), decimal.NewFromInt(3800000)).Equal(decimal.NewFromInt(39)))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestStructuredErrorsUnwrap(t *testing.T) {
	var err error = &generic.InsufficientDataError{Eligible: 1, Required: 3}
	assert.True(t, errors.Is(err, generic.ErrInsufficientData))
	assert.Contains(t, err.Error(), "1 of 3")

	err = &generic.FieldError{Field: "company.team_size", Message: "must be positive"}
	assert.True(t, generic.IsClientError(err))

	err = &generic.PolicyError{Setting: "allocation.ceiling", Reason: "must be positive"}
	assert.True(t, generic.IsClientError(err))
	assert.False(t, generic.IsNotFound(err))

	assert.True(t, generic.IsNotFound(generic.ErrPlanNotFound))
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	generic.RegisterMetric(generic.MetricDef{Name: "zz-test-first", Domain: "registry-test"})
	generic.RegisterMetric(generic.MetricDef{Name: "aa-test-second", Domain: "registry-test"})
	generic.RegisterMetric(generic.MetricDef{Name: "zz-test-first", Domain: "registry-test", Description: "updated"})

	metrics := generic.ListMetricsByDomain("registry-test")
	require.Len(t, metrics, 2)
	assert.Equal(t, "zz-test-first", metrics[0].Name)
	assert.Equal(t, "updated", metrics[0].Description)
	assert.Equal(t, "aa-test-second", metrics[1].Name)

	_, err := generic.RequireMetric("no-such-metric")
	assert.ErrorIs(t, err, generic.ErrUnknownMetric)
}

func TestBenchmarkSet_Lookup(t *testing.T) {
	set := generic.BenchmarkSet{
		{DisplayName: "Labor Rate", Median: decimal.NewFromInt(30), Inverted: true},
		{DisplayName: "Average Job Value", Median: decimal.NewFromInt(370)},
	}

	b, ok := set.Lookup("Labor Rate")
	require.True(t, ok)
	assert.Equal(t, generic.LowerIsBetter, b.Direction())

	_, ok = set.Lookup("Google Rating")
	assert.False(t, ok)
	assert.Equal(t, []string{"Labor Rate", "Average Job Value"}, set.DisplayNames())
}
