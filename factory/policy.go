/*
Package factory provides document to Go policy conversion.

PURPOSE:
  Converts JSON or YAML policy documents into plan.Policy values. This
  enables tuning the bonus engine without code changes: an operator edits
  a document, the factory fills in defaults, validates, and produces the
  Go struct the engine consumes.

DOCUMENT SCHEMA (JSON shown, YAML uses the same keys):
  {
    "id": "aggressive",
    "name": "Aggressive",
    "stretch_rate": 0.10,
    "gap_closure": {"initial": 0.5, "max": 0.8, "step": 0.1},
    "budget": {"standard": 1000, "floor": 600},
    "allocation": {"ceiling": 500},
    "max_iterations": 8,
    "min_profit_share": 0.15
  }

  Every numeric field is optional. Omitted fields take the value from
  plan.StandardPolicy(), so a document only lists what it changes.

KEY FEATURES:
  - JSON and YAML input, picked by file extension for files
  - Defaults from the standard preset
  - Validation through plan.ValidatePolicy
  - ToJSON for the reverse direction (API responses, storage)

USAGE:
  factory := NewPolicyFactory()

  policy, err := factory.ParsePolicy(plan.StandardPolicyJSON)
  policy, err := factory.ParseYAML(yamlString)
  policy, err := factory.LoadFile("policies/conservative.yaml")

SEE ALSO:
  - plan/policies.go: Policy type and presets
  - plan/validate.go: ValidatePolicy
*/
package factory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// PolicyJSON is the document representation of a policy.
// Nil fields mean "use the standard value".
type PolicyJSON struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	Version        int             `json:"version,omitempty" yaml:"version,omitempty"`
	StretchRate    *float64        `json:"stretch_rate,omitempty" yaml:"stretch_rate,omitempty"`
	GapClosure     *GapClosureJSON `json:"gap_closure,omitempty" yaml:"gap_closure,omitempty"`
	Budget         *BudgetJSON     `json:"budget,omitempty" yaml:"budget,omitempty"`
	Allocation     *AllocationJSON `json:"allocation,omitempty" yaml:"allocation,omitempty"`
	Uplift         *UpliftJSON     `json:"uplift,omitempty" yaml:"uplift,omitempty"`
	Projection     *ProjectionJSON `json:"projection,omitempty" yaml:"projection,omitempty"`
	MaxIterations  *int            `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	MinProfitShare *float64        `json:"min_profit_share,omitempty" yaml:"min_profit_share,omitempty"`
}

// GapClosureJSON is the aggressiveness schedule.
type GapClosureJSON struct {
	Initial *float64 `json:"initial,omitempty" yaml:"initial,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step    *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// BudgetJSON is the per-technician monthly budget.
type BudgetJSON struct {
	Standard     *float64 `json:"standard,omitempty" yaml:"standard,omitempty"`
	SmallTeam    *float64 `json:"small_team,omitempty" yaml:"small_team,omitempty"`
	SmallTeamMax *int     `json:"small_team_max,omitempty" yaml:"small_team_max,omitempty"`
	LargeTeam    *float64 `json:"large_team,omitempty" yaml:"large_team,omitempty"`
	LargeTeamMin *int     `json:"large_team_min,omitempty" yaml:"large_team_min,omitempty"`
	Step         *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Floor        *float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// AllocationJSON shapes the per-KPI split.
type AllocationJSON struct {
	Floor         *float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
	Ceiling       *float64 `json:"ceiling,omitempty" yaml:"ceiling,omitempty"`
	CapMultiplier *float64 `json:"cap_multiplier,omitempty" yaml:"cap_multiplier,omitempty"`
}

// UpliftJSON holds the uplift multipliers.
type UpliftJSON struct {
	JobsPerTechPerMonth       *float64 `json:"jobs_per_tech_per_month,omitempty" yaml:"jobs_per_tech_per_month,omitempty"`
	RevenueSharePerPoint      *float64 `json:"revenue_share_per_point,omitempty" yaml:"revenue_share_per_point,omitempty"`
	FallbackJobValue          *float64 `json:"fallback_job_value,omitempty" yaml:"fallback_job_value,omitempty"`
	AgreementValue            *float64 `json:"agreement_value,omitempty" yaml:"agreement_value,omitempty"`
	RatingStep                *float64 `json:"rating_step,omitempty" yaml:"rating_step,omitempty"`
	RevenueSharePerRatingStep *float64 `json:"revenue_share_per_rating_step,omitempty" yaml:"revenue_share_per_rating_step,omitempty"`
	FirstFixJobShare          *float64 `json:"first_fix_job_share,omitempty" yaml:"first_fix_job_share,omitempty"`
}

// ProjectionJSON is the projected uplift range.
type ProjectionJSON struct {
	LowShare  *float64 `json:"low_share,omitempty" yaml:"low_share,omitempty"`
	HighShare *float64 `json:"high_share,omitempty" yaml:"high_share,omitempty"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts policy documents to plan policies.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON document.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*plan.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, documentError("JSON", err)
	}
	return f.FromJSON(pj)
}

// ParseYAML parses a YAML document.
func (f *PolicyFactory) ParseYAML(yamlStr string) (*plan.Policy, error) {
	var pj PolicyJSON
	if err := yaml.Unmarshal([]byte(yamlStr), &pj); err != nil {
		return nil, documentError("YAML", err)
	}
	return f.FromJSON(pj)
}

// LoadFile reads a policy document from disk. .yaml and .yml files are
// YAML, everything else JSON.
func (f *PolicyFactory) LoadFile(path string) (*plan.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read policy %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseYAML(string(data))
	default:
		return f.ParsePolicy(string(data))
	}
}

// FromJSON converts a document to a validated policy.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (*plan.Policy, error) {
	if strings.TrimSpace(pj.ID) == "" {
		return nil, &generic.PolicyError{Setting: "id", Reason: "is required"}
	}

	p := plan.StandardPolicy()
	p.ID = pj.ID
	p.Name = pj.Name
	if p.Name == "" {
		p.Name = pj.ID
	}
	p.Description = pj.Description
	p.Version = pj.Version
	if p.Version <= 0 {
		p.Version = 1
	}

	setDecimal(&p.StretchRate, pj.StretchRate)
	setInt(&p.MaxIterations, pj.MaxIterations)
	setDecimal(&p.MinProfitShare, pj.MinProfitShare)

	if g := pj.GapClosure; g != nil {
		setDecimal(&p.GapClosure.Initial, g.Initial)
		setDecimal(&p.GapClosure.Max, g.Max)
		setDecimal(&p.GapClosure.Step, g.Step)
	}
	if b := pj.Budget; b != nil {
		setDecimal(&p.Budget.Standard, b.Standard)
		setDecimal(&p.Budget.SmallTeam, b.SmallTeam)
		setInt(&p.Budget.SmallTeamMax, b.SmallTeamMax)
		setDecimal(&p.Budget.LargeTeam, b.LargeTeam)
		setInt(&p.Budget.LargeTeamMin, b.LargeTeamMin)
		setDecimal(&p.Budget.Step, b.Step)
		setDecimal(&p.Budget.Floor, b.Floor)
	}
	if a := pj.Allocation; a != nil {
		setDecimal(&p.Allocation.Floor, a.Floor)
		setDecimal(&p.Allocation.Ceiling, a.Ceiling)
		setDecimal(&p.Allocation.CapMultiplier, a.CapMultiplier)
	}
	if u := pj.Uplift; u != nil {
		setDecimal(&p.Uplift.JobsPerTechPerMonth, u.JobsPerTechPerMonth)
		setDecimal(&p.Uplift.RevenueSharePerPoint, u.RevenueSharePerPoint)
		setDecimal(&p.Uplift.FallbackJobValue, u.FallbackJobValue)
		setDecimal(&p.Uplift.AgreementValue, u.AgreementValue)
		setDecimal(&p.Uplift.RatingStep, u.RatingStep)
		setDecimal(&p.Uplift.RevenueSharePerRatingStep, u.RevenueSharePerRatingStep)
		setDecimal(&p.Uplift.FirstFixJobShare, u.FirstFixJobShare)
	}
	if pr := pj.Projection; pr != nil {
		setDecimal(&p.Projection.LowShare, pr.LowShare)
		setDecimal(&p.Projection.HighShare, pr.HighShare)
	}

	if err := plan.ValidatePolicy(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ToJSON converts a policy to its document form with every field set.
func (f *PolicyFactory) ToJSON(p *plan.Policy) PolicyJSON {
	return PolicyJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Version:     p.Version,
		StretchRate: floatPtr(p.StretchRate),
		GapClosure: &GapClosureJSON{
			Initial: floatPtr(p.GapClosure.Initial),
			Max:     floatPtr(p.GapClosure.Max),
			Step:    floatPtr(p.GapClosure.Step),
		},
		Budget: &BudgetJSON{
			Standard:     floatPtr(p.Budget.Standard),
			SmallTeam:    floatPtr(p.Budget.SmallTeam),
			SmallTeamMax: intPtr(p.Budget.SmallTeamMax),
			LargeTeam:    floatPtr(p.Budget.LargeTeam),
			LargeTeamMin: intPtr(p.Budget.LargeTeamMin),
			Step:         floatPtr(p.Budget.Step),
			Floor:        floatPtr(p.Budget.Floor),
		},
		Allocation: &AllocationJSON{
			Floor:         floatPtr(p.Allocation.Floor),
			Ceiling:       floatPtr(p.Allocation.Ceiling),
			CapMultiplier: floatPtr(p.Allocation.CapMultiplier),
		},
		Uplift: &UpliftJSON{
			JobsPerTechPerMonth:       floatPtr(p.Uplift.JobsPerTechPerMonth),
			RevenueSharePerPoint:      floatPtr(p.Uplift.RevenueSharePerPoint),
			FallbackJobValue:          floatPtr(p.Uplift.FallbackJobValue),
			AgreementValue:            floatPtr(p.Uplift.AgreementValue),
			RatingStep:                floatPtr(p.Uplift.RatingStep),
			RevenueSharePerRatingStep: floatPtr(p.Uplift.RevenueSharePerRatingStep),
			FirstFixJobShare:          floatPtr(p.Uplift.FirstFixJobShare),
		},
		Projection: &ProjectionJSON{
			LowShare:  floatPtr(p.Projection.LowShare),
			HighShare: floatPtr(p.Projection.HighShare),
		},
		MaxIterations:  intPtr(p.MaxIterations),
		MinProfitShare: floatPtr(p.MinProfitShare),
	}
}

// MarshalPolicy renders a policy as an indented JSON document.
func (f *PolicyFactory) MarshalPolicy(p *plan.Policy) (string, error) {
	data, err := json.MarshalIndent(f.ToJSON(p), "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshal policy")
	}
	return string(data), nil
}

// MarshalYAML renders a policy as a YAML document.
func (f *PolicyFactory) MarshalYAML(p *plan.Policy) (string, error) {
	data, err := yaml.Marshal(f.ToJSON(p))
	if err != nil {
		return "", eris.Wrap(err, "marshal policy")
	}
	return string(data), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func setDecimal(dst *decimal.Decimal, v *float64) {
	if v != nil {
		*dst = decimal.NewFromFloat(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := generic.Float(d)
	return &f
}

func intPtr(v int) *int { return &v }

// documentError marks a decode failure as a client error.
func documentError(format string, err error) error {
	return &generic.PolicyError{Setting: "document", Reason: "invalid " + format + ": " + err.Error()}
}
