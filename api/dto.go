/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - Floats on the wire, decimals inside
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

OPTIONAL NUMBERS:
  Every metric is a *float64. null or absent means unknown, which the
  engine treats differently from a measured zero.

TYPES:
  Plans:      PlanRequest, PlanResponse, KPIDTO, SummaryDTO, TraceDTO
  Inputs:     CompanyDTO, MetricsDTO, BenchmarkDTO, SelectedKPIDTO
  Catalogs:   BenchmarkSetDTO, KPIDefDTO
  Stored:     PlanRunDTO, CompanyRecordDTO, PolicyDTO
  Scenarios:  ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Structural validation is a JSON schema (validation.go); range checks
  live in plan.ValidateCompany / plan.ValidateSummary.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/docal56/sharewillow-onboarding/benchmark"
	"github.com/docal56/sharewillow-onboarding/factory"
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUTS
// =============================================================================

// CompanyDTO is the self-reported company profile.
type CompanyDTO struct {
	Name          string   `json:"name"`
	Industry      string   `json:"industry"`
	TeamSize      int      `json:"team_size"`
	Technicians   int      `json:"technicians,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue"`
	StaffCosts    *float64 `json:"staff_costs"`
	AvgJobValue   *float64 `json:"avg_job_value"`
}

func (c CompanyDTO) toProfile() plan.CompanyProfile {
	return plan.CompanyProfile{
		Name:          c.Name,
		Industry:      c.Industry,
		TeamSize:      c.TeamSize,
		Technicians:   c.Technicians,
		AnnualRevenue: generic.FromNullFloat(c.AnnualRevenue),
		StaffCosts:    generic.FromNullFloat(c.StaffCosts),
		AvgJobValue:   generic.FromNullFloat(c.AvgJobValue),
	}
}

// MetricsDTO is the summary derived from uploaded job data.
type MetricsDTO struct {
	AvgTicket             *float64           `json:"avg_ticket"`
	BillableEfficiency    *float64           `json:"billable_efficiency"`
	CallbackRate          *float64           `json:"callback_rate"`
	GoogleRating          *float64           `json:"google_rating"`
	AvgGoogleRating       *float64           `json:"avg_google_rating,omitempty"`
	MaintenanceConversion *float64           `json:"maintenance_conversion,omitempty"`
	FirstTimeFixRate      *float64           `json:"first_time_fix_rate,omitempty"`
	MonthlyOvertimeSpend  *float64           `json:"monthly_overtime_spend"`
	TotalRevenue          *float64           `json:"total_revenue"`
	TotalJobs             int                `json:"total_jobs"`
	TopPerformers         map[string]float64 `json:"top_performers,omitempty"`
	TopPerformerInsights  string             `json:"top_performer_insights,omitempty"`
	AdditionalInsights    string             `json:"additional_insights,omitempty"`
}

func (m *MetricsDTO) toSummary() plan.MetricSummary {
	if m == nil {
		return plan.MetricSummary{}
	}
	s := plan.MetricSummary{
		AvgTicket:             generic.FromNullFloat(m.AvgTicket),
		BillableEfficiency:    generic.FromNullFloat(m.BillableEfficiency),
		CallbackRate:          generic.FromNullFloat(m.CallbackRate),
		GoogleRating:          generic.FromNullFloat(m.GoogleRating),
		AvgGoogleRating:       generic.FromNullFloat(m.AvgGoogleRating),
		MaintenanceConversion: generic.FromNullFloat(m.MaintenanceConversion),
		FirstTimeFixRate:      generic.FromNullFloat(m.FirstTimeFixRate),
		MonthlyOvertimeSpend:  generic.FromNullFloat(m.MonthlyOvertimeSpend),
		TotalRevenue:          generic.FromNullFloat(m.TotalRevenue),
		TotalJobs:             m.TotalJobs,
		TopPerformerInsights:  m.TopPerformerInsights,
		AdditionalInsights:    m.AdditionalInsights,
	}
	if len(m.TopPerformers) > 0 {
		s.TopPerformers = make(map[plan.KPIName]decimal.Decimal, len(m.TopPerformers))
		for name, v := range m.TopPerformers {
			s.TopPerformers[plan.KPIName(name)] = decimal.NewFromFloat(v)
		}
	}
	return s
}

// ToMetricsDTO converts a summary for the wire. Unknown values are null.
func ToMetricsDTO(s plan.MetricSummary) MetricsDTO {
	dto := MetricsDTO{
		AvgTicket:             generic.NullFloat(s.AvgTicket),
		BillableEfficiency:    generic.NullFloat(s.BillableEfficiency),
		CallbackRate:          generic.NullFloat(s.CallbackRate),
		GoogleRating:          generic.NullFloat(s.GoogleRating),
		AvgGoogleRating:       generic.NullFloat(s.AvgGoogleRating),
		MaintenanceConversion: generic.NullFloat(s.MaintenanceConversion),
		FirstTimeFixRate:      generic.NullFloat(s.FirstTimeFixRate),
		MonthlyOvertimeSpend:  generic.NullFloat(s.MonthlyOvertimeSpend),
		TotalRevenue:          generic.NullFloat(s.TotalRevenue),
		TotalJobs:             s.TotalJobs,
	}
	if len(s.TopPerformers) > 0 {
		dto.TopPerformers = make(map[string]float64, len(s.TopPerformers))
		for name, v := range s.TopPerformers {
			dto.TopPerformers[string(name)] = generic.Float(v)
		}
	}
	return dto
}

// BenchmarkDTO is one benchmark row.
type BenchmarkDTO struct {
	Name        string  `json:"name,omitempty"`
	DisplayName string  `json:"display_name"`
	Unit        string  `json:"unit"`
	Lower       float64 `json:"lower"`
	Median      float64 `json:"median"`
	Upper       float64 `json:"upper"`
	Inverted    bool    `json:"inverted"`
	Description string  `json:"description,omitempty"`
}

func toBenchmarkSet(dtos []BenchmarkDTO) generic.BenchmarkSet {
	set := make(generic.BenchmarkSet, len(dtos))
	for i, b := range dtos {
		set[i] = generic.Benchmark{
			Name:        b.Name,
			DisplayName: b.DisplayName,
			Unit:        generic.Unit(b.Unit),
			Lower:       decimal.NewFromFloat(b.Lower),
			Median:      decimal.NewFromFloat(b.Median),
			Upper:       decimal.NewFromFloat(b.Upper),
			Inverted:    b.Inverted,
			Description: b.Description,
		}
	}
	return set
}

func toBenchmarkDTOs(set generic.BenchmarkSet) []BenchmarkDTO {
	dtos := make([]BenchmarkDTO, len(set))
	for i, b := range set {
		dtos[i] = BenchmarkDTO{
			Name:        b.Name,
			DisplayName: b.DisplayName,
			Unit:        string(b.Unit),
			Lower:       generic.Float(b.Lower),
			Median:      generic.Float(b.Median),
			Upper:       generic.Float(b.Upper),
			Inverted:    b.Inverted,
			Description: b.Description,
		}
	}
	return dtos
}

// SelectedKPIDTO is a caller nomination.
type SelectedKPIDTO struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func toSelections(dtos []SelectedKPIDTO) []plan.SelectedKPI {
	out := make([]plan.SelectedKPI, len(dtos))
	for i, s := range dtos {
		out[i] = plan.SelectedKPI{Name: strings.TrimSpace(s.Name), Reason: s.Reason}
	}
	return out
}

// PlanRequest asks for a plan. Benchmarks default to the catalog rows for
// the company's industry and team size. Either Company or CompanyID is
// required.
type PlanRequest struct {
	CompanyID      string           `json:"company_id,omitempty"`
	Company        *CompanyDTO      `json:"company,omitempty"`
	Metrics        *MetricsDTO      `json:"metrics,omitempty"`
	Benchmarks     []BenchmarkDTO   `json:"benchmarks,omitempty"`
	Mode           string           `json:"mode,omitempty"`
	SelectedKPIs   []SelectedKPIDTO `json:"selected_kpis,omitempty"`
	PolicyID       string           `json:"policy_id,omitempty"`
	Save           bool             `json:"save,omitempty"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
}

// =============================================================================
// PLAN OUTPUT
// =============================================================================

// KPIDTO is one line of a plan.
type KPIDTO struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	Current          float64 `json:"current"`
	CurrentFormatted string  `json:"current_formatted"`
	Target           float64 `json:"target"`
	TargetFormatted  string  `json:"target_formatted"`
	BonusPerMonth    float64 `json:"bonus_per_month"`
	BonusCap         float64 `json:"bonus_cap"`
	Inverted         bool    `json:"inverted"`
	Rationale        string  `json:"rationale,omitempty"`
}

// SummaryDTO is the payout view.
type SummaryDTO struct {
	BonusPerTech        float64 `json:"bonus_per_tech"`
	MonthlyPayout       float64 `json:"monthly_payout"`
	AnnualBonusCost     float64 `json:"annual_bonus_cost"`
	GrossUplift         float64 `json:"gross_uplift"`
	ProjectedUpliftLow  float64 `json:"projected_uplift_low"`
	ProjectedUpliftHigh float64 `json:"projected_uplift_high"`
}

// IterationDTO is one pass of the convergence loop.
type IterationDTO struct {
	Number          int     `json:"number"`
	GapClosureRate  float64 `json:"gap_closure_rate"`
	Budget          float64 `json:"budget"`
	GrossUplift     float64 `json:"gross_uplift"`
	AnnualBonusCost float64 `json:"annual_bonus_cost"`
	NetUplift       float64 `json:"net_uplift"`
	Met             bool    `json:"met"`
}

// TraceDTO explains how the plan was reached.
type TraceDTO struct {
	Converged       bool           `json:"converged"`
	GapClosureRate  float64        `json:"gap_closure_rate"`
	Budget          float64        `json:"budget"`
	NetUplift       float64        `json:"net_uplift"`
	RequiredMinimum float64        `json:"required_minimum"`
	Iterations      []IterationDTO `json:"iterations"`
}

// PlanResponse is a calculated plan.
type PlanResponse struct {
	ID        string     `json:"id,omitempty"`
	Mode      string     `json:"mode"`
	PolicyID  string     `json:"policy_id"`
	Industry  string     `json:"industry,omitempty"`
	TeamBand  string     `json:"team_band,omitempty"`
	KPIs      []KPIDTO   `json:"kpis"`
	Summary   SummaryDTO `json:"summary"`
	Trace     TraceDTO   `json:"trace"`
	Warnings  []string   `json:"warnings,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// CompareResponse shows both modes side by side. A mode without enough
// data is nil and its reason is listed in Errors, keyed by mode.
type CompareResponse struct {
	Generic *PlanResponse     `json:"generic,omitempty"`
	Custom  *PlanResponse     `json:"custom,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// record stores one mode's outcome. Insufficient data is kept as a
// per-mode error; anything else is returned.
func (c *CompareResponse) record(mode plan.Mode, p PlanResponse, err error) error {
	if err != nil {
		if !errors.Is(err, generic.ErrInsufficientData) {
			return err
		}
		if c.Errors == nil {
			c.Errors = make(map[string]string)
		}
		c.Errors[string(mode)] = err.Error()
		return nil
	}
	switch mode {
	case plan.ModeGeneric:
		c.Generic = &p
	case plan.ModeCustom:
		c.Custom = &p
	}
	return nil
}

func toPlanResponse(result *plan.Result, summary plan.Summary, policyID string) PlanResponse {
	resp := PlanResponse{
		Mode:     string(result.Mode),
		PolicyID: policyID,
		KPIs:     make([]KPIDTO, len(summary.KPIs)),
		Summary: SummaryDTO{
			BonusPerTech:        generic.Float(summary.BonusPerTech),
			MonthlyPayout:       generic.Float(summary.MonthlyPayout),
			AnnualBonusCost:     generic.Float(summary.AnnualBonusCost),
			GrossUplift:         generic.Float(summary.GrossUplift),
			ProjectedUpliftLow:  generic.Float(summary.ProjectedUpliftLow),
			ProjectedUpliftHigh: generic.Float(summary.ProjectedUpliftHigh),
		},
		Trace: TraceDTO{
			Converged:       result.Converged,
			GapClosureRate:  generic.Float(result.GapClosureRate),
			Budget:          generic.Float(result.Budget),
			NetUplift:       generic.Float(result.NetUplift),
			RequiredMinimum: generic.Float(result.RequiredMinimum),
			Iterations:      make([]IterationDTO, len(result.Iterations)),
		},
	}
	for i, k := range summary.KPIs {
		resp.KPIs[i] = KPIDTO{
			Name:             string(k.Name),
			Unit:             string(k.Unit),
			Current:          generic.Float(k.Current),
			CurrentFormatted: k.CurrentFormatted,
			Target:           generic.Float(k.Target),
			TargetFormatted:  k.TargetFormatted,
			BonusPerMonth:    generic.Float(k.BonusPerMonth),
			BonusCap:         generic.Float(k.BonusCap),
			Inverted:         k.Inverted,
			Rationale:        k.Rationale,
		}
	}
	for i, it := range result.Iterations {
		resp.Trace.Iterations[i] = IterationDTO{
			Number:          it.Number,
			GapClosureRate:  generic.Float(it.GapClosureRate),
			Budget:          generic.Float(it.Budget),
			GrossUplift:     generic.Float(it.GrossUplift),
			AnnualBonusCost: generic.Float(it.AnnualBonusCost),
			NetUplift:       generic.Float(it.NetUplift),
			Met:             it.Met,
		}
	}
	return resp
}

// =============================================================================
// CATALOGS
// =============================================================================

// BenchmarkSetDTO is a resolved catalog lookup.
type BenchmarkSetDTO struct {
	Industry   string         `json:"industry"`
	Band       string         `json:"band"`
	Benchmarks []BenchmarkDTO `json:"benchmarks"`
}

// ToBenchmarkSetDTO converts a catalog lookup for the wire.
func ToBenchmarkSetDTO(sel benchmark.Selection) BenchmarkSetDTO {
	return BenchmarkSetDTO{
		Industry:   sel.Industry,
		Band:       string(sel.Band),
		Benchmarks: toBenchmarkDTOs(sel.Set),
	}
}

// KPIDefDTO describes a plannable KPI.
type KPIDefDTO struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Direction   string `json:"direction"`
	Description string `json:"description"`
	Generic     bool   `json:"generic"`
}

// =============================================================================
// STORED RECORDS
// =============================================================================

// PlanRunDTO is a recorded plan run.
type PlanRunDTO struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id,omitempty"`
	PolicyID   string          `json:"policy_id"`
	Mode       string          `json:"mode"`
	Converged  bool            `json:"converged"`
	Iterations int             `json:"iterations"`
	CreatedAt  string          `json:"created_at"`
	Request    json.RawMessage `json:"request,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

func toPlanRunDTO(run generic.PlanRun, full bool) PlanRunDTO {
	dto := PlanRunDTO{
		ID:         run.ID,
		CompanyID:  run.CompanyID,
		PolicyID:   run.PolicyID,
		Mode:       run.Mode,
		Converged:  run.Converged,
		Iterations: run.Iterations,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
	}
	if full {
		dto.Request = json.RawMessage(run.RequestJSON)
		dto.Result = json.RawMessage(run.ResultJSON)
	}
	return dto
}

// CompanyRecordDTO is a saved company profile.
type CompanyRecordDTO struct {
	ID        string     `json:"id"`
	Company   CompanyDTO `json:"company"`
	CreatedAt string     `json:"created_at,omitempty"`
	UpdatedAt string     `json:"updated_at,omitempty"`
}

// CreateCompanyRequest saves a company profile. An empty ID is assigned.
type CreateCompanyRequest struct {
	ID      string     `json:"id,omitempty"`
	Company CompanyDTO `json:"company"`
}

// PolicyDTO represents a policy in API responses.
type PolicyDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Config    factory.PolicyJSON `json:"config"`
	Version   int                `json:"version"`
	Preset    bool               `json:"preset"`
	CreatedAt string             `json:"created_at,omitempty"`
}

// CreatePolicyRequest stores a policy document.
type CreatePolicyRequest struct {
	Config factory.PolicyJSON `json:"config"`
}

// ImportResponse is the summary of an uploaded job export.
type ImportResponse struct {
	Filename string     `json:"filename"`
	Metrics  MetricsDTO `json:"metrics"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        string `json:"mode"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
