/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	companies (and, where useful, a custom policy) so a plan can be
	requested immediately.

AVAILABLE SCENARIOS:

	hvac-generic:          15-person HVAC shop, form data only
	plumbing-custom:       Plumbing shop with uploaded job data and a top performer
	conservative-rollout:  Small electrical crew on a stored cautious policy

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save companies
 3. Optionally store a policy via the factory
 4. Return a sample plan request that works against the loaded data

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "plumbing-custom"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a loader to 'scenarioLoaders'

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Plan and company handlers
  - plan/policies.go: Preset policies
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "hvac-generic",
		Name:        "HVAC Generic",
		Description: "15-person HVAC company with self-reported revenue, staff costs and job value",
		Mode:        string(plan.ModeGeneric),
	},
	{
		ID:          "plumbing-custom",
		Name:        "Plumbing Custom",
		Description: "Plumbing company with uploaded job data and a top-performing technician",
		Mode:        string(plan.ModeCustom),
	},
	{
		ID:          "conservative-rollout",
		Name:        "Conservative Rollout",
		Description: "Small electrical crew planned under a stored cautious policy",
		Mode:        string(plan.ModeGeneric),
	},
}

type scenarioLoader func(ctx context.Context, h *Handler) (PlanRequest, error)

var scenarioLoaders = map[string]scenarioLoader{
	"hvac-generic":         loadHVACGenericScenario,
	"plumbing-custom":      loadPlumbingCustomScenario,
	"conservative-rollout": loadConservativeRolloutScenario,
}

// ListScenarios returns all available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": nil})
}

// LoadScenario resets the database and loads a scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.clearPolicies()

	sample, err := load(ctx, h)
	if err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "loaded",
		"scenario":       req.ScenarioID,
		"sample_request": sample,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func ptr(v float64) *float64 { return &v }

// HVAC company from the generic walkthrough: labor rate 39%, revenue per
// technician about $21.1K a month.
func loadHVACGenericScenario(ctx context.Context, h *Handler) (PlanRequest, error) {
	company, err := h.saveCompany(ctx, "acme-heating", CompanyDTO{
		Name:          "Acme Heating",
		Industry:      "HVAC",
		TeamSize:      15,
		AnnualRevenue: ptr(3800000),
		StaffCosts:    ptr(1482000),
		AvgJobValue:   ptr(300),
	})
	if err != nil {
		return PlanRequest{}, err
	}

	return PlanRequest{
		CompanyID: company.ID,
		Mode:      string(plan.ModeGeneric),
	}, nil
}

// Plumbing company with uploaded job data. Its best technician averages
// $520 a ticket, which becomes the custom-mode reference.
func loadPlumbingCustomScenario(ctx context.Context, h *Handler) (PlanRequest, error) {
	company, err := h.saveCompany(ctx, "rapid-rooter", CompanyDTO{
		Name:          "Rapid Rooter Plumbing",
		Industry:      "Plumbing",
		TeamSize:      24,
		Technicians:   18,
		AnnualRevenue: ptr(4300000),
		StaffCosts:    ptr(1720000),
		AvgJobValue:   ptr(410),
	})
	if err != nil {
		return PlanRequest{}, err
	}

	return PlanRequest{
		CompanyID: company.ID,
		Mode:      string(plan.ModeCustom),
		Metrics: &MetricsDTO{
			AvgTicket:            ptr(410),
			BillableEfficiency:   ptr(52),
			CallbackRate:         ptr(6.5),
			GoogleRating:         ptr(4.3),
			MonthlyOvertimeSpend: ptr(3200),
			TotalRevenue:         ptr(358000),
			TotalJobs:            870,
			TopPerformers:        map[string]float64{string(plan.KPIAverageJobValue): 520},
		},
		SelectedKPIs: []SelectedKPIDTO{
			{Name: string(plan.KPICallbackRate), Reason: "Callbacks eat two truck rolls a day."},
			{Name: string(plan.KPIAverageJobValue), Reason: "Top technician shows the ceiling."},
		},
	}, nil
}

// Small electrical crew on a stored copy of the conservative preset with a
// lower ceiling.
func loadConservativeRolloutScenario(ctx context.Context, h *Handler) (PlanRequest, error) {
	company, err := h.saveCompany(ctx, "bright-spark", CompanyDTO{
		Name:          "Bright Spark Electric",
		Industry:      "Electrical",
		TeamSize:      6,
		AnnualRevenue: ptr(950000),
		StaffCosts:    ptr(380000),
		AvgJobValue:   ptr(280),
	})
	if err != nil {
		return PlanRequest{}, err
	}

	policy := plan.ConservativePolicy()
	policy.ID = "cautious-small-crew"
	policy.Name = "Cautious Small Crew"
	policy.Description = "Conservative preset with a $250 per-KPI ceiling"
	policy.Allocation.Ceiling = decimal.NewFromInt(250)
	if _, err := h.storePolicy(ctx, &policy); err != nil {
		return PlanRequest{}, err
	}

	return PlanRequest{
		CompanyID: company.ID,
		Mode:      string(plan.ModeGeneric),
		PolicyID:  policy.ID,
	}, nil
}
