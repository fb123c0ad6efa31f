/*
handlers.go - HTTP API handlers for the bonus plan service

PURPOSE:
  Exposes the plan engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the plan, benchmark and importer
  packages.

ENDPOINTS:
  Plans:
    POST   /api/plans                  Calculate a plan (optionally save it)
    POST   /api/plans/compare          Generic and custom plans side by side
    GET    /api/plans                  List saved plan runs
    GET    /api/plans/{id}             Get a saved plan run

  Inputs:
    GET    /api/benchmarks             Benchmarks for ?industry=&team_size=
    GET    /api/benchmarks/industries  Industries and their team-size bands
    POST   /api/metrics/import         Summarize an uploaded job export
    GET    /api/kpis                   KPI catalog

  Policies:
    GET    /api/policies               List presets and stored policies
    POST   /api/policies               Store a policy document
    GET    /api/policies/{id}          Get a policy
    DELETE /api/policies/{id}          Delete a stored policy

  Companies:
    GET    /api/companies              List saved company profiles
    POST   /api/companies              Save a company profile
    GET    /api/companies/{id}         Get a company profile
    DELETE /api/companies/{id}         Delete a company profile

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Plan runs, companies, policies
  - PolicyFactory: Policy documents to plan.Policy
  - Catalog: Benchmark lookup when a request carries none
  - Cached stored policies for quick lookups

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (JSON schema, then plan.Validate*)
  3. Resolve company, benchmarks and policy
  4. Run the engine and summarize
  5. Serialize response
  6. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate idempotency key)
  - 422: Not a single KPI could be calculated
  - 500: Internal errors

  A plan with one or two KPIs, or one that never reached the profitability
  target, is still a 200. The response carries warnings instead.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - validation.go: Plan request schema
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/docal56/sharewillow-onboarding/benchmark"
	"github.com/docal56/sharewillow-onboarding/factory"
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/importer"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 10 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         generic.Store
	PolicyFactory *factory.PolicyFactory
	Catalog       *benchmark.Catalog

	logger        *zap.Logger
	defaultPolicy plan.Policy

	// Cached stored policies, keyed by ID
	mu       sync.RWMutex
	policies map[string]plan.Policy

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler. A nil catalog uses the embedded benchmarks;
// a nil logger discards output.
func NewHandler(store generic.Store, catalog *benchmark.Catalog, logger *zap.Logger) *Handler {
	if catalog == nil {
		catalog = benchmark.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:         store,
		PolicyFactory: factory.NewPolicyFactory(),
		Catalog:       catalog,
		logger:        logger,
		defaultPolicy: plan.StandardPolicy(),
		policies:      make(map[string]plan.Policy),
	}
}

// SetDefaultPolicy sets the policy used when a request names none.
func (h *Handler) SetDefaultPolicy(p plan.Policy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defaultPolicy = p
}

// LoadPolicies loads all stored policies into the cache.
func (h *Handler) LoadPolicies(ctx context.Context) error {
	records, err := h.Store.ListPolicies(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range records {
		policy, err := h.PolicyFactory.ParsePolicy(r.ConfigJSON)
		if err != nil {
			h.logger.Warn("skipping invalid stored policy", zap.String("policy_id", r.ID), zap.Error(err))
			continue
		}
		policy.Version = r.Version
		h.policies[policy.ID] = *policy
	}
	return nil
}

// policyFor resolves a policy ID: empty means the default, then presets,
// then the cache, then the store.
func (h *Handler) policyFor(ctx context.Context, id string) (plan.Policy, error) {
	h.mu.RLock()
	if id == "" {
		defer h.mu.RUnlock()
		return h.defaultPolicy, nil
	}
	cached, ok := h.policies[id]
	h.mu.RUnlock()
	if ok {
		return cached, nil
	}
	if preset, ok := plan.Presets()[id]; ok {
		return preset, nil
	}

	record, err := h.Store.GetPolicy(ctx, id)
	if err != nil {
		return plan.Policy{}, err
	}
	policy, err := h.PolicyFactory.ParsePolicy(record.ConfigJSON)
	if err != nil {
		return plan.Policy{}, err
	}
	policy.Version = record.Version

	h.mu.Lock()
	h.policies[id] = *policy
	h.mu.Unlock()
	return *policy, nil
}

func (h *Handler) clearPolicies() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.policies = make(map[string]plan.Policy)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// CalculatePlan builds a plan and optionally records it.
func (h *Handler) CalculatePlan(w http.ResponseWriter, r *http.Request) {
	req, body, err := decodePlanRequest(w, r)
	if err != nil {
		h.fail(w, r, "Invalid plan request", err)
		return
	}

	ctx := r.Context()
	resp, err := h.buildPlan(ctx, req, plan.ParseMode(req.Mode))
	if err != nil {
		h.fail(w, r, "Failed to calculate plan", err)
		return
	}

	if req.Save {
		saved, err := h.savePlanRun(ctx, req, body, resp)
		if err != nil {
			h.fail(w, r, "Failed to save plan", err)
			return
		}
		resp = saved
	}

	writeJSON(w, http.StatusOK, resp)
}

// ComparePlans builds the generic and custom plans for the same inputs.
// A mode without enough data is reported in errors; 422 only when neither
// mode produces a plan.
func (h *Handler) ComparePlans(w http.ResponseWriter, r *http.Request) {
	req, _, err := decodePlanRequest(w, r)
	if err != nil {
		h.fail(w, r, "Invalid plan request", err)
		return
	}

	var (
		resp CompareResponse
		mu   sync.Mutex
	)
	g, ctx := errgroup.WithContext(r.Context())
	for _, mode := range []plan.Mode{plan.ModeGeneric, plan.ModeCustom} {
		mode := mode
		g.Go(func() error {
			p, err := h.buildPlan(ctx, req, mode)
			mu.Lock()
			defer mu.Unlock()
			return resp.record(mode, p, err)
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(w, r, "Failed to compare plans", err)
		return
	}
	if resp.Generic == nil && resp.Custom == nil {
		h.fail(w, r, "Failed to compare plans", &generic.InsufficientDataError{Eligible: 0, Required: plan.PlanSize})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPlans lists saved plan runs, newest first.
// Query: ?company_id= filters, ?limit= caps the result.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		runs []generic.PlanRun
		err  error
	)
	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		runs, err = h.Store.ListPlanRunsByCompany(ctx, companyID)
	} else {
		limit, convErr := intParam(r, "limit")
		if convErr != nil {
			h.fail(w, r, "Invalid limit", convErr)
			return
		}
		runs, err = h.Store.ListPlanRuns(ctx, limit)
	}
	if err != nil {
		h.fail(w, r, "Failed to list plans", err)
		return
	}

	dtos := make([]PlanRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toPlanRunDTO(run, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlan returns one saved plan run with its request and result.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetPlanRun(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Plan not found", err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanRunDTO(*run, true))
}

// decodePlanRequest reads the body and parses it.
func decodePlanRequest(w http.ResponseWriter, r *http.Request) (PlanRequest, []byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return PlanRequest{}, nil, &generic.FieldError{Field: "body", Message: err.Error()}
	}
	req, err := ParsePlanRequest(body)
	return req, body, err
}

// ParsePlanRequest checks a JSON plan request against the schema and
// decodes it.
func ParsePlanRequest(body []byte) (PlanRequest, error) {
	var req PlanRequest
	if err := validatePlanRequest(body); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, &generic.FieldError{Field: "body", Message: err.Error()}
	}
	return req, nil
}

// Plan calculates a plan outside HTTP, recording it when req.Save is set.
func (h *Handler) Plan(ctx context.Context, req PlanRequest) (PlanResponse, error) {
	resp, err := h.buildPlan(ctx, req, plan.ParseMode(req.Mode))
	if err != nil || !req.Save {
		return resp, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}
	return h.savePlanRun(ctx, req, body, resp)
}

// buildPlan resolves inputs and runs the engine in the given mode.
func (h *Handler) buildPlan(ctx context.Context, req PlanRequest, mode plan.Mode) (PlanResponse, error) {
	company, err := h.resolveCompany(ctx, req)
	if err != nil {
		return PlanResponse{}, err
	}
	profile := company.toProfile()
	if err := plan.ValidateCompany(profile); err != nil {
		return PlanResponse{}, err
	}
	summary := req.Metrics.toSummary()
	if err := plan.ValidateSummary(summary); err != nil {
		return PlanResponse{}, err
	}

	policy, err := h.policyFor(ctx, req.PolicyID)
	if err != nil {
		return PlanResponse{}, err
	}

	var (
		set      generic.BenchmarkSet
		industry string
		band     string
	)
	if len(req.Benchmarks) > 0 {
		set = toBenchmarkSet(req.Benchmarks)
	} else {
		sel := h.Catalog.Lookup(profile.Industry, profile.TeamSize)
		set, industry, band = sel.Set, sel.Industry, string(sel.Band)
	}

	selected := toSelections(req.SelectedKPIs)
	if len(selected) == 0 {
		selected = plan.FallbackSelections()
	}
	var warnings []string
	for _, s := range selected {
		if _, err := generic.RequireMetric(s.Name); err != nil {
			warnings = append(warnings, err.Error()+"; nomination ignored")
		}
	}

	start := time.Now()
	result := plan.NewEngine(policy).Calculate(plan.Request{
		Company:    profile,
		Summary:    summary,
		Benchmarks: set,
		Mode:       mode,
		Selected:   selected,
	})
	PlanDuration.WithLabelValues(string(result.Mode)).Observe(time.Since(start).Seconds())

	if len(result.KPIs) == 0 {
		PlanFailures.WithLabelValues(string(result.Mode), "insufficient_data").Inc()
		return PlanResponse{}, result.Err()
	}
	PlansCalculated.WithLabelValues(string(result.Mode), strconv.FormatBool(result.Converged)).Inc()
	PlanIterations.WithLabelValues(string(result.Mode)).Observe(float64(len(result.Iterations)))

	h.logger.Info("plan calculated",
		zap.String("mode", string(result.Mode)),
		zap.String("policy_id", policy.ID),
		zap.Int("kpis", len(result.KPIs)),
		zap.Int("iterations", len(result.Iterations)),
		zap.Bool("converged", result.Converged),
	)

	resp := toPlanResponse(result, plan.Summarize(result, profile, selected, policy), policy.ID)
	resp.Industry = industry
	resp.TeamBand = band
	resp.Warnings = warnings
	if err := result.Err(); err != nil {
		resp.Warnings = append(resp.Warnings, err.Error())
	}
	if !result.Converged {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf(
			"net uplift %s is below the required %s; best effort plan returned",
			plan.FormatValue(generic.UnitDollars, result.NetUplift),
			plan.FormatValue(generic.UnitDollars, result.RequiredMinimum)))
	}
	return resp, nil
}

// resolveCompany returns the inline company, or loads the saved one.
func (h *Handler) resolveCompany(ctx context.Context, req PlanRequest) (CompanyDTO, error) {
	if req.Company != nil {
		return *req.Company, nil
	}
	record, err := h.Store.GetCompany(ctx, req.CompanyID)
	if err != nil {
		return CompanyDTO{}, err
	}
	var company CompanyDTO
	if err := json.Unmarshal([]byte(record.ProfileJSON), &company); err != nil {
		return CompanyDTO{}, fmt.Errorf("decode company %s: %w", record.ID, err)
	}
	return company, nil
}

func (h *Handler) savePlanRun(ctx context.Context, req PlanRequest, body []byte, resp PlanResponse) (PlanResponse, error) {
	resultJSON, err := json.Marshal(resp)
	if err != nil {
		return resp, err
	}

	run, err := h.Store.SavePlanRun(ctx, generic.PlanRun{
		CompanyID:      req.CompanyID,
		PolicyID:       resp.PolicyID,
		Mode:           resp.Mode,
		Converged:      resp.Trace.Converged,
		Iterations:     len(resp.Trace.Iterations),
		RequestJSON:    string(body),
		ResultJSON:     string(resultJSON),
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return resp, err
	}

	resp.ID = run.ID
	resp.CreatedAt = run.CreatedAt.Format(time.RFC3339)
	return resp, nil
}

// =============================================================================
// BENCHMARK, IMPORT AND KPI HANDLERS
// =============================================================================

// GetBenchmarks resolves the benchmark set for ?industry=&team_size=.
func (h *Handler) GetBenchmarks(w http.ResponseWriter, r *http.Request) {
	teamSize, err := intParam(r, "team_size")
	if err != nil {
		h.fail(w, r, "Invalid team_size", err)
		return
	}

	sel := h.Catalog.Lookup(r.URL.Query().Get("industry"), teamSize)
	writeJSON(w, http.StatusOK, ToBenchmarkSetDTO(sel))
}

// ListIndustries lists catalog industries with their available bands.
func (h *Handler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	type industryDTO struct {
		Industry string   `json:"industry"`
		Bands    []string `json:"bands"`
	}

	industries := h.Catalog.Industries()
	dtos := make([]industryDTO, len(industries))
	for i, name := range industries {
		bands := h.Catalog.Bands(name)
		dtos[i] = industryDTO{Industry: name, Bands: make([]string, len(bands))}
		for j, b := range bands {
			dtos[i].Bands[j] = string(b)
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ImportMetrics summarizes an uploaded job export (multipart field "file").
func (h *Handler) ImportMetrics(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, r, "Invalid upload", &generic.FieldError{Field: "file", Message: err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "Missing file", &generic.FieldError{Field: "file", Message: err.Error()})
		return
	}
	defer file.Close()

	format := importer.FormatOf(header.Filename)
	summary, err := importer.Import(file, header.Filename)
	if err != nil {
		JobExportsImported.WithLabelValues(string(format), "error").Inc()
		h.fail(w, r, "Failed to import job export", &generic.FieldError{Field: "file", Message: err.Error()})
		return
	}
	JobExportsImported.WithLabelValues(string(format), "ok").Inc()

	writeJSON(w, http.StatusOK, ImportResponse{
		Filename: header.Filename,
		Metrics:  ToMetricsDTO(summary),
	})
}

// ListKPIs returns the registered plan KPIs in eligibility order.
func (h *Handler) ListKPIs(w http.ResponseWriter, r *http.Request) {
	genericSet := make(map[string]bool)
	for _, name := range plan.Eligible(plan.ModeGeneric) {
		genericSet[string(name)] = true
	}

	metrics := generic.ListMetricsByDomain(plan.MetricDomain)
	dtos := make([]KPIDefDTO, len(metrics))
	for i, m := range metrics {
		dtos[i] = KPIDefDTO{
			Name:        m.Name,
			Unit:        string(m.Unit),
			Direction:   m.Direction.String(),
			Description: m.Description,
			Generic:     genericSet[m.Name],
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns the presets followed by stored policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	presets := plan.Presets()
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dtos := make([]PolicyDTO, 0, len(ids))
	for _, id := range ids {
		p := presets[id]
		dtos = append(dtos, h.presetDTO(&p))
	}

	records, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list policies", err)
		return
	}
	for _, rec := range records {
		dto, err := h.recordDTO(rec)
		if err != nil {
			h.logger.Warn("skipping invalid stored policy", zap.String("policy_id", rec.ID), zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy stores a policy document. Saving an existing ID bumps its
// version.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req CreatePolicyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.PolicyFactory.FromJSON(req.Config)
	if err != nil {
		h.fail(w, r, "Invalid policy", err)
		return
	}
	if _, ok := plan.Presets()[policy.ID]; ok {
		h.fail(w, r, "Invalid policy", &generic.PolicyError{Setting: "id", Reason: "is reserved for a preset"})
		return
	}

	record, err := h.storePolicy(r.Context(), policy)
	if err != nil {
		h.fail(w, r, "Failed to save policy", err)
		return
	}

	dto, err := h.recordDTO(record)
	if err != nil {
		h.fail(w, r, "Failed to read saved policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetPolicy returns a preset or stored policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if preset, ok := plan.Presets()[id]; ok {
		writeJSON(w, http.StatusOK, h.presetDTO(&preset))
		return
	}

	record, err := h.Store.GetPolicy(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Policy not found", err)
		return
	}
	dto, err := h.recordDTO(*record)
	if err != nil {
		h.fail(w, r, "Stored policy is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// DeletePolicy removes a stored policy. Presets cannot be deleted.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := plan.Presets()[id]; ok {
		h.fail(w, r, "Invalid policy", &generic.PolicyError{Setting: "id", Reason: "is reserved for a preset"})
		return
	}
	if err := h.Store.DeletePolicy(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete policy", err)
		return
	}

	h.mu.Lock()
	delete(h.policies, id)
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// storePolicy validates, saves and caches a policy.
func (h *Handler) storePolicy(ctx context.Context, policy *plan.Policy) (generic.PolicyRecord, error) {
	if err := plan.ValidatePolicy(*policy); err != nil {
		return generic.PolicyRecord{}, err
	}
	configJSON, err := h.PolicyFactory.MarshalPolicy(policy)
	if err != nil {
		return generic.PolicyRecord{}, err
	}

	record, err := h.Store.SavePolicy(ctx, generic.PolicyRecord{
		ID:         policy.ID,
		Name:       policy.Name,
		ConfigJSON: configJSON,
	})
	if err != nil {
		return generic.PolicyRecord{}, err
	}

	policy.Version = record.Version
	h.mu.Lock()
	h.policies[policy.ID] = *policy
	h.mu.Unlock()
	return record, nil
}

func (h *Handler) presetDTO(p *plan.Policy) PolicyDTO {
	return PolicyDTO{
		ID:      p.ID,
		Name:    p.Name,
		Config:  h.PolicyFactory.ToJSON(p),
		Version: p.Version,
		Preset:  true,
	}
}

func (h *Handler) recordDTO(rec generic.PolicyRecord) (PolicyDTO, error) {
	policy, err := h.PolicyFactory.ParsePolicy(rec.ConfigJSON)
	if err != nil {
		return PolicyDTO{}, err
	}
	policy.Version = rec.Version
	return PolicyDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Config:    h.PolicyFactory.ToJSON(policy),
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListCompanies returns saved company profiles.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list companies", err)
		return
	}

	dtos := make([]CompanyRecordDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toCompanyRecordDTO(rec)
		if err != nil {
			h.logger.Warn("skipping unreadable company", zap.String("company_id", rec.ID), zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCompany saves a company profile.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := h.saveCompany(r.Context(), req.ID, req.Company)
	if err != nil {
		h.fail(w, r, "Failed to save company", err)
		return
	}

	dto, err := toCompanyRecordDTO(record)
	if err != nil {
		h.fail(w, r, "Failed to read saved company", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetCompany returns one saved company profile.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	record, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Company not found", err)
		return
	}

	dto, err := toCompanyRecordDTO(*record)
	if err != nil {
		h.fail(w, r, "Failed to read company", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// DeleteCompany removes a saved company profile.
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete company", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) saveCompany(ctx context.Context, id string, company CompanyDTO) (generic.CompanyRecord, error) {
	if err := plan.ValidateCompany(company.toProfile()); err != nil {
		return generic.CompanyRecord{}, err
	}
	profileJSON, err := json.Marshal(company)
	if err != nil {
		return generic.CompanyRecord{}, err
	}
	return h.Store.SaveCompany(ctx, generic.CompanyRecord{
		ID:          id,
		Name:        company.Name,
		Industry:    company.Industry,
		TeamSize:    company.TeamSize,
		ProfileJSON: string(profileJSON),
	})
}

func toCompanyRecordDTO(rec generic.CompanyRecord) (CompanyRecordDTO, error) {
	var company CompanyDTO
	if err := json.Unmarshal([]byte(rec.ProfileJSON), &company); err != nil {
		return CompanyRecordDTO{}, err
	}
	return CompanyRecordDTO{
		ID:        rec.ID,
		Company:   company,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// ResetDatabase clears all stored data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.clearPolicies()
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status code, logs it and writes the error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, fields...)
	} else {
		h.logger.Info(message, fields...)
	}

	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrDuplicateIdempotencyKey):
		return http.StatusConflict
	case errors.Is(err, generic.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// intParam parses an optional integer query parameter. Missing means 0.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &generic.FieldError{Field: name, Message: "must be a non-negative integer"}
	}
	return v, nil
}
