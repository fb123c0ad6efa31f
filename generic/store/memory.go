// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/google/uuid"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	runs        []generic.PlanRun
	idempotency map[string]bool
	companies   map[string]generic.CompanyRecord
	policies    map[string]generic.PolicyRecord
	now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		idempotency: make(map[string]bool),
		companies:   make(map[string]generic.CompanyRecord),
		policies:    make(map[string]generic.PolicyRecord),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ generic.Store = (*Memory)(nil)

// =============================================================================
// PLAN RUNS (append-only)
// =============================================================================

// SavePlanRun appends a run.
func (m *Memory) SavePlanRun(_ context.Context, run generic.PlanRun) (generic.PlanRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.IdempotencyKey != "" && m.idempotency[run.IdempotencyKey] {
		return generic.PlanRun{}, generic.ErrDuplicateIdempotencyKey
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = m.now()
	}

	// Keep runs sorted oldest first so listing is a reverse walk.
	i := sort.Search(len(m.runs), func(i int) bool {
		return m.runs[i].CreatedAt.After(run.CreatedAt)
	})
	m.runs = append(m.runs, generic.PlanRun{})
	copy(m.runs[i+1:], m.runs[i:])
	m.runs[i] = run

	if run.IdempotencyKey != "" {
		m.idempotency[run.IdempotencyKey] = true
	}
	return run, nil
}

func (m *Memory) GetPlanRun(_ context.Context, id string) (*generic.PlanRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.runs {
		if r.ID == id {
			run := r
			return &run, nil
		}
	}
	return nil, generic.ErrPlanNotFound
}

func (m *Memory) ListPlanRuns(_ context.Context, limit int) ([]generic.PlanRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.newestFirst(limit, func(generic.PlanRun) bool { return true }), nil
}

func (m *Memory) ListPlanRunsByCompany(_ context.Context, companyID string) ([]generic.PlanRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.newestFirst(0, func(r generic.PlanRun) bool { return r.CompanyID == companyID }), nil
}

func (m *Memory) newestFirst(limit int, keep func(generic.PlanRun) bool) []generic.PlanRun {
	var result []generic.PlanRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if !keep(m.runs[i]) {
			continue
		}
		result = append(result, m.runs[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

// =============================================================================
// COMPANIES
// =============================================================================

func (m *Memory) SaveCompany(_ context.Context, c generic.CompanyRecord) (generic.CompanyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if existing, ok := m.companies[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	m.companies[c.ID] = c
	return c, nil
}

func (m *Memory) GetCompany(_ context.Context, id string) (*generic.CompanyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.companies[id]
	if !ok {
		return nil, generic.ErrCompanyNotFound
	}
	return &c, nil
}

func (m *Memory) ListCompanies(_ context.Context) ([]generic.CompanyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.CompanyRecord, 0, len(m.companies))
	for _, c := range m.companies {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeleteCompany(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.companies, id)
	return nil
}

// =============================================================================
// POLICIES
// =============================================================================

func (m *Memory) SavePolicy(_ context.Context, p generic.PolicyRecord) (generic.PolicyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.policies[p.ID]; ok {
		p.Version = existing.Version + 1
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.Version <= 0 {
			p.Version = 1
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.policies[p.ID] = p
	return p, nil
}

func (m *Memory) GetPolicy(_ context.Context, id string) (*generic.PolicyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.policies[id]
	if !ok {
		return nil, generic.ErrPolicyNotFound
	}
	return &p, nil
}

func (m *Memory) ListPolicies(_ context.Context) ([]generic.PolicyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.PolicyRecord, 0, len(m.policies))
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeletePolicy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.policies, id)
	return nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs = nil
	m.idempotency = make(map[string]bool)
	m.companies = make(map[string]generic.CompanyRecord)
	m.policies = make(map[string]generic.PolicyRecord)
	return nil
}
