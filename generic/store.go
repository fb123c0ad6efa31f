/*
store.go - Persistence interface for plan runs and related data

PURPOSE:
  Defines the interface between the service layer and the database.
  The engine itself never touches storage; the API records what it asked
  and what it got back so a plan can be reviewed later.

KEY INTERFACES:
  PlanRunStore: Recorded plan calculations (append-only)
  CompanyStore: Saved company profiles
  PolicyStore:  Saved plan policy documents (versioned)
  Store:        All of the above plus Reset

APPEND-ONLY CONTRACT:
  Plan runs are history. There is no Update or Delete for them; a new
  calculation is a new run. An IdempotencyKey, when set, makes a retried
  save return ErrDuplicateIdempotencyKey instead of a second row.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing and demos

SEE ALSO:
  - api/handlers.go: Where runs are recorded
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// CompanyRecord is a saved company profile. ProfileJSON holds the full
// request-shaped profile; the other columns are for listing.
type CompanyRecord struct {
	ID          string
	Name        string
	Industry    string
	TeamSize    int
	ProfileJSON string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PolicyRecord is a stored policy document. Version increments on every
// save of the same ID.
type PolicyRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlanRun is one recorded plan calculation.
type PlanRun struct {
	ID             string
	CompanyID      string
	PolicyID       string
	Mode           string
	Converged      bool
	Iterations     int
	RequestJSON    string
	ResultJSON     string
	IdempotencyKey string
	CreatedAt      time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// PlanRunStore records plan runs. APPEND-ONLY.
type PlanRunStore interface {
	// SavePlanRun records a run. An empty ID is assigned.
	SavePlanRun(ctx context.Context, run PlanRun) (PlanRun, error)

	// GetPlanRun returns ErrPlanNotFound for unknown IDs.
	GetPlanRun(ctx context.Context, id string) (*PlanRun, error)

	// ListPlanRuns returns the newest runs first. limit <= 0 means all.
	ListPlanRuns(ctx context.Context, limit int) ([]PlanRun, error)

	// ListPlanRunsByCompany returns a company's runs, newest first.
	ListPlanRunsByCompany(ctx context.Context, companyID string) ([]PlanRun, error)
}

// CompanyStore manages saved company profiles.
type CompanyStore interface {
	// SaveCompany upserts by ID. An empty ID is assigned.
	SaveCompany(ctx context.Context, c CompanyRecord) (CompanyRecord, error)
	GetCompany(ctx context.Context, id string) (*CompanyRecord, error)
	ListCompanies(ctx context.Context) ([]CompanyRecord, error)
	DeleteCompany(ctx context.Context, id string) error
}

// PolicyStore manages stored policy documents.
type PolicyStore interface {
	// SavePolicy upserts by ID and returns the stored version.
	SavePolicy(ctx context.Context, p PolicyRecord) (PolicyRecord, error)
	GetPolicy(ctx context.Context, id string) (*PolicyRecord, error)
	ListPolicies(ctx context.Context) ([]PolicyRecord, error)
	DeletePolicy(ctx context.Context, id string) error
}

// Store is everything the service persists.
type Store interface {
	PlanRunStore
	CompanyStore
	PolicyStore

	// Reset clears all data (demos and tests).
	Reset(ctx context.Context) error
}
