/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (plan runs, companies, policies) using SQLite.
  The same schema works on PostgreSQL with minor dialect changes.

KEY TABLES:
  plan_runs:  Recorded calculations, request and result as JSON
  companies:  Saved company profiles
  policies:   Policy documents (versioned)

APPEND-ONLY ENFORCEMENT:
  plan_runs has no UPDATE or DELETE path. A recalculation is a new row.
  idempotency_key is UNIQUE so a retried save cannot double-record.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows one writer at a time
  regardless; the mutex keeps :memory: databases on a single connection
  consistent.

USAGE:
  store, err := sqlite.New("./data/plans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, eris.Wrap(err, "failed to open database")
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to migrate database")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Plan runs (append-only)
	CREATE TABLE IF NOT EXISTS plan_runs (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		policy_id TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL,
		converged BOOLEAN NOT NULL DEFAULT FALSE,
		iterations INTEGER NOT NULL DEFAULT 0,
		request_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		idempotency_key TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plan_runs_company
		ON plan_runs(company_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_plan_runs_created
		ON plan_runs(created_at DESC);

	-- Companies
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		industry TEXT NOT NULL DEFAULT '',
		team_size INTEGER NOT NULL DEFAULT 0,
		profile_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Policies
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLAN RUN STORE (append-only)
// =============================================================================

const planRunColumns = `id, company_id, policy_id, mode, converged, iterations,
	request_json, result_json, idempotency_key, created_at`

// SavePlanRun records a run.
func (s *Store) SavePlanRun(ctx context.Context, run generic.PlanRun) (generic.PlanRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO plan_runs (` + planRunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.CompanyID, run.PolicyID, run.Mode, run.Converged, run.Iterations,
		run.RequestJSON, run.ResultJSON, nullString(run.IdempotencyKey),
		formatTime(run.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) && strings.Contains(err.Error(), "idempotency_key") {
			return generic.PlanRun{}, generic.ErrDuplicateIdempotencyKey
		}
		return generic.PlanRun{}, eris.Wrap(err, "failed to save plan run")
	}
	return run, nil
}

// GetPlanRun retrieves a run by ID.
func (s *Store) GetPlanRun(ctx context.Context, id string) (*generic.PlanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planRunColumns+` FROM plan_runs WHERE id = ?`, id)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query plan run")
	}
	runs, err := scanPlanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, generic.ErrPlanNotFound
	}
	return &runs[0], nil
}

// ListPlanRuns returns the newest runs first.
func (s *Store) ListPlanRuns(ctx context.Context, limit int) ([]generic.PlanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + planRunColumns + ` FROM plan_runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query plan runs")
	}
	return scanPlanRuns(rows)
}

// ListPlanRunsByCompany returns a company's runs, newest first.
func (s *Store) ListPlanRunsByCompany(ctx context.Context, companyID string) ([]generic.PlanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planRunColumns+` FROM plan_runs WHERE company_id = ? ORDER BY created_at DESC, rowid DESC`,
		companyID)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query plan runs")
	}
	return scanPlanRuns(rows)
}

func scanPlanRuns(rows *sql.Rows) ([]generic.PlanRun, error) {
	defer rows.Close()

	var runs []generic.PlanRun
	for rows.Next() {
		var r generic.PlanRun
		var idempotencyKey sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.PolicyID, &r.Mode, &r.Converged, &r.Iterations,
			&r.RequestJSON, &r.ResultJSON, &idempotencyKey, &createdAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan plan run")
		}
		r.IdempotencyKey = idempotencyKey.String
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// COMPANY STORE
// =============================================================================

// SaveCompany upserts a company profile.
func (s *Store) SaveCompany(ctx context.Context, c generic.CompanyRecord) (generic.CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO companies (id, name, industry, team_size, profile_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			team_size = excluded.team_size,
			profile_json = excluded.profile_json,
			updated_at = excluded.updated_at
	`

	now := formatTime(time.Now().UTC())
	if _, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Industry, c.TeamSize, c.ProfileJSON, now, now,
	); err != nil {
		return generic.CompanyRecord{}, eris.Wrap(err, "failed to save company")
	}

	saved, err := s.getCompany(ctx, c.ID)
	if err != nil {
		return generic.CompanyRecord{}, err
	}
	return *saved, nil
}

// GetCompany retrieves a company by ID.
func (s *Store) GetCompany(ctx context.Context, id string) (*generic.CompanyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getCompany(ctx, id)
}

func (s *Store) getCompany(ctx context.Context, id string) (*generic.CompanyRecord, error) {
	var c generic.CompanyRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, industry, team_size, profile_json, created_at, updated_at FROM companies WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.TeamSize, &c.ProfileJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, generic.ErrCompanyNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to get company")
	}

	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

// ListCompanies returns all companies by name.
func (s *Store) ListCompanies(ctx context.Context) ([]generic.CompanyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, industry, team_size, profile_json, created_at, updated_at FROM companies ORDER BY name",
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list companies")
	}
	defer rows.Close()

	var companies []generic.CompanyRecord
	for rows.Next() {
		var c generic.CompanyRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.TeamSize, &c.ProfileJSON, &createdAt, &updatedAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan company")
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// DeleteCompany removes a company. Its plan runs are kept.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	return err
}

// =============================================================================
// POLICY STORE
// =============================================================================

// SavePolicy upserts a policy record. Re-saving an ID bumps its version.
func (s *Store) SavePolicy(ctx context.Context, p generic.PolicyRecord) (generic.PolicyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO policies (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = policies.version + 1,
			updated_at = excluded.updated_at
	`

	if p.Version <= 0 {
		p.Version = 1
	}
	now := formatTime(time.Now().UTC())
	if _, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.ConfigJSON, p.Version, now, now,
	); err != nil {
		return generic.PolicyRecord{}, eris.Wrap(err, "failed to save policy")
	}

	saved, err := s.getPolicy(ctx, p.ID)
	if err != nil {
		return generic.PolicyRecord{}, err
	}
	return *saved, nil
}

// GetPolicy retrieves a policy by ID.
func (s *Store) GetPolicy(ctx context.Context, id string) (*generic.PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getPolicy(ctx, id)
}

func (s *Store) getPolicy(ctx context.Context, id string) (*generic.PolicyRecord, error) {
	var p generic.PolicyRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM policies WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.ConfigJSON, &p.Version, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, generic.ErrPolicyNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to get policy")
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// ListPolicies returns all policies by name.
func (s *Store) ListPolicies(ctx context.Context) ([]generic.PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM policies ORDER BY name",
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list policies")
	}
	defer rows.Close()

	var policies []generic.PolicyRecord
	for rows.Next() {
		var p generic.PolicyRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.ConfigJSON, &p.Version, &createdAt, &updatedAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan policy")
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// DeletePolicy removes a policy.
func (s *Store) DeletePolicy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM policies WHERE id = ?", id)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"plan_runs", "companies", "policies"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "failed to clear %s", table)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
