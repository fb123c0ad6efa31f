// Package app wires configuration into the service's collaborators. Both
// binaries start here so the server and the CLI resolve stores, benchmarks
// and policies the same way.
package app

import (
	"context"
	"os"

	"github.com/docal56/sharewillow-onboarding/api"
	"github.com/docal56/sharewillow-onboarding/benchmark"
	"github.com/docal56/sharewillow-onboarding/config"
	"github.com/docal56/sharewillow-onboarding/factory"
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/generic/store"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/docal56/sharewillow-onboarding/store/sqlite"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenStore opens SQLite at cfg.Path, or an in-memory store when the path
// is empty. The returned func releases it.
func OpenStore(cfg config.StoreConfig) (generic.Store, func() error, error) {
	if cfg.Path == "" {
		return store.NewMemory(), func() error { return nil }, nil
	}
	s, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "open store %s", cfg.Path)
	}
	return s, s.Close, nil
}

// LoadCatalog reads the configured benchmark CSV, or the embedded one.
func LoadCatalog(cfg config.BenchmarksConfig) (*benchmark.Catalog, error) {
	if cfg.CSVPath == "" {
		return benchmark.Default(), nil
	}
	data, err := os.ReadFile(cfg.CSVPath)
	if err != nil {
		return nil, eris.Wrap(err, "read benchmark csv")
	}
	c, err := benchmark.FromText(string(data))
	if err != nil {
		return nil, eris.Wrapf(err, "parse benchmark csv %s", cfg.CSVPath)
	}
	return c, nil
}

// DefaultPolicy loads the policy file when one is configured, otherwise
// the named preset.
func DefaultPolicy(cfg config.PolicyConfig) (plan.Policy, error) {
	if cfg.Path != "" {
		p, err := factory.NewPolicyFactory().LoadFile(cfg.Path)
		if err != nil {
			return plan.Policy{}, err
		}
		return *p, nil
	}
	name := cfg.Default
	if name == "" {
		name = "standard"
	}
	p, ok := plan.Presets()[name]
	if !ok {
		return plan.Policy{}, eris.Wrapf(generic.ErrPolicyNotFound, "preset %q", name)
	}
	return p, nil
}

// NewHandler builds a ready API handler. The returned func closes the store.
func NewHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*api.Handler, func() error, error) {
	catalog, err := LoadCatalog(cfg.Benchmarks)
	if err != nil {
		return nil, nil, err
	}
	policy, err := DefaultPolicy(cfg.Policy)
	if err != nil {
		return nil, nil, err
	}
	s, closeStore, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	h := api.NewHandler(s, catalog, logger)
	h.SetDefaultPolicy(policy)
	if err := h.LoadPolicies(ctx); err != nil {
		logger.Warn("failed to load stored policies", zap.Error(err))
	}

	logger.Info("service wired",
		zap.String("store", storeName(cfg.Store)),
		zap.Strings("industries", catalog.Industries()),
		zap.String("default_policy", policy.ID),
	)
	return h, closeStore, nil
}

func storeName(cfg config.StoreConfig) string {
	if cfg.Path == "" {
		return "memory"
	}
	return cfg.Path
}
