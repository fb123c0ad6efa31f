package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docal56/sharewillow-onboarding/config"
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/generic/store"
	"github.com/docal56/sharewillow-onboarding/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenStore(t *testing.T) {
	s, closeFn, err := OpenStore(config.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)
	assert.NoError(t, closeFn())

	s, closeFn, err = OpenStore(config.StoreConfig{Path: filepath.Join(t.TempDir(), "plans.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, s)
	assert.NoError(t, closeFn())
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(config.BenchmarksConfig{})
	require.NoError(t, err)
	assert.Contains(t, c.Industries(), "HVAC")

	path := filepath.Join(t.TempDir(), "bench.csv")
	csv := "industry,team_size_band,metric,lower,median,upper\nSolar,5-10,avgJobValue,900,1200,1800\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	c, err = LoadCatalog(config.BenchmarksConfig{CSVPath: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"Solar"}, c.Industries())

	_, err = LoadCatalog(config.BenchmarksConfig{CSVPath: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}

func TestDefaultPolicy(t *testing.T) {
	p, err := DefaultPolicy(config.PolicyConfig{})
	require.NoError(t, err)
	assert.Equal(t, "standard", p.ID)

	p, err = DefaultPolicy(config.PolicyConfig{Default: "conservative"})
	require.NoError(t, err)
	assert.Equal(t, "conservative", p.ID)

	_, err = DefaultPolicy(config.PolicyConfig{Default: "reckless"})
	assert.ErrorIs(t, err, generic.ErrPolicyNotFound)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: winter\nmax_iterations: 4\n"), 0o644))
	p, err = DefaultPolicy(config.PolicyConfig{Default: "standard", Path: path})
	require.NoError(t, err)
	assert.Equal(t, "winter", p.ID)
	assert.Equal(t, 4, p.MaxIterations)
}

func TestNewHandler(t *testing.T) {
	cfg := &config.Config{Policy: config.PolicyConfig{Default: "conservative"}}

	h, closeFn, err := NewHandler(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { closeFn() })

	assert.NotNil(t, h.Catalog)
	assert.IsType(t, &store.Memory{}, h.Store)
}
