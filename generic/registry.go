/*
registry.go - Metric registration and lookup

PURPOSE:
  Domain packages register the metrics they know how to plan against.
  Outer layers (factory, API, CLI) list and validate metric names through
  the registry without importing domain internals.

HOW IT WORKS:
  1. A domain package describes each metric with a MetricDef
  2. It registers them from init(), in eligibility order
  3. Lookups by name return the definition; List keeps registration order

USAGE:
  // In plan/catalog.go
  func init() {
      generic.RegisterMetric(generic.MetricDef{Name: "Labor Rate", ...})
  }

  def, ok := generic.LookupMetric("Labor Rate")

SEE ALSO:
  - plan/catalog.go: The KPI definitions
  - api/handlers.go: GET /api/kpis
*/
package generic

import (
	"fmt"
	"sync"
)

// MetricDef describes one plannable metric.
type MetricDef struct {
	Name        string
	Domain      string
	Unit        Unit
	Direction   Direction
	Description string
}

// =============================================================================
// METRIC REGISTRY
// =============================================================================

var (
	metricRegistry = make(map[string]MetricDef)
	metricOrder    []string
	registryMu     sync.RWMutex
)

// RegisterMetric adds a metric to the global registry.
// Re-registering a name replaces the definition but keeps its position.
func RegisterMetric(m MetricDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := metricRegistry[m.Name]; !exists {
		metricOrder = append(metricOrder, m.Name)
	}
	metricRegistry[m.Name] = m
}

// LookupMetric finds a registered metric by name.
func LookupMetric(name string) (MetricDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := metricRegistry[name]
	return m, ok
}

// RequireMetric finds a registered metric or returns ErrUnknownMetric.
func RequireMetric(name string) (MetricDef, error) {
	m, ok := LookupMetric(name)
	if !ok {
		return MetricDef{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// ListMetrics returns registered metrics in registration order.
func ListMetrics() []MetricDef {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]MetricDef, 0, len(metricOrder))
	for _, name := range metricOrder {
		result = append(result, metricRegistry[name])
	}
	return result
}

// ListMetricsByDomain returns metrics for a specific domain.
func ListMetricsByDomain(domain string) []MetricDef {
	var result []MetricDef
	for _, m := range ListMetrics() {
		if m.Domain == domain {
			result = append(result, m)
		}
	}
	return result
}
