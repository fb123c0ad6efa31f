/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing (logged by handlers)
  2. RealIP:     Client address behind proxies
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the onboarding frontend

ROUTE GROUPS:
  /api/plans/*          Plan calculation and saved runs
  /api/benchmarks/*     Benchmark catalog
  /api/metrics/import   Job export upload
  /api/kpis             KPI catalog
  /api/policies/*       Policy management
  /api/companies/*      Saved company profiles
  /api/scenarios/*      Demo scenarios
  /api/reset            Database reset (dev only)
  /metrics              Prometheus scrape endpoint
  /healthz              Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAllowedOrigins is used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Plan routes
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Post("/", h.CalculatePlan)
			r.Post("/compare", h.ComparePlans)
			r.Get("/{id}", h.GetPlan)
		})

		// Benchmark routes
		r.Route("/benchmarks", func(r chi.Router) {
			r.Get("/", h.GetBenchmarks)
			r.Get("/industries", h.ListIndustries)
		})

		r.Post("/metrics/import", h.ImportMetrics)
		r.Get("/kpis", h.ListKPIs)

		// Policy routes
		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Post("/", h.CreatePolicy)
			r.Get("/{id}", h.GetPolicy)
			r.Delete("/{id}", h.DeletePolicy)
		})

		// Company routes
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Post("/", h.CreateCompany)
			r.Get("/{id}", h.GetCompany)
			r.Delete("/{id}", h.DeleteCompany)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
