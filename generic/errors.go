/*
errors.go - Centralized error types for the plan engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages should wrap these errors with additional context.

ERROR CATEGORIES:
  1. Data errors - Not enough calculable metrics to build a plan
  2. Validation errors - Malformed input rejected at the boundary
  3. Lookup errors - Missing policies, plans, metrics

WHAT IS NOT AN ERROR:
  - A metric without data or without a benchmark is simply ineligible
  - A plan that never reaches the profitability target is returned as-is
    with Converged=false

USAGE:
  if errors.Is(err, generic.ErrInsufficientData) {
      // respond 422
  }

SEE ALSO:
  - plan/engine.go: Produces InsufficientDataError on request
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientData is returned when too few metrics have both a
	// current value and a benchmark to build a plan.
	ErrInsufficientData = errors.New("not enough calculable data")

	// ErrInvalidInput is returned when a request fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPolicy is returned when a plan policy has impossible settings.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrPolicyNotFound is returned when a referenced policy doesn't exist.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrPlanNotFound is returned when a stored plan run doesn't exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrCompanyNotFound is returned when a stored company doesn't exist.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrUnknownMetric is returned when a metric name is not registered.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrDuplicateIdempotencyKey is returned when a plan run with the same
	// idempotency key was already recorded.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientDataError reports how many metrics could be calculated.
type InsufficientDataError struct {
	Eligible int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough calculable data: %d of %d KPIs available",
		e.Eligible, e.Required)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// PolicyError describes one rejected policy setting.
type PolicyError struct {
	Setting string
	Reason  string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid policy setting %s: %s", e.Setting, e.Reason)
}

func (e *PolicyError) Unwrap() error {
	return ErrInvalidPolicy
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrUnknownMetric)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrCompanyNotFound)
}
