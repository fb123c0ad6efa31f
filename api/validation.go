package api

import (
	"errors"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/xeipuuv/gojsonschema"
)

// planRequestSchema is the structural contract for POST /api/plans and
// /api/plans/compare. Range checks on values happen in the plan package.
const planRequestSchema = `{
  "type": "object",
  "properties": {
    "company_id": {"type": "string"},
    "company": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "industry": {"type": "string"},
        "team_size": {"type": "integer", "minimum": 0},
        "technicians": {"type": "integer", "minimum": 0},
        "annual_revenue": {"type": ["number", "null"]},
        "staff_costs": {"type": ["number", "null"]},
        "avg_job_value": {"type": ["number", "null"]}
      }
    },
    "metrics": {
      "type": ["object", "null"],
      "properties": {
        "total_jobs": {"type": "integer", "minimum": 0},
        "top_performers": {
          "type": "object",
          "additionalProperties": {"type": "number"}
        },
        "avg_ticket": {"type": ["number", "null"]},
        "billable_efficiency": {"type": ["number", "null"]},
        "callback_rate": {"type": ["number", "null"]},
        "google_rating": {"type": ["number", "null"]},
        "monthly_overtime_spend": {"type": ["number", "null"]},
        "total_revenue": {"type": ["number", "null"]}
      }
    },
    "benchmarks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["display_name", "lower", "median", "upper"],
        "properties": {
          "display_name": {"type": "string", "minLength": 1},
          "lower": {"type": "number"},
          "median": {"type": "number"},
          "upper": {"type": "number"},
          "inverted": {"type": "boolean"}
        }
      }
    },
    "mode": {"type": "string"},
    "selected_kpis": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "reason": {"type": "string"}
        }
      }
    },
    "policy_id": {"type": "string"},
    "save": {"type": "boolean"},
    "idempotency_key": {"type": "string"}
  },
  "anyOf": [
    {"required": ["company"]},
    {"required": ["company_id"]}
  ]
}`

var planRequestValidator = mustSchema(planRequestSchema)

func mustSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic("api: invalid schema: " + err.Error())
	}
	return s
}

// validatePlanRequest checks a raw request body against the plan request
// schema. Every violation becomes a FieldError.
func validatePlanRequest(body []byte) error {
	result, err := planRequestValidator.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &generic.FieldError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]error, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = &generic.FieldError{Field: desc.Field(), Message: desc.Description()}
	}
	return errors.Join(errs...)
}
