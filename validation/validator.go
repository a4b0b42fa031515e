// Package validation checks evaluation requests against the loan application
// JSON schema before they are decoded.
package validation

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"loan-risk/apperrors"
)

//go:embed schemas/loan_application.json
var loanApplicationSchema []byte

const rootField = "(root)"

// Violation types, FastAPI naming.
const (
	TypeMissing    = "value_error.missing"
	TypeJSONDecode = "value_error.jsondecode"
	TypeType       = "type_error"
)

type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles the embedded loan application schema.
func New() (*Validator, error) {
	return newWithSchema(loanApplicationSchema)
}

// newWithSchema compiles a caller supplied schema.
func newWithSchema(schema []byte) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate returns nil for a conforming body and a SCHEMA_VALIDATION_FAILED
// StandardError otherwise. Unparseable JSON is reported the same way.
func (v *Validator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.NewSchemaValidationError([]apperrors.FieldViolation{{
			Message: "Invalid JSON",
			Type:    TypeJSONDecode,
		}})
	}
	if result.Valid() {
		return nil
	}
	return apperrors.NewSchemaValidationError(violations(result.Errors()))
}

func violations(errs []gojsonschema.ResultError) []apperrors.FieldViolation {
	out := make([]apperrors.FieldViolation, 0, len(errs))
	for _, desc := range errs {
		field := desc.Field()
		if field == rootField {
			field = ""
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out = append(out, apperrors.FieldViolation{
			Field:   field,
			Message: message(desc),
			Type:    violationType(desc.Type()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func message(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		return "field required"
	}
	return desc.Description()
}

func violationType(t string) string {
	switch t {
	case "required":
		return TypeMissing
	case "invalid_type":
		return TypeType
	default:
		return "value_error." + t
	}
}

// Violations extracts the field violations carried by a schema error.
func Violations(err error) []apperrors.FieldViolation {
	stdErr := apperrors.Normalize(err)
	if stdErr == nil || stdErr.Code != apperrors.ErrCodeSchemaValidationFailed {
		return nil
	}
	v, _ := stdErr.Metadata["violations"].([]apperrors.FieldViolation)
	return v
}
