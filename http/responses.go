package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"loan-risk/apperrors"
	"loan-risk/validation"
)

// ValidationDetail is one entry of a 422 response, FastAPI style.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

const typeUnrecognizedCategory = "value_error.unrecognized_category"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps err to the API error contract. Anything that is not a
// client error is reported as a bare 500.
func writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	switch stdErr.Code {
	case apperrors.ErrCodeSchemaValidationFailed:
		writeJSON(w, status, validationResponse{Detail: violationDetails(validation.Violations(stdErr))})
	case apperrors.ErrCodeUnrecognizedCategory:
		field, _ := stdErr.Metadata["field"].(string)
		value, _ := stdErr.Metadata["value"].(string)
		writeJSON(w, status, validationResponse{Detail: []ValidationDetail{{
			Loc:  []string{"body", field},
			Msg:  fmt.Sprintf("unrecognized category %q", value),
			Type: typeUnrecognizedCategory,
		}}})
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func violationDetails(violations []apperrors.FieldViolation) []ValidationDetail {
	out := make([]ValidationDetail, 0, len(violations))
	for _, v := range violations {
		loc := []string{"body"}
		if v.Field != "" {
			loc = append(loc, v.Field)
		}
		out = append(out, ValidationDetail{Loc: loc, Msg: v.Message, Type: v.Type})
	}
	return out
}
