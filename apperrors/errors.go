// Package apperrors provides the standardized error type shared by the
// service and HTTP layers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeUnrecognizedCategory   ErrorCode = "UNRECOGNIZED_CATEGORY"
	ErrCodeArtifactLoadFailed     ErrorCode = "ARTIFACT_LOAD_FAILED"
	ErrCodeArtifactInvalid        ErrorCode = "ARTIFACT_INVALID"
	ErrCodeInferenceFailed        ErrorCode = "INFERENCE_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// ErrUnrecognizedCategory is matched with errors.Is by callers that only care
// about the category rejection, not the field.
var ErrUnrecognizedCategory = errors.New("unrecognized category")

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewSchemaValidationError creates a non-retryable request validation error.
// Each violation is kept in Metadata under "violations".
func NewSchemaValidationError(violations []FieldViolation) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   "Request body does not match the loan application schema",
		Details:   fmt.Sprintf("%d violation(s)", len(violations)),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnrecognizedCategoryError creates a non-retryable error for a categorical
// value outside the enumerated set.
func NewUnrecognizedCategoryError(field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnrecognizedCategory,
		Message:   "unrecognized category",
		Details:   fmt.Sprintf("%s: %q", field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "value": value},
		Timestamp: time.Now().UTC(),
		cause:     ErrUnrecognizedCategory,
	}
}

// NewArtifactLoadFailedError wraps a failure to locate or read an artifact.
func NewArtifactLoadFailedError(artifact string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactLoadFailed,
		Message:   "Failed to load artifact",
		Details:   fmt.Sprintf("artifact: %s, error: %v", artifact, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"artifact": artifact},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewArtifactInvalidError reports an artifact that was read but is not usable.
func NewArtifactInvalidError(artifact, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactInvalid,
		Message:   "Artifact is invalid",
		Details:   fmt.Sprintf("artifact: %s, %s", artifact, details),
		Retryable: false,
		Metadata:  map[string]interface{}{"artifact": artifact},
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceFailedError wraps a failure during the forward pass.
func NewInferenceFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceFailed,
		Message:   "Inference failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSchemaValidationFailed, ErrCodeUnrecognizedCategory:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// FieldViolation describes one schema violation of the request body.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
