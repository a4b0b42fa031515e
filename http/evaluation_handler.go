package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"loan-risk/apperrors"
	"loan-risk/domain"
	"loan-risk/logger"
)

// SuccessMessage is returned with every successful evaluation.
const SuccessMessage = "Solicitud recibida con éxito"

type Evaluator interface {
	Evaluate(ctx context.Context, app domain.LoanApplication) (domain.Prediction, error)
}

type RequestValidator interface {
	Validate(body []byte) error
}

type EvaluationResponse struct {
	Message    string      `json:"message"`
	Prediction interface{} `json:"prediction"`
}

type EvaluationHandler struct {
	evaluator Evaluator
	validator RequestValidator
	log       logger.Logger
}

func NewEvaluationHandler(evaluator Evaluator, validator RequestValidator, log logger.Logger) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator, validator: validator, log: log}
}

func (h *EvaluationHandler) EvaluateSituation(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, apperrors.NewSchemaValidationError([]apperrors.FieldViolation{{
			Message: "could not read request body",
			Type:    "value_error",
		}}))
		return
	}

	// Validar entrada contra el esquema antes de decodificar
	if err := h.validator.Validate(body); err != nil {
		writeError(w, err)
		return
	}

	var app domain.LoanApplication
	if err := json.Unmarshal(body, &app); err != nil {
		writeError(w, apperrors.NewSchemaValidationError([]apperrors.FieldViolation{{
			Message: err.Error(),
			Type:    "value_error",
		}}))
		return
	}

	prediction, err := h.evaluator.Evaluate(r.Context(), app)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		if apperrors.HTTPStatus(stdErr.Code) >= http.StatusInternalServerError {
			h.log.Error("evaluation failed", map[string]interface{}{
				"request_id": RequestIDFrom(r.Context()),
				"code":       string(stdErr.Code),
				"error":      stdErr.Error(),
			})
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EvaluationResponse{
		Message:    SuccessMessage,
		Prediction: prediction.WireValue(),
	})
}
