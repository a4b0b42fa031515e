package service

import (
	"context"
	"errors"

	"loan-risk/apperrors"
	"loan-risk/domain"
	"loan-risk/logger"
	"loan-risk/metrics"
)

type Encoder interface {
	Encode(app domain.LoanApplication) (domain.FeatureVector, error)
}

type Predictor interface {
	Predict(ctx context.Context, v domain.FeatureVector) (domain.Prediction, error)
}

// EvaluationService runs one loan application through the encoder and the model.
type EvaluationService struct {
	encoder   Encoder
	predictor Predictor
	log       logger.Logger
}

func NewEvaluationService(encoder Encoder, predictor Predictor, log logger.Logger) *EvaluationService {
	return &EvaluationService{encoder: encoder, predictor: predictor, log: log}
}

// Evaluate encodes app and returns the model prediction.
func (s *EvaluationService) Evaluate(ctx context.Context, app domain.LoanApplication) (domain.Prediction, error) {
	vector, err := s.encoder.Encode(app)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeUnrecognizedCategory {
			field, _ := stdErr.Metadata["field"].(string)
			metrics.CategoryRejectionsTotal.WithLabelValues(field).Inc()
			s.log.Info("rejected application", map[string]interface{}{
				"field": field,
				"value": stdErr.Metadata["value"],
			})
		}
		return domain.Prediction{}, err
	}

	prediction, err := s.predictor.Predict(ctx, vector)
	if err != nil {
		s.log.Error("prediction failed", map[string]interface{}{"error": err.Error()})
		return domain.Prediction{}, err
	}

	s.log.Debug("application evaluated", map[string]interface{}{
		"score":  prediction.Score,
		"label":  prediction.Label,
		"cached": prediction.Cached,
	})
	return prediction, nil
}
