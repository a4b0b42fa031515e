package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"loan-risk/apperrors"
	"loan-risk/domain"
	"loan-risk/inference"
	"loan-risk/logger"
	"loan-risk/metrics"
	"loan-risk/observability"
	"loan-risk/repository"
)

type InferenceOptions struct {
	Mode      domain.PredictionMode
	Threshold float64
}

// InferenceService holds the loaded artifacts. It is built once at startup
// and never mutated afterwards.
type InferenceService struct {
	model  *inference.Network
	scaler *inference.Scaler
	opts   InferenceOptions
	cache  repository.PredictionCache
	obs    *observability.Observability
	log    logger.Logger
}

// NewInferenceService loads the model and optional scaler once and checks
// that both accept a FeatureVector. cache and obs may be nil.
func NewInferenceService(
	ctx context.Context,
	artifacts repository.ArtifactRepository,
	opts InferenceOptions,
	cache repository.PredictionCache,
	obs *observability.Observability,
	log logger.Logger,
) (*InferenceService, error) {
	if opts.Mode == "" {
		opts.Mode = domain.ModeProbability
	}
	if opts.Mode != domain.ModeProbability && opts.Mode != domain.ModeLabel {
		return nil, fmt.Errorf("unknown prediction mode %q", opts.Mode)
	}
	if opts.Threshold == 0 {
		opts.Threshold = domain.DefaultThreshold
	}

	model, err := artifacts.LoadModel(ctx)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, apperrors.NewArtifactInvalidError(repository.ArtifactModel, "repository returned no model")
	}
	if model.InputDim() != domain.FeatureCount {
		return nil, apperrors.NewArtifactInvalidError(repository.ArtifactModel,
			fmt.Sprintf("input_dim %d, expected %d", model.InputDim(), domain.FeatureCount))
	}

	scaler, err := artifacts.LoadScaler(ctx)
	if err != nil {
		return nil, err
	}
	if scaler != nil && scaler.Width() != domain.FeatureCount {
		return nil, apperrors.NewArtifactInvalidError(repository.ArtifactScaler,
			fmt.Sprintf("width %d, expected %d", scaler.Width(), domain.FeatureCount))
	}

	log.Info("model loaded", map[string]interface{}{
		"model":       model.Name(),
		"fingerprint": model.Fingerprint(),
		"scaled":      scaler != nil,
		"mode":        string(opts.Mode),
		"threshold":   opts.Threshold,
	})

	return &InferenceService{
		model:  model,
		scaler: scaler,
		opts:   opts,
		cache:  cache,
		obs:    obs,
		log:    log,
	}, nil
}

func (s *InferenceService) Mode() domain.PredictionMode { return s.opts.Mode }
func (s *InferenceService) Threshold() float64          { return s.opts.Threshold }
func (s *InferenceService) ModelFingerprint() string    { return s.model.Fingerprint() }

// Predict scales v (when a scaler is loaded), runs the model and applies the
// configured output mode.
func (s *InferenceService) Predict(ctx context.Context, v domain.FeatureVector) (domain.Prediction, error) {
	key := s.cacheKey(v)
	if score, ok := s.cachedScore(ctx, key); ok {
		p := domain.NewPrediction(s.opts.Mode, score, s.opts.Threshold)
		p.Cached = true
		s.obs.RecordPrediction(ctx, p.Label, p.Score, true)
		return p, nil
	}

	start := time.Now()
	x := v.Slice()
	if s.scaler != nil {
		scaled, err := s.scaler.Transform(x)
		if err != nil {
			return domain.Prediction{}, apperrors.NewInferenceFailedError(err)
		}
		x = scaled
	}

	score, err := s.model.Forward(x)
	if err != nil {
		return domain.Prediction{}, apperrors.NewInferenceFailedError(err)
	}
	s.obs.RecordInferenceDuration(ctx, time.Since(start))

	s.storeScore(ctx, key, score)

	p := domain.NewPrediction(s.opts.Mode, score, s.opts.Threshold)
	s.obs.RecordPrediction(ctx, p.Label, p.Score, false)
	return p, nil
}

func (s *InferenceService) cachedScore(ctx context.Context, key string) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}

	var raw, level string
	if tiered, ok := s.cache.(repository.LevelReporter); ok {
		raw, level = tiered.Lookup(ctx, key)
	} else if val, hit := s.cache.Get(ctx, key); hit {
		raw, level = val, "hit"
	} else {
		level = repository.LevelMiss
	}
	metrics.CacheLookupsTotal.WithLabelValues(level).Inc()
	if level == repository.LevelMiss {
		return 0, false
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warn("discarding unreadable cached score", map[string]interface{}{"key": key, "error": err.Error()})
		return 0, false
	}
	return score, true
}

func (s *InferenceService) storeScore(ctx context.Context, key string, score float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, strconv.FormatFloat(score, 'g', -1, 64)); err != nil {
		metrics.CacheWriteFailuresTotal.Inc()
		s.log.Warn("failed to cache prediction", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// cacheKey hashes the exact bit pattern of v. The key also carries the model
// and scaler fingerprints, so changing either artifact never reads scores
// computed by the previous one.
func (s *InferenceService) cacheKey(v domain.FeatureVector) string {
	var buf [domain.FeatureCount * 8]byte
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return s.model.Fingerprint() + cacheKeySeparator +
		s.scalerFingerprint() + cacheKeySeparator +
		strconv.FormatUint(xxhash.Sum64(buf[:]), 16)
}

func (s *InferenceService) scalerFingerprint() string {
	if s.scaler == nil {
		return noScalerFingerprint
	}
	return s.scaler.Fingerprint()
}
