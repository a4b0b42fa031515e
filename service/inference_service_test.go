package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"loan-risk/apperrors"
	"loan-risk/domain"
	"loan-risk/inference"
	"loan-risk/logger"
	"loan-risk/observability"
	"loan-risk/repository"
)

func newTestInferenceService(t *testing.T, opts InferenceOptions, scaler *inference.Scaler, cache repository.PredictionCache) *InferenceService {
	t.Helper()
	repo := repository.NewArtifactRepositoryMemory(newTestNetwork(t, domain.FeatureCount), scaler)
	svc, err := NewInferenceService(context.Background(), repo, opts, cache, observability.NewNoop(), logger.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func encodedSample(t *testing.T) domain.FeatureVector {
	t.Helper()
	v, err := NewFeatureEncoder(PolicyReject).Encode(sampleApplication())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func expectedScore(x []float64) float64 {
	sum := -1.0
	for i, w := range testWeights() {
		sum += w * x[i]
	}
	return 1 / (1 + math.Exp(-sum))
}

func TestNewInferenceService_Defaults(t *testing.T) {
	svc := newTestInferenceService(t, InferenceOptions{}, nil, nil)

	if svc.Mode() != domain.ModeProbability {
		t.Errorf("expected probability mode, got %s", svc.Mode())
	}
	if svc.Threshold() != domain.DefaultThreshold {
		t.Errorf("expected threshold %v, got %v", domain.DefaultThreshold, svc.Threshold())
	}
	if svc.ModelFingerprint() == "" {
		t.Errorf("expected model fingerprint")
	}
}

func TestNewInferenceService_RejectsWrongModelWidth(t *testing.T) {
	repo := repository.NewArtifactRepositoryMemory(newTestNetwork(t, 18), nil)

	_, err := NewInferenceService(context.Background(), repo, InferenceOptions{}, nil, nil, logger.NewNoOpLogger())
	if !apperrors.IsCode(err, apperrors.ErrCodeArtifactInvalid) {
		t.Fatalf("expected ARTIFACT_INVALID, got %v", err)
	}
}

func TestNewInferenceService_RejectsWrongScalerWidth(t *testing.T) {
	scaler, err := inference.NewStandardScaler([]float64{0, 0}, []float64{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo := repository.NewArtifactRepositoryMemory(newTestNetwork(t, domain.FeatureCount), scaler)

	_, err = NewInferenceService(context.Background(), repo, InferenceOptions{}, nil, nil, logger.NewNoOpLogger())
	if !apperrors.IsCode(err, apperrors.ErrCodeArtifactInvalid) {
		t.Fatalf("expected ARTIFACT_INVALID, got %v", err)
	}
}

func TestNewInferenceService_LoadFailure(t *testing.T) {
	loadErr := apperrors.NewArtifactLoadFailedError("model", errors.New("no such file"))
	repo := repository.NewFailingArtifactRepository(loadErr)

	_, err := NewInferenceService(context.Background(), repo, InferenceOptions{}, nil, nil, logger.NewNoOpLogger())
	if !apperrors.IsCode(err, apperrors.ErrCodeArtifactLoadFailed) {
		t.Fatalf("expected ARTIFACT_LOAD_FAILED, got %v", err)
	}
}

func TestNewInferenceService_UnknownMode(t *testing.T) {
	repo := repository.NewArtifactRepositoryMemory(newTestNetwork(t, domain.FeatureCount), nil)

	_, err := NewInferenceService(context.Background(), repo, InferenceOptions{Mode: "logits"}, nil, nil, logger.NewNoOpLogger())
	if err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestPredict_Probability(t *testing.T) {
	svc := newTestInferenceService(t, InferenceOptions{Mode: domain.ModeProbability}, nil, nil)
	v := encodedSample(t)

	p, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := expectedScore(v.Slice())
	if math.Abs(p.Score-want) > 1e-12 {
		t.Errorf("expected score %v, got %v", want, p.Score)
	}
	if p.Mode != domain.ModeProbability || p.Cached {
		t.Errorf("unexpected prediction %+v", p)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	svc := newTestInferenceService(t, InferenceOptions{}, nil, nil)
	v := encodedSample(t)

	first, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := svc.Predict(context.Background(), v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("call %d: expected %+v, got %+v", i, first, again)
		}
	}
}

func TestPredict_LabelMode(t *testing.T) {
	svc := newTestInferenceService(t, InferenceOptions{Mode: domain.ModeLabel}, nil, nil)

	// the test network scores sigmoid(0.01*v[0] - 1) on an otherwise empty vector
	tests := []struct {
		age   float64
		label int
	}{
		{age: 0, label: 0},
		{age: 100, label: 0}, // exactly 0.5
		{age: 200, label: 1},
	}
	for _, tt := range tests {
		var v domain.FeatureVector
		v[0] = tt.age

		p, err := svc.Predict(context.Background(), v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Label != tt.label {
			t.Errorf("age %v: expected label %d, got %d (score %v)", tt.age, tt.label, p.Label, p.Score)
		}
		if p.WireValue() != p.Label {
			t.Errorf("label mode must put the label on the wire")
		}
	}

	strict := newTestInferenceService(t, InferenceOptions{Mode: domain.ModeLabel, Threshold: 0.9}, nil, nil)
	var v domain.FeatureVector
	v[0] = 200
	p, err := strict.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label != 0 {
		t.Errorf("expected label 0 under threshold 0.9, got %d (score %v)", p.Label, p.Score)
	}
}

func TestPredict_AppliesScaler(t *testing.T) {
	center := make([]float64, domain.FeatureCount)
	scale := make([]float64, domain.FeatureCount)
	for i := range center {
		center[i] = 1
		scale[i] = 10
	}
	scaler, err := inference.NewStandardScaler(center, scale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := newTestInferenceService(t, InferenceOptions{}, scaler, nil)
	var v domain.FeatureVector
	for i := range v {
		v[i] = float64(i) / 10
	}

	p, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scaled, _ := scaler.Transform(v.Slice())
	want := expectedScore(scaled)
	if math.Abs(p.Score-want) > 1e-12 {
		t.Errorf("expected scaled score %v, got %v", want, p.Score)
	}
}

func TestPredict_UsesCache(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestInferenceService(t, InferenceOptions{}, nil, cache)
	v := encodedSample(t)

	first, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached || cache.Sets != 1 {
		t.Fatalf("expected a miss followed by one write, got cached=%v sets=%d", first.Cached, cache.Sets)
	}

	second, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Errorf("expected cache hit")
	}
	if second.Score != first.Score || second.Label != first.Label {
		t.Errorf("cached prediction differs: %+v vs %+v", second, first)
	}

	other := v
	other[0]++
	third, _ := svc.Predict(context.Background(), other)
	if third.Cached {
		t.Errorf("a different vector must not hit the cache")
	}
}

func uniformScaler(t *testing.T, scale float64) *inference.Scaler {
	t.Helper()
	center := make([]float64, domain.FeatureCount)
	scales := make([]float64, domain.FeatureCount)
	for i := range scales {
		scales[i] = scale
	}
	scaler, err := inference.NewStandardScaler(center, scales)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return scaler
}

func TestPredict_SharedCacheAcrossScalerChange(t *testing.T) {
	cache := repository.NewMockCache()
	v := encodedSample(t)

	unscaled := newTestInferenceService(t, InferenceOptions{}, nil, cache)
	before := newTestInferenceService(t, InferenceOptions{}, uniformScaler(t, 1), cache)
	after := newTestInferenceService(t, InferenceOptions{}, uniformScaler(t, 1000), cache)

	if _, err := unscaled.Predict(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := before.Predict(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := after.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cached {
		t.Fatalf("a new scaler must not read scores cached under the previous one")
	}

	scaled, _ := uniformScaler(t, 1000).Transform(v.Slice())
	if want := expectedScore(scaled); math.Abs(p.Score-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, p.Score)
	}

	keys := map[string]bool{
		unscaled.cacheKey(v): true,
		before.cacheKey(v):   true,
		after.cacheKey(v):    true,
	}
	if len(keys) != 3 {
		t.Errorf("expected distinct cache keys per scaler, got %v", keys)
	}
	if cache.Sets != 3 {
		t.Errorf("expected one write per scaler, got %d", cache.Sets)
	}
}

func TestPredict_CacheWriteFailureIsNotFatal(t *testing.T) {
	cache := repository.NewMockCache()
	cache.FailSets = true
	svc := newTestInferenceService(t, InferenceOptions{}, nil, cache)

	if _, err := svc.Predict(context.Background(), encodedSample(t)); err != nil {
		t.Fatalf("cache failure must not fail the prediction: %v", err)
	}
}

func TestPredict_CorruptCacheEntryIsIgnored(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestInferenceService(t, InferenceOptions{}, nil, cache)
	v := encodedSample(t)
	cache.Data[svc.cacheKey(v)] = "not-a-number"

	p, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cached {
		t.Errorf("corrupt entry must be treated as a miss")
	}
}

func TestPredict_TieredCache(t *testing.T) {
	l1 := repository.NewMockCache()
	l2 := repository.NewMockCache()
	svc := newTestInferenceService(t, InferenceOptions{}, nil, repository.NewTieredCache(l1, l2))
	v := encodedSample(t)

	first, _ := svc.Predict(context.Background(), v)
	delete(l1.Data, svc.cacheKey(v))

	second, err := svc.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached || second.Score != first.Score {
		t.Errorf("expected L2 hit with the same score, got %+v", second)
	}
	if _, ok := l1.Data[svc.cacheKey(v)]; !ok {
		t.Errorf("expected L1 backfill")
	}
}

func TestPredict_NonFiniteInputFails(t *testing.T) {
	svc := newTestInferenceService(t, InferenceOptions{}, nil, nil)
	v := encodedSample(t)
	v[1] = math.Inf(1)
	v[2] = math.Inf(-1)

	_, err := svc.Predict(context.Background(), v)
	if !apperrors.IsCode(err, apperrors.ErrCodeInferenceFailed) {
		t.Fatalf("expected INFERENCE_FAILED, got %v", err)
	}
}
