package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk/logger"
)

func TestObservability_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("loan-risk-test", reg, logger.NewTestLogger(t))
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx := context.Background()
	obs.RecordPrediction(ctx, 1, 0.8, false)
	obs.RecordPrediction(ctx, 0, 0.2, true)
	obs.RecordInferenceDuration(ctx, 3*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "predictions")
	assert.Contains(t, joined, "prediction_score")
	assert.Contains(t, joined, "inference_duration")
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		obs.RecordPrediction(ctx, 1, 0.9, false)
		obs.RecordInferenceDuration(ctx, time.Millisecond)
	})
	assert.NoError(t, obs.Shutdown(ctx))

	noop := NewNoop()
	assert.NotPanics(t, func() { noop.RecordPrediction(ctx, 0, 0.1, false) })
	assert.NoError(t, noop.Shutdown(ctx))
}
