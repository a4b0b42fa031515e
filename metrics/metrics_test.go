package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCategoryRejectionsTotal(t *testing.T) {
	before := testutil.ToFloat64(CategoryRejectionsTotal.WithLabelValues("loan_intent"))
	CategoryRejectionsTotal.WithLabelValues("loan_intent").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CategoryRejectionsTotal.WithLabelValues("loan_intent")))
}

func TestCollectorsRegistered(t *testing.T) {
	assert.Equal(t, 1, testutil.CollectAndCount(RateLimitRejectionsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(CacheWriteFailuresTotal))
}
