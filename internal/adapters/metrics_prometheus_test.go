package adapters

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosiface/internal/types"
)

func TestPrometheusMetricsCountsEvents(t *testing.T) {
	metrics := NewPrometheusMetrics()
	metrics.ComponentRegistered("prosilica_node")
	metrics.CacheMiss("prosilica_node")
	metrics.CacheHit("prosilica_node")
	metrics.CacheHit("prosilica_node")
	metrics.ResolutionFailed("prosilica_node", types.ErrorKindCycleDetected)
	metrics.LoadFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ComponentsRegistered.WithLabelValues("prosilica_node")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("prosilica_node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("prosilica_node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResolutionFailures.WithLabelValues("prosilica_node", "cycle detected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LoadFailures))
}

func TestPrometheusMetricsHandler(t *testing.T) {
	metrics := NewPrometheusMetrics()
	metrics.CacheHit("camera")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rosiface_resolution_cache_hits_total{component="camera"} 1`)
}
