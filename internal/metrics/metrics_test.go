package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordAnalysis("anomaly", "anomaly", 3, 2*time.Millisecond)
	r.RecordAnalysis("anomaly", "anomaly", 0, time.Millisecond)
	r.RecordAnalysis("linear", "upward", 0, time.Millisecond)
	r.RecordValidationError()
	r.RecordSinkError("redis")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.analyses.WithLabelValues("anomaly", "anomaly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.analyses.WithLabelValues("linear", "upward")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.anomalies.WithLabelValues("anomaly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validationErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sinkErrors.WithLabelValues("redis")))

	expected := `
# HELP trend_validation_errors_total Total number of rejected analysis requests
# TYPE trend_validation_errors_total counter
trend_validation_errors_total 1
`
	require.Nil(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "trend_validation_errors_total"))

	count, err := testutil.GatherAndCount(reg, "trend_analysis_duration_seconds")
	require.Nil(t, err)
	assert.Equal(t, 2, count)
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
		New(nil)
	})
}
