package trend

import (
	"bytes"
	"testing"

	"github.com/aouyang1/go-trend/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotResult(t *testing.T) {
	testData := map[string]struct {
		analysisType AnalysisType
		expected     []string
		absent       []string
	}{
		"linear": {
			analysisType: AnalysisLinear,
			expected:     []string{"Observed", "Predictions", "Upper", "Lower"},
			absent:       []string{"Anomalies"},
		},
		"anomaly": {
			analysisType: AnalysisAnomaly,
			expected:     []string{"Observed", "Anomalies", "Expected"},
			absent:       []string{"Predictions"},
		},
		"seasonal": {
			analysisType: AnalysisSeasonal,
			expected:     []string{"Observed", "Trend: upward"},
			absent:       []string{"Predictions", "Anomalies"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			req := newRequest(td.analysisType, anomalyBaseline(60).Set(30, 1000))
			ds, err := Window(req)
			require.Nil(t, err)

			var buf bytes.Buffer
			require.Nil(t, PlotResult(&buf, ds, Analyze(req)))

			out := buf.String()
			for _, s := range td.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range td.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestPlotResultNoData(t *testing.T) {
	var buf bytes.Buffer
	err := PlotResult(&buf, &timedataset.TimeDataset{}, EmptyResult())
	assert.ErrorIs(t, err, ErrNoPlotData)
	assert.Zero(t, buf.Len())
}
