package trend

import (
	"github.com/aouyang1/go-trend/stats"
	"github.com/aouyang1/go-trend/timedataset"
)

// analyzeAnomalies scores every point at least w points away from both ends against the
// window of w points on either side, w = min(maxWindow, n/4). Points closer to the ends are
// never reported. Confidence is fixed by whether anything was found.
func analyzeAnomalies(ds *timedataset.TimeDataset, points []DataPoint, sensitivity Sensitivity, maxWindow int) TrendResult {
	n := ds.Len()
	w := stats.WindowHalfWidth(n, maxWindow)
	threshold := anomalyThreshold(sensitivity)

	anomalies := []Anomaly{}
	for _, z := range stats.WindowZScores(ds.Y, w) {
		if z.Score <= threshold {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Timestamp:     points[ds.I[z.Index]].Timestamp,
			ActualValue:   z.Value,
			ExpectedValue: z.Mean,
			Deviation:     z.Score,
			Severity:      anomalySeverity(z.Score),
		})
	}

	confidence := AnomalyConfidenceNotFound
	if len(anomalies) > 0 {
		confidence = AnomalyConfidenceFound
	}

	return TrendResult{
		TrendType:  TrendAnomaly,
		Confidence: confidence,
		Strength:   float64(len(anomalies)) / float64(n),
		Patterns:   []Pattern{},
		Anomalies:  anomalies,
	}
}
