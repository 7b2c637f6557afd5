package trend

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-trend/linearmodel"
	"github.com/aouyang1/go-trend/stats"
	"github.com/aouyang1/go-trend/timedataset"
)

func analyzeLinear(ds *timedataset.TimeDataset, predictionCount int) (TrendResult, error) {
	line, err := linearmodel.FitIndexed(ds.Y)
	if err != nil {
		return TrendResult{}, fmt.Errorf("unable to fit linear trend, %w", err)
	}

	mean := stats.Mean(ds.Y)
	if mean == 0 {
		mean = 1
	}

	trendType := classifySlope(line.Slope)
	confidence := math.Abs(line.Correlation)

	return TrendResult{
		TrendType:  trendType,
		Confidence: confidence,
		Strength:   math.Abs(line.Slope) / math.Abs(mean),
		Direction:  sign(line.Slope),
		ChangeRate: line.Slope,
		Patterns: []Pattern{
			{
				Type:        PatternLinear,
				Confidence:  confidence,
				Description: fmt.Sprintf("Linear %s trend with slope %.4f per step", trendType, line.Slope),
			},
		},
		Predictions: predict(line, ds.T, predictionCount),
	}, nil
}

// classifySlope maps a slope or growth rate onto a trend type
func classifySlope(slope float64) TrendType {
	switch {
	case math.Abs(slope) < StableSlopeThreshold:
		return TrendStable
	case slope > 0:
		return TrendUpward
	default:
		return TrendDownward
	}
}
