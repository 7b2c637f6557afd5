package trend

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-trend/linearmodel"
)

// exponentialFit is a line fitted to the log of the series. Slope is the per step growth rate.
type exponentialFit struct {
	GrowthRate   float64
	LogIntercept float64
	R2           float64
}

func fitExponential(y []float64) (exponentialFit, error) {
	logY := make([]float64, len(y))
	for i, v := range y {
		logY[i] = math.Log(math.Max(v, LogFloor))
	}

	line, err := linearmodel.FitIndexed(logY)
	if err != nil {
		return exponentialFit{}, fmt.Errorf("unable to fit log series, %w", err)
	}
	return exponentialFit{
		GrowthRate:   line.Slope,
		LogIntercept: line.Intercept,
		R2:           line.R2,
	}, nil
}

func analyzeExponential(y []float64) (TrendResult, error) {
	fit, err := fitExponential(y)
	if err != nil {
		return TrendResult{}, err
	}

	confidence := math.Sqrt(fit.R2)
	trendType := classifySlope(fit.GrowthRate)

	kind := "growth"
	if fit.GrowthRate < 0 {
		kind = "decay"
	}

	return TrendResult{
		TrendType:  trendType,
		Confidence: confidence,
		Strength:   math.Abs(fit.GrowthRate),
		Direction:  sign(fit.GrowthRate),
		ChangeRate: fit.GrowthRate,
		Patterns: []Pattern{
			{
				Type:        PatternExponential,
				Confidence:  confidence,
				Description: fmt.Sprintf("Exponential %s at %.2f%% per step", kind, fit.GrowthRate*100),
			},
		},
	}, nil
}
