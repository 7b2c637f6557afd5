package trend

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-trend/stats"
)

// seasonalFit is the outcome of the period search. Score is the raw lagged product of the
// best period, not a normalized correlation, so it can exceed 1.
type seasonalFit struct {
	Period    int
	Score     float64
	Amplitude float64
	Direction float64
}

func fitSeasonal(y []float64, candidates []int) seasonalFit {
	period, score := stats.BestPeriod(y, candidates)
	first, second := stats.HalfMeans(y)

	return seasonalFit{
		Period:    period,
		Score:     score,
		Amplitude: stats.CycleAmplitude(y, period),
		Direction: second - first,
	}
}

func analyzeSeasonal(y []float64, candidates []int) TrendResult {
	fit := fitSeasonal(y, candidates)

	var trendType TrendType
	switch {
	case fit.Score < VolatileConfidenceThreshold:
		trendType = TrendVolatile
	case math.Abs(fit.Direction) < StableDirectionThreshold:
		trendType = TrendStable
	case fit.Direction > 0:
		trendType = TrendUpward
	default:
		trendType = TrendDownward
	}

	description := "No dominant seasonal period detected"
	if fit.Period > 0 {
		description = fmt.Sprintf("Seasonal pattern repeating every %d points with amplitude %.4f", fit.Period, fit.Amplitude)
	}

	period := fit.Period
	amplitude := fit.Amplitude
	return TrendResult{
		TrendType:  trendType,
		Confidence: fit.Score,
		Strength:   fit.Amplitude,
		Direction:  fit.Direction,
		ChangeRate: fit.Direction / float64(len(y)/2),
		Patterns: []Pattern{
			{
				Type:        PatternSeasonal,
				Period:      &period,
				Amplitude:   &amplitude,
				Confidence:  fit.Score,
				Description: description,
			},
		},
	}
}
