// Package stats contains the series statistics behind trend classification: lagged
// autocorrelation, cycle amplitude and sliding window z-scores.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LagProduct returns the mean of y[i]*y[i+lag] over every valid i. The values are not
// centered or normalized so the score scales with the square of the series level. Returns
// 0 when the lag leaves no pairs.
func LagProduct(y []float64, lag int) float64 {
	if lag < 0 {
		return 0
	}
	count := len(y) - lag
	if count <= 0 {
		return 0
	}
	return floats.Dot(y[:count], y[lag:]) / float64(count)
}

// BestPeriod scores each candidate period shorter than half the series with LagProduct
// and returns the highest scoring one. Candidates are visited in the given order and a
// later candidate must score strictly higher to replace the current best, so ties keep
// the earlier period. A period of 0 with a score of 0 is returned when no candidate
// qualifies or none scores above 0.
func BestPeriod(y []float64, candidates []int) (int, float64) {
	n := len(y)

	var bestPeriod int
	var bestScore float64
	for _, period := range candidates {
		if period <= 0 || 2*period >= n {
			continue
		}
		score := LagProduct(y, period)
		if score > bestScore {
			bestScore = score
			bestPeriod = period
		}
	}
	return bestPeriod, bestScore
}

// CycleAmplitude splits y into consecutive cycles of the given period, the last one
// possibly partial, and returns the largest peak to peak range found in any cycle.
func CycleAmplitude(y []float64, period int) float64 {
	if period <= 0 || len(y) == 0 {
		return 0
	}

	var amplitude float64
	for start := 0; start < len(y); start += period {
		end := min(start+period, len(y))
		cycle := y[start:end]
		if r := floats.Max(cycle) - floats.Min(cycle); r > amplitude {
			amplitude = r
		}
	}
	return amplitude
}

// HalfMeans returns the mean of the first floor(n/2) values and the mean of the rest.
// An empty half has a mean of 0.
func HalfMeans(y []float64) (float64, float64) {
	mid := len(y) / 2

	var first, second float64
	if mid > 0 {
		first = stat.Mean(y[:mid], nil)
	}
	if len(y)-mid > 0 {
		second = stat.Mean(y[mid:], nil)
	}
	return first, second
}

// Mean returns the arithmetic mean of y or 0 if y is empty
func Mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	return stat.Mean(y, nil)
}
