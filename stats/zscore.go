package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ZScore is the standardized deviation of the value at Index from the window centered on it
type ZScore struct {
	Index  int
	Value  float64
	Mean   float64
	StdDev float64
	Score  float64
}

// WindowHalfWidth returns min(maxWidth, floor(n/4))
func WindowHalfWidth(n, maxWidth int) int {
	return max(min(maxWidth, n/4), 0)
}

// WindowZScores computes a z-score for every index i in [w, n-w) against the mean and
// population standard deviation of y[i-w : i+w+1], the point itself included. Indices
// closer than w to either end are never scored. A window with no spread scores 0.
func WindowZScores(y []float64, w int) []ZScore {
	n := len(y)
	if w < 0 || n-w <= w {
		return nil
	}

	scores := make([]ZScore, 0, n-2*w)
	for i := w; i < n-w; i++ {
		mean, std := stat.PopMeanStdDev(y[i-w:i+w+1], nil)

		var score float64
		if std > 0 {
			score = math.Abs(y[i]-mean) / std
		}
		scores = append(scores, ZScore{
			Index:  i,
			Value:  y[i],
			Mean:   mean,
			StdDev: std,
			Score:  score,
		})
	}
	return scores
}
