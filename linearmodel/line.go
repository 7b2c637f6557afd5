// Package linearmodel fits ordinary least squares lines against the sample index of a series
package linearmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Line is a least squares fit of y ~ Intercept + Slope*x where x is the sample index 0..n-1.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	// Correlation is the Pearson correlation between index and value. Zero when either
	// has no variance.
	Correlation float64 `json:"correlation"`

	// R2 is the explained over total variation of the fit. Zero when the values have no
	// variance.
	R2 float64 `json:"r2"`
}

// Index returns the index axis 0..n-1 as floats
func Index(n int) []float64 {
	x := make([]float64, n)
	if n < 2 {
		return x
	}
	floats.Span(x, 0, float64(n-1))
	return x
}

// FitIndexed fits a line to y against its sample index
func FitIndexed(y []float64) (Line, error) {
	n := len(y)
	if n < 2 {
		return Line{}, fmt.Errorf("got %d samples, %w", n, ErrInsufficientSamples)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Line{}, fmt.Errorf("at index %d, %w", i, ErrNonFiniteSample)
		}
	}

	x := Index(n)
	intercept, slope := stat.LinearRegression(x, y, nil, false)

	line := Line{
		Slope:     slope,
		Intercept: intercept,
	}

	if stat.Variance(y, nil) == 0 {
		return line, nil
	}
	line.Correlation = stat.Correlation(x, y, nil)

	r2 := stat.RSquared(x, y, nil, intercept, slope)
	line.R2 = math.Min(math.Max(r2, 0.0), 1.0)
	return line, nil
}

// At evaluates the line at index x
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}
