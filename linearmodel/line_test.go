package linearmodel

import (
	"math"
	"testing"

	"github.com/aouyang1/go-trend/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitIndexed(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		expected Line
		tol      float64
		err      error
	}{
		"too few samples": {
			y:   []float64{1},
			err: ErrInsufficientSamples,
		},
		"nan sample": {
			y:   []float64{1, math.NaN(), 3},
			err: ErrNonFiniteSample,
		},
		"infinite sample": {
			y:   []float64{1, math.Inf(1)},
			err: ErrNonFiniteSample,
		},
		"unit slope": {
			y:        []float64{1, 2, 3, 4},
			expected: Line{Slope: 1, Intercept: 1, Correlation: 1, R2: 1},
			tol:      1e-9,
		},
		"negative slope": {
			y:        timedataset.GenerateLinearY(50, -2.5, 100),
			expected: Line{Slope: -2.5, Intercept: 100, Correlation: -1, R2: 1},
			tol:      1e-9,
		},
		"flat": {
			y:        timedataset.GenerateConstY(10, 3),
			expected: Line{Slope: 0, Intercept: 3, Correlation: 0, R2: 0},
			tol:      1e-12,
		},
		"two points": {
			y:        []float64{5, 3},
			expected: Line{Slope: -2, Intercept: 5, Correlation: -1, R2: 1},
			tol:      1e-9,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			line, err := FitIndexed(td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected.Slope, line.Slope, td.tol, "slope")
			assert.InDelta(t, td.expected.Intercept, line.Intercept, td.tol, "intercept")
			assert.InDelta(t, td.expected.Correlation, line.Correlation, td.tol, "correlation")
			assert.InDelta(t, td.expected.R2, line.R2, td.tol, "r2")
		})
	}
}

func TestFitIndexedNoisy(t *testing.T) {
	n := 200
	y := timedataset.GenerateLinearY(n, 0.5, 10).Add(timedataset.GenerateNoise(n, 2.0, 42))

	line, err := FitIndexed(y)
	require.Nil(t, err)
	assert.InDelta(t, 0.5, line.Slope, 0.05)
	assert.Greater(t, line.Correlation, 0.8)
	assert.Less(t, line.Correlation, 1.0)
	assert.InDelta(t, line.Correlation*line.Correlation, line.R2, 1e-9)
}

func TestLineAt(t *testing.T) {
	line := Line{Slope: 2, Intercept: -1}
	assert.Equal(t, 9.0, line.At(5))
	assert.Equal(t, []float64{0, 1, 2}, Index(3))
}
