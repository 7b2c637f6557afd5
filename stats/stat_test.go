package stats

import (
	"testing"

	"github.com/aouyang1/go-trend/timedataset"
	"github.com/stretchr/testify/assert"
)

func TestLagProduct(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		lag      int
		expected float64
	}{
		"lag zero is mean square": {
			y:        []float64{1, 2, 3},
			lag:      0,
			expected: 14.0 / 3.0,
		},
		"lag one": {
			y:        []float64{1, 2, 3},
			lag:      1,
			expected: (2.0 + 6.0) / 2.0,
		},
		"lag too long": {
			y:        []float64{1, 2, 3},
			lag:      3,
			expected: 0,
		},
		"negative lag": {
			y:        []float64{1, 2, 3},
			lag:      -1,
			expected: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, LagProduct(td.y, td.lag), 1e-12)
		})
	}
}

func TestBestPeriod(t *testing.T) {
	candidates := []int{7, 30, 90, 365}

	testData := map[string]struct {
		y              []float64
		expectedPeriod int
	}{
		"too short for any candidate": {
			y:              timedataset.GenerateConstY(14, 1),
			expectedPeriod: 0,
		},
		"weekly wave": {
			y:              timedataset.GenerateConstY(70, 10).Add(timedataset.GenerateWaveY(70, 3, 7, 0)),
			expectedPeriod: 7,
		},
		"tie keeps earliest": {
			y:              timedataset.GenerateConstY(100, 2),
			expectedPeriod: 7,
		},
		"monthly wave": {
			y:              timedataset.GenerateConstY(150, 10).Add(timedataset.GenerateWaveY(150, 5, 30, 0)),
			expectedPeriod: 30,
		},
		"negative correlation never selected": {
			y:              alternating(40),
			expectedPeriod: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			period, score := BestPeriod(td.y, candidates)
			assert.Equal(t, td.expectedPeriod, period)
			if period == 0 {
				assert.Equal(t, 0.0, score)
			}
		})
	}
}

func alternating(n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = 1
		if i%2 == 1 {
			y[i] = -1
		}
	}
	return y
}

func TestCycleAmplitude(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		period   int
		expected float64
	}{
		"no period": {
			y:        []float64{1, 5},
			period:   0,
			expected: 0,
		},
		"largest cycle wins": {
			y:        []float64{1, 2, 3, 10, 0, 5},
			period:   3,
			expected: 10,
		},
		"partial last cycle": {
			y:        []float64{1, 2, 1, 2, -8},
			period:   2,
			expected: 10,
		},
		"empty": {
			period:   3,
			expected: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, CycleAmplitude(td.y, td.period), 1e-12)
		})
	}
}

func TestHalfMeans(t *testing.T) {
	first, second := HalfMeans([]float64{1, 3, 10, 20, 30})
	assert.InDelta(t, 2.0, first, 1e-12)
	assert.InDelta(t, 20.0, second, 1e-12)

	first, second = HalfMeans([]float64{4})
	assert.Equal(t, 0.0, first)
	assert.Equal(t, 4.0, second)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 3}))
}
