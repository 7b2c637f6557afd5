package stats

import (
	"testing"

	"github.com/aouyang1/go-trend/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowHalfWidth(t *testing.T) {
	assert.Equal(t, 0, WindowHalfWidth(3, 10))
	assert.Equal(t, 2, WindowHalfWidth(9, 10))
	assert.Equal(t, 10, WindowHalfWidth(41, 10))
	assert.Equal(t, 10, WindowHalfWidth(1000, 10))
}

func TestWindowZScores(t *testing.T) {
	t.Run("scored range excludes boundaries", func(t *testing.T) {
		y := timedataset.GenerateConstY(12, 1)
		scores := WindowZScores(y, 3)
		require.Len(t, scores, 6)
		assert.Equal(t, 3, scores[0].Index)
		assert.Equal(t, 8, scores[len(scores)-1].Index)
		for _, s := range scores {
			assert.Equal(t, 0.0, s.Score, "flat window has no spread")
		}
	})

	t.Run("window too wide", func(t *testing.T) {
		assert.Nil(t, WindowZScores([]float64{1, 2, 3, 4}, 2))
	})

	t.Run("zero width scores every point", func(t *testing.T) {
		scores := WindowZScores([]float64{1, 2, 3}, 0)
		require.Len(t, scores, 3)
		for _, s := range scores {
			assert.Equal(t, 0.0, s.Score)
		}
	})

	t.Run("population standard deviation", func(t *testing.T) {
		y := []float64{2, 4, 4, 4, 9, 5, 7, 5, 5}
		scores := WindowZScores(y, 4)
		require.Len(t, scores, 1)
		assert.Equal(t, 4, scores[0].Index)
		assert.InDelta(t, 5.0, scores[0].Mean, 1e-12)
		assert.InDelta(t, 1.8856180831641267, scores[0].StdDev, 1e-12)
		assert.InDelta(t, 2.1213203435596424, scores[0].Score, 1e-12)
	})

	t.Run("spike", func(t *testing.T) {
		y := timedataset.GenerateConstY(41, 10).Set(20, 1000)
		scores := WindowZScores(y, 10)
		require.Len(t, scores, 21)
		for _, s := range scores {
			if s.Index == 20 {
				// a lone outlier among 21 points sits sqrt(20) deviations out
				assert.InDelta(t, 4.47213595499958, s.Score, 1e-9)
				continue
			}
			assert.Less(t, s.Score, 1.0)
		}
	})
}
