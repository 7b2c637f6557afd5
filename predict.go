package trend

import (
	"math"
	"time"

	"github.com/aouyang1/go-trend/linearmodel"
	"github.com/aouyang1/go-trend/timedataset"
)

// TimestampLayout is used for every timestamp the analyzer generates
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// predict projects the fitted line count steps past the last observation. Steps are spaced
// by the average interval of the observed times. Confidence drops by 0.1 per step down to a
// floor of 0.1 and the range widens by 10% of the predicted value per step.
func predict(line linearmodel.Line, t []time.Time, count int) []Prediction {
	n := len(t)
	ts := timedataset.TimeSlice(t)
	step := ts.StepSize()
	last := ts.EndTime()

	predictions := make([]Prediction, 0, count)
	for i := 1; i <= count; i++ {
		value := line.At(float64(n + i - 1))
		margin := math.Abs(value) * 0.1 * float64(i)

		predictions = append(predictions, Prediction{
			Timestamp:      last.Add(time.Duration(i) * step).UTC().Format(TimestampLayout),
			PredictedValue: value,
			Confidence:     math.Max(0.1, 1.0-0.1*float64(i)),
			Range: Range{
				Min: value - margin,
				Max: value + margin,
			},
		})
	}
	return predictions
}
