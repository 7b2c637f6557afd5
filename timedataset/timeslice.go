package timedataset

import (
	"time"
)

// DefaultStep is the step size assumed when a slice is too short to infer one.
const DefaultStep = 24 * time.Hour

// TimeSlice is a chronologically ordered sequence of timestamps
type TimeSlice []time.Time

// StartTime is the first timestamp, or the zero time for an empty slice
func (t TimeSlice) StartTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[0]
}

// EndTime is the last timestamp, or the zero time for an empty slice
func (t TimeSlice) EndTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// StepSize returns the average spacing between consecutive points of a chronologically
// ordered slice, (last - first) / (n - 1). Slices with fewer than two points use DefaultStep.
func (t TimeSlice) StepSize() time.Duration {
	if len(t) <= 1 {
		return DefaultStep
	}
	return t.EndTime().Sub(t.StartTime()) / time.Duration(len(t)-1)
}
