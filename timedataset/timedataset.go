// Package timedataset holds a univariate series restricted to a time window and ordered
// chronologically, along with helpers to parse timestamps and simulate series.
package timedataset

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrUnparseableTime    = errors.New("unparseable timestamp")
)

// timeLayouts are tried in order when parsing ISO-8601 timestamps. Layouts without a zone
// are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"20060102T150405Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 timestamp.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparseableTime)
}

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length. Index i of T corresponds to index i of Y and, once
// windowed, I is the position of that point in the caller's original input.
type TimeDataset struct {
	T []time.Time
	Y []float64
	I []int
}

// NewWindowedDataset keeps the points whose time lies in the closed interval [start, end]
// and orders them chronologically. The sort is stable so points sharing a timestamp keep
// their input order. A window with start after end yields an empty dataset.
func NewWindowedDataset(t []time.Time, y []float64, start, end time.Time) (*TimeDataset, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	idx := make([]int, 0, len(t))
	for i, tPnt := range t {
		if tPnt.Before(start) || tPnt.After(end) {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t[idx[a]].Before(t[idx[b]])
	})

	td := &TimeDataset{
		T: make([]time.Time, len(idx)),
		Y: make([]float64, len(idx)),
		I: idx,
	}
	for j, i := range idx {
		td.T[j] = t[i]
		td.Y[j] = y[i]
	}
	return td, nil
}

// Len returns the number of points in the dataset
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}
