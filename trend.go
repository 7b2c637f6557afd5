// Package trend classifies the behavior of a time ordered numeric series as an upward,
// downward, stable, volatile or anomalous trend using one of four strategies: a linear
// least squares fit, an exponential fit in log space, a fixed-period seasonality search,
// or sliding window anomaly detection. Linear analyses also project short horizon
// predictions.
//
// Analysis is a pure function of the request. Too few points inside the time window or
// any numerical failure yields the neutral EmptyResult rather than an error.
package trend

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-trend/timedataset"
)

var ErrNonFiniteResult = errors.New("result contains NaN or infinite values")

// Analyzer runs trend analyses. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	opt *Options
}

// New creates an Analyzer with the given options. If no options are provided a default is used.
func New(opt *Options) *Analyzer {
	return &Analyzer{opt: opt.withDefaults()}
}

var defaultAnalyzer = New(nil)

// Analyze runs a request through an analyzer with default options
func Analyze(req AnalysisRequest) TrendResult {
	return defaultAnalyzer.Analyze(req)
}

// Analyze filters the request's points to its time window, orders them chronologically and
// classifies them with the strategy named by the request. Unknown analysis types run the
// linear strategy. A nil time window is treated as one that excludes every point.
func (a *Analyzer) Analyze(req AnalysisRequest) (res TrendResult) {
	log := a.opt.Logger.With().
		Str("analysis_type", string(req.AnalysisType)).
		Int("points", len(req.DataPoints)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("analysis failed, returning empty result")
			res = EmptyResult()
		}
	}()

	ds, err := window(req.DataPoints, req.TimeWindow)
	if err != nil {
		log.Debug().Err(err).Msg("unable to apply time window")
		return EmptyResult()
	}
	if ds.Len() < 2 {
		log.Debug().Int("windowed_points", ds.Len()).Msg("insufficient points in window")
		return EmptyResult()
	}

	res, err = a.dispatch(req, ds)
	if err != nil {
		log.Warn().Err(err).Msg("analysis failed, returning empty result")
		return EmptyResult()
	}
	if err := checkFinite(res); err != nil {
		log.Warn().Err(err).Msg("analysis produced non-finite values, returning empty result")
		return EmptyResult()
	}

	log.Debug().
		Str("trend_type", string(res.TrendType)).
		Float64("confidence", res.Confidence).
		Msg("analysis complete")
	return res
}

func (a *Analyzer) dispatch(req AnalysisRequest, ds *timedataset.TimeDataset) (TrendResult, error) {
	switch req.AnalysisType {
	case AnalysisExponential:
		return analyzeExponential(ds.Y)
	case AnalysisSeasonal:
		return analyzeSeasonal(ds.Y, a.opt.SeasonalPeriods), nil
	case AnalysisAnomaly:
		return analyzeAnomalies(ds, req.DataPoints, req.Sensitivity, a.opt.MaxAnomalyWindow), nil
	default:
		return analyzeLinear(ds, a.opt.PredictionCount)
	}
}

// Window returns the request's points restricted to its time window in chronological
// order, the series every strategy analyses
func Window(req AnalysisRequest) (*timedataset.TimeDataset, error) {
	return window(req.DataPoints, req.TimeWindow)
}

// window parses the request's timestamps and keeps the points inside the closed time
// window in chronological order. Points with unparseable timestamps are dropped.
func window(points []DataPoint, tw *TimeWindow) (*timedataset.TimeDataset, error) {
	if tw == nil {
		return &timedataset.TimeDataset{}, nil
	}
	start, err := timedataset.ParseTime(tw.Start)
	if err != nil {
		return nil, fmt.Errorf("unable to parse window start, %w", err)
	}
	end, err := timedataset.ParseTime(tw.End)
	if err != nil {
		return nil, fmt.Errorf("unable to parse window end, %w", err)
	}

	t := make([]time.Time, 0, len(points))
	y := make([]float64, 0, len(points))
	idx := make([]int, 0, len(points))
	for i, p := range points {
		pt, err := timedataset.ParseTime(p.Timestamp)
		if err != nil {
			continue
		}
		t = append(t, pt)
		y = append(y, p.Value)
		idx = append(idx, i)
	}

	ds, err := timedataset.NewWindowedDataset(t, y, start, end)
	if err != nil {
		return nil, err
	}

	// map positions back to the caller's points rather than the parsed subset
	for j, i := range ds.I {
		ds.I[j] = idx[i]
	}
	return ds, nil
}

func checkFinite(res TrendResult) error {
	vals := []float64{res.Confidence, res.Strength, res.Direction, res.ChangeRate}
	for _, p := range res.Patterns {
		vals = append(vals, p.Confidence)
		if p.Amplitude != nil {
			vals = append(vals, *p.Amplitude)
		}
	}
	for _, p := range res.Predictions {
		vals = append(vals, p.PredictedValue, p.Confidence, p.Range.Min, p.Range.Max)
	}
	for _, an := range res.Anomalies {
		vals = append(vals, an.ActualValue, an.ExpectedValue, an.Deviation)
	}

	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteResult
		}
	}
	return nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
