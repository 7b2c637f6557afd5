package trend

import (
	"github.com/goccy/go-json"
)

type TrendType string

const (
	TrendUpward   TrendType = "upward"
	TrendDownward TrendType = "downward"
	TrendStable   TrendType = "stable"
	TrendVolatile TrendType = "volatile"
	TrendAnomaly  TrendType = "anomaly"
)

type PatternType string

const (
	PatternSeasonal    PatternType = "seasonal"
	PatternCyclical    PatternType = "cyclical"
	PatternLinear      PatternType = "linear"
	PatternExponential PatternType = "exponential"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Pattern describes a structure recognized in the series
type Pattern struct {
	Type        PatternType `json:"type"`
	Period      *int        `json:"period,omitempty"`
	Amplitude   *float64    `json:"amplitude,omitempty"`
	Confidence  float64     `json:"confidence"`
	Description string      `json:"description"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Prediction is a projected value at a future time. The confidence shrinks and the range
// widens the further out the prediction is.
type Prediction struct {
	Timestamp      string  `json:"timestamp"`
	PredictedValue float64 `json:"predictedValue"`
	Confidence     float64 `json:"confidence"`
	Range          Range   `json:"range"`
}

// Anomaly is an observation that deviates from the mean of its surrounding window.
// Deviation is the absolute z-score.
type Anomaly struct {
	Timestamp     string   `json:"timestamp"`
	ActualValue   float64  `json:"actualValue"`
	ExpectedValue float64  `json:"expectedValue"`
	Deviation     float64  `json:"deviation"`
	Severity      Severity `json:"severity"`
}

// TrendResult is the outcome of an analysis. Predictions and Anomalies are nil when the
// strategy that ran does not produce them.
type TrendResult struct {
	TrendType   TrendType    `json:"trendType"`
	Confidence  float64      `json:"confidence"`
	Strength    float64      `json:"strength"`
	Direction   float64      `json:"direction"`
	ChangeRate  float64      `json:"changeRate"`
	Patterns    []Pattern    `json:"patterns"`
	Predictions []Prediction `json:"predictions,omitempty"`
	Anomalies   []Anomaly    `json:"anomalies,omitempty"`
}

// EmptyResult is the neutral result returned when there is too little data to analyse or
// the analysis could not complete.
func EmptyResult() TrendResult {
	return TrendResult{
		TrendType: TrendStable,
		Patterns:  []Pattern{},
	}
}

// MarshalJSON emits predictions and anomalies whenever they were produced, even if empty,
// and omits them otherwise.
func (r TrendResult) MarshalJSON() ([]byte, error) {
	type encoded struct {
		TrendType   TrendType     `json:"trendType"`
		Confidence  float64       `json:"confidence"`
		Strength    float64       `json:"strength"`
		Direction   float64       `json:"direction"`
		ChangeRate  float64       `json:"changeRate"`
		Patterns    []Pattern     `json:"patterns"`
		Predictions *[]Prediction `json:"predictions,omitempty"`
		Anomalies   *[]Anomaly    `json:"anomalies,omitempty"`
	}

	e := encoded{
		TrendType:  r.TrendType,
		Confidence: r.Confidence,
		Strength:   r.Strength,
		Direction:  r.Direction,
		ChangeRate: r.ChangeRate,
		Patterns:   r.Patterns,
	}
	if e.Patterns == nil {
		e.Patterns = []Pattern{}
	}
	if r.Predictions != nil {
		e.Predictions = &r.Predictions
	}
	if r.Anomalies != nil {
		e.Anomalies = &r.Anomalies
	}
	return json.Marshal(e)
}
