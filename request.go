package trend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidRequest = errors.New("invalid analysis request")

// AnalysisType selects the strategy used to classify a series
type AnalysisType string

const (
	AnalysisLinear      AnalysisType = "linear"
	AnalysisExponential AnalysisType = "exponential"
	AnalysisSeasonal    AnalysisType = "seasonal"
	AnalysisAnomaly     AnalysisType = "anomaly"
)

// Sensitivity controls how strict anomaly detection is. Anything other than low or high
// behaves as medium.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// DataPoint is a single observation supplied by the caller. Metadata is carried through
// untouched and never inspected.
type DataPoint struct {
	Timestamp string         `json:"timestamp"`
	Value     float64        `json:"value"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TimeWindow bounds the analysed points to the closed interval [Start, End]. Both are
// ISO-8601 timestamps.
type TimeWindow struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// AnalysisRequest is the input of a single analysis
type AnalysisRequest struct {
	DataPoints   []DataPoint    `json:"dataPoints" validate:"required"`
	AnalysisType AnalysisType   `json:"analysisType" validate:"required"`
	TimeWindow   *TimeWindow    `json:"timeWindow" validate:"required"`
	Sensitivity  Sensitivity    `json:"sensitivity,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
}

var validate = validator.New()

// Validate runs the checks callers must apply before handing a request to the analyzer:
// dataPoints must be present (it may be empty), analysisType must be set and the time window
// with both of its bounds must be present. Unknown analysis types are not rejected since the
// analyzer falls back to a linear analysis.
func (r *AnalysisRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("no request, %w", ErrInvalidRequest)
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s, %w", err.Error(), ErrInvalidRequest)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldName(fe)+" is required")
	}
	return fmt.Errorf("%s, %w", strings.Join(msgs, "; "), ErrInvalidRequest)
}

// fieldName maps a validation failure back to the json name the caller sent
func fieldName(fe validator.FieldError) string {
	switch fe.StructNamespace() {
	case "AnalysisRequest.DataPoints":
		return "dataPoints"
	case "AnalysisRequest.AnalysisType":
		return "analysisType"
	case "AnalysisRequest.TimeWindow":
		return "timeWindow"
	case "AnalysisRequest.TimeWindow.Start":
		return "timeWindow.start"
	case "AnalysisRequest.TimeWindow.End":
		return "timeWindow.end"
	}
	return fe.Field()
}
