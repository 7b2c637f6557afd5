package trend

import (
	"github.com/rs/zerolog"
)

const (
	// StableSlopeThreshold is the absolute slope or growth rate below which a linear or
	// exponential trend is classified as stable
	StableSlopeThreshold = 0.01

	// VolatileConfidenceThreshold is the seasonal score below which a series is volatile
	VolatileConfidenceThreshold = 0.3

	// StableDirectionThreshold is the absolute seasonal direction below which a series is stable
	StableDirectionThreshold = 0.1

	// LogFloor replaces values at or below zero before taking logarithms
	LogFloor = 0.001

	AnomalyConfidenceFound    = 0.8
	AnomalyConfidenceNotFound = 0.2
)

// Options configures an Analyzer. The zero value of any numeric field is replaced by its
// default when the analyzer is created.
type Options struct {
	// Logger receives debug output and recovered failures. Defaults to a no-op logger.
	Logger zerolog.Logger `json:"-"`

	// PredictionCount is the number of future steps projected by a linear analysis
	PredictionCount int `json:"prediction_count"`

	// SeasonalPeriods are the candidate periods, in samples, tested by a seasonal analysis.
	// They are tested in order.
	SeasonalPeriods []int `json:"seasonal_periods"`

	// MaxAnomalyWindow caps the half width of the sliding window used to score anomalies
	MaxAnomalyWindow int `json:"max_anomaly_window"`
}

// NewDefaultOptions returns the default analyzer options
func NewDefaultOptions() *Options {
	return &Options{
		Logger:           zerolog.Nop(),
		PredictionCount:  5,
		SeasonalPeriods:  []int{7, 30, 90, 365},
		MaxAnomalyWindow: 10,
	}
}

func (o *Options) withDefaults() *Options {
	def := NewDefaultOptions()
	if o == nil {
		return def
	}

	opt := *o
	if opt.PredictionCount <= 0 {
		opt.PredictionCount = def.PredictionCount
	}
	if len(opt.SeasonalPeriods) == 0 {
		opt.SeasonalPeriods = def.SeasonalPeriods
	}
	if opt.MaxAnomalyWindow <= 0 {
		opt.MaxAnomalyWindow = def.MaxAnomalyWindow
	}
	return &opt
}

// anomalyThreshold returns the z-score an observation must exceed to be reported
func anomalyThreshold(s Sensitivity) float64 {
	switch s {
	case SensitivityLow:
		return 3.0
	case SensitivityHigh:
		return 1.5
	default:
		return 2.0
	}
}

func anomalySeverity(zScore float64) Severity {
	switch {
	case zScore > 3.0:
		return SeverityHigh
	case zScore > 2.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
