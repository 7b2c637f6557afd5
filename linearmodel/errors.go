package linearmodel

import "errors"

var (
	ErrInsufficientSamples = errors.New("need at least 2 samples to fit a line")
	ErrNonFiniteSample     = errors.New("sample is NaN or infinite")
)
