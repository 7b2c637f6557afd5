package sink

import (
	"context"
	"fmt"

	"github.com/aouyang1/go-trend/internal/config"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Log writes each record as a structured log line
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("sink", config.SinkLog).Logger()}
}

func (l *Log) Name() string { return config.SinkLog }

func (l *Log) Publish(_ context.Context, rec Record) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("unable to encode result, %w", err)
	}

	l.log.Info().
		Str("id", rec.ID).
		Str("analysis_type", string(rec.AnalysisType)).
		Time("received_at", rec.ReceivedAt).
		Dur("duration", rec.Duration).
		Int("points", rec.PointCount).
		RawJSON("result", result).
		Msg("analysis record")
	return nil
}

func (l *Log) Close() error { return nil }
