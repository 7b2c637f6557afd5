// Package sink publishes the record of each completed analysis to a downstream store.
// Records carry the result only, never the analysed data points.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	trend "github.com/aouyang1/go-trend"
	"github.com/aouyang1/go-trend/internal/config"
	"github.com/rs/zerolog"
)

var ErrUnknownSink = errors.New("unknown sink type")

// Record is what a sink receives for every analysis served
type Record struct {
	ID           string             `json:"id"`
	AnalysisType trend.AnalysisType `json:"analysisType"`
	ReceivedAt   time.Time          `json:"receivedAt"`
	Duration     time.Duration      `json:"durationNs"`
	PointCount   int                `json:"pointCount"`
	Result       trend.TrendResult  `json:"result"`
}

type Sink interface {
	Name() string
	Publish(ctx context.Context, rec Record) error
	Close() error
}

// Reader is implemented by sinks that can read back what they published
type Reader interface {
	Recent(ctx context.Context, n int64) ([]Record, error)
}

// New creates the sink selected by the configuration
func New(cfg config.SinkConfig, log zerolog.Logger) (Sink, error) {
	switch cfg.Type {
	case "", config.SinkNone:
		return Nop{}, nil
	case config.SinkLog:
		return NewLog(log), nil
	case config.SinkRedis:
		s, err := NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("unable to create redis sink, %w", err)
		}
		return s, nil
	case config.SinkKafka:
		s, err := NewKafka(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("unable to create kafka sink, %w", err)
		}
		return s, nil
	case config.SinkClickHouse:
		s, err := NewClickHouse(cfg.ClickHouse)
		if err != nil {
			return nil, fmt.Errorf("unable to create clickhouse sink, %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%q, %w", cfg.Type, ErrUnknownSink)
}

// Nop discards every record
type Nop struct{}

func (Nop) Name() string                          { return config.SinkNone }
func (Nop) Publish(context.Context, Record) error { return nil }
func (Nop) Close() error                          { return nil }
