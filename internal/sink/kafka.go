package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-trend/internal/config"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("no kafka brokers configured")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes one message per record keyed by the record id
type Kafka struct {
	writer messageWriter
	topic  string
}

func NewKafka(cfg config.KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Gzip,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Kafka{writer: writer, topic: cfg.Topic}, nil
}

func (k *Kafka) Name() string { return config.SinkKafka }

func (k *Kafka) Publish(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("unable to encode record, %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Time:  rec.ReceivedAt,
		Headers: []kafka.Header{
			{Key: "analysis_type", Value: []byte(rec.AnalysisType)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("unable to write record to topic %s, %w", k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
