package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/aouyang1/go-trend/internal/config"
	"github.com/goccy/go-json"
)

var ErrInvalidTable = errors.New("invalid clickhouse table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

const createTable = `CREATE TABLE IF NOT EXISTS %s (
	id String,
	analysis_type LowCardinality(String),
	received_at DateTime64(3, 'UTC'),
	duration_us UInt64,
	point_count UInt32,
	trend_type LowCardinality(String),
	confidence Float64,
	strength Float64,
	direction Float64,
	change_rate Float64,
	anomaly_count UInt32,
	result String
) ENGINE = MergeTree
ORDER BY (analysis_type, received_at)`

const insertRecord = `INSERT INTO %s (id, analysis_type, received_at, duration_us, point_count, trend_type,
	confidence, strength, direction, change_rate, anomaly_count, result) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// ClickHouse stores one row per record with the headline numbers in their own columns and
// the full result as JSON
type ClickHouse struct {
	db     execer
	table  string
	insert string
}

// NewClickHouse connects with the configured DSN and creates the table if it is missing
func NewClickHouse(cfg config.ClickHouseConfig) (*ClickHouse, error) {
	if !tableName.MatchString(cfg.Table) {
		return nil, fmt.Errorf("%q, %w", cfg.Table, ErrInvalidTable)
	}

	db, err := sql.Open("clickhouse", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to open clickhouse, %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping clickhouse, %w", err)
	}

	s, err := newClickHouseWithDB(ctx, db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newClickHouseWithDB(ctx context.Context, db execer, table string) (*ClickHouse, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%q, %w", table, ErrInvalidTable)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(createTable, table)); err != nil {
		return nil, fmt.Errorf("unable to create table %s, %w", table, err)
	}
	return &ClickHouse{
		db:     db,
		table:  table,
		insert: fmt.Sprintf(insertRecord, table),
	}, nil
}

func (c *ClickHouse) Name() string { return config.SinkClickHouse }

func (c *ClickHouse) Publish(ctx context.Context, rec Record) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("unable to encode result, %w", err)
	}

	_, err = c.db.ExecContext(ctx, c.insert,
		rec.ID,
		string(rec.AnalysisType),
		rec.ReceivedAt.UTC(),
		uint64(rec.Duration.Microseconds()),
		uint32(rec.PointCount),
		string(rec.Result.TrendType),
		rec.Result.Confidence,
		rec.Result.Strength,
		rec.Result.Direction,
		rec.Result.ChangeRate,
		uint32(len(rec.Result.Anomalies)),
		string(result),
	)
	if err != nil {
		return fmt.Errorf("unable to insert record into %s, %w", c.table, err)
	}
	return nil
}

func (c *ClickHouse) Close() error {
	return c.db.Close()
}
