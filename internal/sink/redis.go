package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-trend/internal/config"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Redis appends records to a capped list, newest last
type Redis struct {
	client *redis.Client
	key    string
	maxLen int64
}

// NewRedis connects to the configured server and verifies it is reachable
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s, %w", cfg.Addr, err)
	}
	return NewRedisWithClient(client, cfg.Key, cfg.MaxLen), nil
}

func NewRedisWithClient(client *redis.Client, key string, maxLen int64) *Redis {
	return &Redis{client: client, key: key, maxLen: maxLen}
}

func (r *Redis) Name() string { return config.SinkRedis }

// Publish pushes the record and trims the list to the newest maxLen entries in a single
// transaction
func (r *Redis) Publish(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("unable to encode record, %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		if r.maxLen > 0 {
			pipe.LTrim(ctx, r.key, -r.maxLen, -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to push record to %s, %w", r.key, err)
	}
	return nil
}

// Recent returns up to n of the newest records, oldest first
func (r *Redis) Recent(ctx context.Context, n int64) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := r.client.LRange(ctx, r.key, -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("unable to read records from %s, %w", r.key, err)
	}

	recs := make([]Record, 0, len(raw))
	for _, s := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("unable to decode record, %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
