// Package config loads the trend service configuration from an optional YAML file and
// TREND_* environment variables. Unset values fall back to the defaults declared on the
// struct tags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aouyang1/go-trend/internal/logger"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "TREND"

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	SinkNone       = "none"
	SinkLog        = "log"
	SinkRedis      = "redis"
	SinkKafka      = "kafka"
	SinkClickHouse = "clickhouse"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     logger.Config `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Sink    SinkConfig    `mapstructure:"sink"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s" validate:"gt=0"`
}

// Addr is the host:port the server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" default:"true"`
	Path    string `mapstructure:"path" default:"/metrics" validate:"startswith=/"`
}

// SinkConfig selects where analysis records are published after each request
type SinkConfig struct {
	Type       string           `mapstructure:"type" default:"none" validate:"oneof=none log redis kafka clickhouse"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" default:"localhost:6379" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	Key      string `mapstructure:"key" default:"trend:results" validate:"required"`
	MaxLen   int64  `mapstructure:"max_len" default:"1000" validate:"min=1"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" default:"[\"localhost:9092\"]" validate:"min=1,dive,required"`
	Topic   string   `mapstructure:"topic" default:"trend-results" validate:"required"`
}

type ClickHouseConfig struct {
	DSN   string `mapstructure:"dsn" default:"clickhouse://default:@localhost:9000/default?dial_timeout=5s" validate:"required"`
	Table string `mapstructure:"table" default:"trend_results" validate:"required"`
}

// keys lists every setting so that environment variables are honored even when no config
// file mentions them
var keys = []string{
	"server.host",
	"server.port",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"log.level",
	"log.format",
	"log.output",
	"metrics.enabled",
	"metrics.path",
	"sink.type",
	"sink.redis.addr",
	"sink.redis.password",
	"sink.redis.db",
	"sink.redis.key",
	"sink.redis.max_len",
	"sink.kafka.brokers",
	"sink.kafka.topic",
	"sink.clickhouse.dsn",
	"sink.clickhouse.table",
}

var validate = validator.New()

// Default returns the configuration used when neither a file nor the environment sets
// anything
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("unable to apply defaults, %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path, if any, then applies TREND_* environment overrides,
// e.g. TREND_SINK_REDIS_ADDR for sink.redis.addr
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind env for %s, %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s, %w", path, err)
		}
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%s, %w", err.Error(), ErrInvalidConfig)
	}
	return nil
}
