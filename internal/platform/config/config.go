package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	pstrings "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Engine   EngineConfig
	Tracing  TracingConfig
}

// DatabaseConfig selects the store. An empty URL runs the in-memory store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the inventory read cache. Empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the lifecycle event sink. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Partitions int32
}

// TracingConfig selects where engine spans go. "none" keeps spans in
// process, "stdout" writes them as JSON.
type TracingConfig struct {
	Exporter    string
	SampleRatio float64
}

// EngineConfig tunes the matching and donation engine.
type EngineConfig struct {
	TxMaxRetries             int
	TxTimeout                time.Duration
	InventoryCacheTTL        time.Duration
	DefaultLowStockThreshold int
	EventBuffer              int
}

func (c DatabaseConfig) Enabled() bool { return c.URL != "" }
func (c RedisConfig) Enabled() bool    { return c.URL != "" }
func (c KafkaConfig) Enabled() bool    { return len(c.Brokers) > 0 }

var envKeys = []string{
	"BLOODLINK_ADDR", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	"DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_URL", "REDIS_POOL_SIZE", "REDIS_MIN_IDLE_CONNS",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_PARTITIONS",
	"TX_MAX_RETRIES", "TX_TIMEOUT", "INVENTORY_CACHE_TTL", "DEFAULT_LOW_STOCK_THRESHOLD", "EVENT_BUFFER",
	"TRACING_EXPORTER", "TRACING_SAMPLE_RATIO",
}

// Load builds a Server config from the environment, reading a .env file in
// the working directory when one exists.
func Load() (*Server, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("BLOODLINK_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("KAFKA_TOPIC", "bloodlink.lifecycle")
	v.SetDefault("KAFKA_PARTITIONS", 3)
	v.SetDefault("TX_MAX_RETRIES", 3)
	v.SetDefault("TX_TIMEOUT", "5s")
	v.SetDefault("INVENTORY_CACHE_TTL", "30s")
	v.SetDefault("DEFAULT_LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("EVENT_BUFFER", 256)
	v.SetDefault("TRACING_EXPORTER", "none")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Server{
		Addr:            v.GetString("BLOODLINK_ADDR"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    pstrings.SplitList(v.GetString("KAFKA_BROKERS")),
			Topic:      v.GetString("KAFKA_TOPIC"),
			Partitions: v.GetInt32("KAFKA_PARTITIONS"),
		},
		Engine: EngineConfig{
			TxMaxRetries:             v.GetInt("TX_MAX_RETRIES"),
			TxTimeout:                v.GetDuration("TX_TIMEOUT"),
			InventoryCacheTTL:        v.GetDuration("INVENTORY_CACHE_TTL"),
			DefaultLowStockThreshold: v.GetInt("DEFAULT_LOW_STOCK_THRESHOLD"),
			EventBuffer:              v.GetInt("EVENT_BUFFER"),
		},
		Tracing: TracingConfig{
			Exporter:    strings.ToLower(v.GetString("TRACING_EXPORTER")),
			SampleRatio: v.GetFloat64("TRACING_SAMPLE_RATIO"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("BLOODLINK_ADDR is required")
	}
	if c.Engine.TxMaxRetries < 0 {
		return fmt.Errorf("TX_MAX_RETRIES must not be negative")
	}
	if c.Engine.TxTimeout <= 0 {
		return fmt.Errorf("TX_TIMEOUT must be positive")
	}
	if c.Engine.DefaultLowStockThreshold < 0 {
		return fmt.Errorf("DEFAULT_LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	switch c.Tracing.Exporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("TRACING_EXPORTER must be none or stdout")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	return nil
}
