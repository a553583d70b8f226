package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration is the full process config, loaded once at startup.
type Configuration struct {
	Host      string    `mapstructure:"host"`
	AdminPort int       `mapstructure:"admin_port"`
	Database  Database  `mapstructure:"database"`
	Cache     Cache     `mapstructure:"cache"`
	Kafka     Kafka     `mapstructure:"kafka"`
	Metrics   Metrics   `mapstructure:"metrics"`
	Simulator Simulator `mapstructure:"simulator"`
}

// Database points at the Postgres campaign store.
type Database struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"dbname"`
	Username string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Cache selects and configures the campaign cache medium.
type Cache struct {
	// Type is "redis" (shared across instances) or "memory" (per process).
	Type       string      `mapstructure:"type"`
	TTLSeconds int         `mapstructure:"ttl_seconds"`
	Redis      RedisCache  `mapstructure:"redis"`
	Memory     MemoryCache `mapstructure:"memory"`
}

type RedisCache struct {
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      bool   `mapstructure:"tls"`
}

type MemoryCache struct {
	SizeBytes int `mapstructure:"size_bytes"`
}

// Kafka configures both sides of the transport.
type Kafka struct {
	Brokers       []string `mapstructure:"brokers"`
	RequestTopic  string   `mapstructure:"request_topic"`
	ResponseTopic string   `mapstructure:"response_topic"`
	GroupID       string   `mapstructure:"group_id"`
	// Workers is the number of concurrent bid decisions.
	Workers int `mapstructure:"workers"`
}

type Metrics struct {
	Influx     InfluxMetrics     `mapstructure:"influx"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type InfluxMetrics struct {
	Enabled         bool   `mapstructure:"enabled"`
	URL             string `mapstructure:"url"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

func (m InfluxMetrics) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

type PrometheusMetrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Simulator configures the in-process load generator.
type Simulator struct {
	Enabled  bool   `mapstructure:"enabled"`
	DataFile string `mapstructure:"data_file"`
	Workers  int    `mapstructure:"workers"`
}

// New unmarshals and validates a Configuration from viper.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (cfg *Configuration) validate() error {
	if cfg.AdminPort < 1 || cfg.AdminPort > 65535 {
		return fmt.Errorf("admin_port must be a valid port. Got %d", cfg.AdminPort)
	}
	if cfg.Cache.Type != "redis" && cfg.Cache.Type != "memory" {
		return fmt.Errorf(`cache.type must be "redis" or "memory". Got %q`, cfg.Cache.Type)
	}
	if cfg.Cache.Type == "redis" && cfg.Cache.Redis.Addr == "" {
		return errors.New("cache.redis.addr is required when cache.type is redis")
	}
	if cfg.Cache.Type == "memory" && cfg.Cache.Memory.SizeBytes < 1 {
		return fmt.Errorf("cache.memory.size_bytes must be positive. Got %d", cfg.Cache.Memory.SizeBytes)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers must contain at least one broker")
	}
	if cfg.Kafka.RequestTopic == "" || cfg.Kafka.ResponseTopic == "" {
		return errors.New("kafka.request_topic and kafka.response_topic are required")
	}
	if cfg.Kafka.GroupID == "" {
		return errors.New("kafka.group_id is required")
	}
	if cfg.Kafka.Workers < 1 {
		return fmt.Errorf("kafka.workers must be positive. Got %d", cfg.Kafka.Workers)
	}
	if cfg.Metrics.Influx.Enabled && cfg.Metrics.Influx.URL == "" {
		return errors.New("metrics.influx.url is required when influx is enabled")
	}
	if cfg.Simulator.Enabled {
		if cfg.Simulator.DataFile == "" {
			return errors.New("simulator.data_file is required when the simulator is enabled")
		}
		if cfg.Simulator.Workers < 1 {
			return fmt.Errorf("simulator.workers must be positive. Got %d", cfg.Simulator.Workers)
		}
	}
	return nil
}

// SetupViper sets the default config values and wires env overrides
// (RTB_SECTION_KEY). A config file is optional.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("admin_port", 6060)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "rtb")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")

	v.SetDefault("cache.type", "redis")
	v.SetDefault("cache.ttl_seconds", 0)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.tls", false)
	v.SetDefault("cache.memory.size_bytes", 64*1024*1024)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.request_topic", "bid-requests")
	v.SetDefault("kafka.response_topic", "bid-responses")
	v.SetDefault("kafka.group_id", "bidder-service")
	v.SetDefault("kafka.workers", 3)

	v.SetDefault("metrics.influx.enabled", false)
	v.SetDefault("metrics.influx.url", "")
	v.SetDefault("metrics.influx.database", "rtb")
	v.SetDefault("metrics.influx.username", "")
	v.SetDefault("metrics.influx.password", "")
	v.SetDefault("metrics.influx.interval_seconds", 10)
	v.SetDefault("metrics.prometheus.enabled", true)

	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.data_file", "data.csv")
	v.SetDefault("simulator.workers", 500)

	v.SetEnvPrefix("RTB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}
