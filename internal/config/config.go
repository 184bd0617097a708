package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ilanmarket/listing-service/internal/platform/logger"
)

// Config holds all configuration for the service. Values come from the
// environment with the LISTING_ prefix, e.g. LISTING_MONGO_URI.
type Config struct {
	ServiceName string           `mapstructure:"service_name"`
	HTTP        HTTPConfig       `mapstructure:"http"`
	Mongo       MongoConfig      `mapstructure:"mongo"`
	Redis       RedisConfig      `mapstructure:"redis"`
	NATS        NATSConfig       `mapstructure:"nats"`
	Minio       MinioConfig      `mapstructure:"minio"`
	Translator  TranslatorConfig `mapstructure:"translator"`
	JWT         JWTConfig        `mapstructure:"jwt"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`
	Logger      logger.Config    `mapstructure:"log"`
	Tracing     TracingConfig    `mapstructure:"tracing"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type TranslatorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("service_name", "listing_service")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "ilanmarket_listings")
	v.SetDefault("mongo.username", "")
	v.SetDefault("mongo.password", "")
	v.SetDefault("mongo.min_pool_size", 0)
	v.SetDefault("mongo.max_pool_size", 100)
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "listing-media")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("translator.base_url", "")
	v.SetDefault("translator.api_key", "")
	v.SetDefault("translator.timeout", 10*time.Second)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("metrics.port", "9090")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.otlp_endpoint", "")

	v.SetEnvPrefix("LISTING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Mongo.Database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &cfg, nil
}
