package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// StalenessThreshold is how old cached tracking data may get before a
	// read triggers a refresh.
	StalenessThreshold time.Duration `env:"STALENESS_THRESHOLD, default=6h"`
	// CarrierFetchTimeout bounds a single carrier adapter call.
	CarrierFetchTimeout time.Duration `env:"CARRIER_FETCH_TIMEOUT, default=10s"`
	// RefreshWorkers sizes the background refresh dispatcher pool.
	RefreshWorkers int `env:"REFRESH_WORKERS, default=8"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Orders OrdersConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tracking_engine"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// OrdersConfig points at the order-management collaborator.
type OrdersConfig struct {
	BaseURL string        `env:"ORDERS_BASE_URL, default=http://localhost:8081"`
	Token   string        `env:"ORDERS_TOKEN"`
	Timeout time.Duration `env:"ORDERS_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
