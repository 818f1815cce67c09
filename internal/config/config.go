package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"petpoint"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	CatalogDBPath         string `envconfig:"CATALOG_DB_PATH" default:"petpoint.db"`
	CatalogMigrationsPath string `envconfig:"CATALOG_MIGRATIONS_PATH" default:"migrations/catalog"`

	OrdersDBHost         string `envconfig:"ORDERS_DB_HOST" default:"localhost"`
	OrdersDBPort         int    `envconfig:"ORDERS_DB_PORT" default:"5432"`
	OrdersDBUser         string `envconfig:"ORDERS_DB_USER" default:"postgres"`
	OrdersDBPassword     string `envconfig:"ORDERS_DB_PASSWORD" default:"postgres"`
	OrdersDBName         string `envconfig:"ORDERS_DB_NAME" default:"petpoint_orders"`
	OrdersMigrationsPath string `envconfig:"ORDERS_MIGRATIONS_PATH" default:"migrations/orders"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RemoteCallTimeout time.Duration `envconfig:"REMOTE_CALL_TIMEOUT" default:"5s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// ClearCartOnFailure keeps the source behavior of clearing the cart even
	// when every checkout line fails; switch off to let users retry
	ClearCartOnFailure bool `envconfig:"CLEAR_CART_ON_FAILURE" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("petpoint", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
