package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

type Config struct {
	HTTPPort           string        `env:"HTTP_PORT"            envDefault:"8080"`
	GRPCPort           string        `env:"GRPC_PORT"            envDefault:"50051"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"      envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"10s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY"     envDefault:"1048576"`

	DBPath         string `env:"DB_PATH"         envDefault:"./storefront.db"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./internal/repository/migrations"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"15m"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"checkout-completed"`
	CatalogTopic string   `env:"KAFKA_CATALOG_TOPIC" envDefault:"catalog-updated"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID"      envDefault:"storefront"`

	SessionTTL      time.Duration `env:"SESSION_TTL"      envDefault:"30m"`
	Locale          string        `env:"LOCALE"           envDefault:"ko-KR"`
	Currency        string        `env:"CURRENCY"         envDefault:"KRW"`
	RedirectDelay   time.Duration `env:"REDIRECT_DELAY"   envDefault:"1500ms"`
	ProductsPerPage int           `env:"PRODUCTS_PER_PAGE" envDefault:"6"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV"   envDefault:"production"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ProductsPerPage <= 0 {
		return nil, fmt.Errorf("PRODUCTS_PER_PAGE must be positive, got %d", cfg.ProductsPerPage)
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid LOCALE %q: %w", cfg.Locale, err)
	}
	return cfg, nil
}

// LanguageTag returns the parsed Locale. Load has already validated it.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Korean
	}
	return tag
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
