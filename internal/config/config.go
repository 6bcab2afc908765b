package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type GatewayConfig struct {
	Name           string
	Latency        time.Duration
	FailureRate    float64
	FailureMessage string
}

type Config struct {
	Port            string        `env:"PORT" envDefault:"3001"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	SentinelEndpoint  string        `env:"API_SENTINEL_ENDPOINT,required,notEmpty"`
	SentinelAPIKey    string        `env:"API_SENTINEL_KEY,required,notEmpty"`
	SentinelTimeout   time.Duration `env:"SENTINEL_TIMEOUT" envDefault:"2s"`
	SentinelSync      bool          `env:"SENTINEL_SYNC" envDefault:"false"`
	SentinelWorkers   int           `env:"SENTINEL_WORKERS" envDefault:"2"`
	SentinelQueueSize int           `env:"SENTINEL_QUEUE_SIZE" envDefault:"1024"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"payment.failover"`
	NatsURL      string   `env:"NATS_URL"`
	NatsSubject  string   `env:"NATS_SUBJECT" envDefault:"payment.failover"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`

	PrimaryName             string        `env:"PRIMARY_GATEWAY_NAME" envDefault:"stripe"`
	PrimaryLatency          time.Duration `env:"PRIMARY_GATEWAY_LATENCY" envDefault:"200ms"`
	PrimaryFailureRate      float64       `env:"PRIMARY_GATEWAY_FAILURE_RATE" envDefault:"0.3"`
	PrimaryFailureMessage   string        `env:"PRIMARY_GATEWAY_FAILURE_MESSAGE" envDefault:"Stripe gateway timeout"`
	SecondaryName           string        `env:"SECONDARY_GATEWAY_NAME" envDefault:"paypal"`
	SecondaryLatency        time.Duration `env:"SECONDARY_GATEWAY_LATENCY" envDefault:"250ms"`
	SecondaryFailureRate    float64       `env:"SECONDARY_GATEWAY_FAILURE_RATE" envDefault:"0.1"`
	SecondaryFailureMessage string        `env:"SECONDARY_GATEWAY_FAILURE_MESSAGE" envDefault:"PayPal processing error"`

	BreakerEnabled     bool          `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"true"`
	BreakerMaxFailures uint32        `env:"CIRCUIT_BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"CIRCUIT_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// Load reads an optional .env file, parses the environment and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.SentinelEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_SENTINEL_ENDPOINT must be an absolute URL, got %q", c.SentinelEndpoint))
	}
	if c.SentinelWorkers < 1 {
		errs = append(errs, errors.New("SENTINEL_WORKERS must be at least 1"))
	}
	if c.SentinelQueueSize < 1 {
		errs = append(errs, errors.New("SENTINEL_QUEUE_SIZE must be at least 1"))
	}
	if c.SentinelTimeout <= 0 {
		errs = append(errs, errors.New("SENTINEL_TIMEOUT must be positive"))
	}

	for _, g := range c.Gateways() {
		if g.Name == "" {
			errs = append(errs, errors.New("gateway name must not be empty"))
		}
		if g.Latency < 0 {
			errs = append(errs, fmt.Errorf("gateway %s: latency must not be negative", g.Name))
		}
		if g.FailureRate < 0 || g.FailureRate > 1 {
			errs = append(errs, fmt.Errorf("gateway %s: failure rate %v outside [0,1]", g.Name, g.FailureRate))
		}
	}
	if c.PrimaryName == c.SecondaryName {
		errs = append(errs, fmt.Errorf("primary and secondary gateway share the name %q", c.PrimaryName))
	}

	if c.BreakerEnabled && c.BreakerMaxFailures == 0 {
		errs = append(errs, errors.New("CIRCUIT_BREAKER_MAX_FAILURES must be at least 1"))
	}

	return errors.Join(errs...)
}

// Gateways returns the fallback order: primary first.
func (c *Config) Gateways() []GatewayConfig {
	return []GatewayConfig{
		{Name: c.PrimaryName, Latency: c.PrimaryLatency, FailureRate: c.PrimaryFailureRate, FailureMessage: c.PrimaryFailureMessage},
		{Name: c.SecondaryName, Latency: c.SecondaryLatency, FailureRate: c.SecondaryFailureRate, FailureMessage: c.SecondaryFailureMessage},
	}
}
