package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("API_SENTINEL_ENDPOINT", "http://localhost:8080/api/v1/analytics/events")
	t.Setenv("API_SENTINEL_KEY", "sk_test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "sk_test", cfg.SentinelAPIKey)
	assert.False(t, cfg.SentinelSync)
	assert.Equal(t, 2*time.Second, cfg.SentinelTimeout)

	gateways := cfg.Gateways()
	require.Len(t, gateways, 2)
	assert.Equal(t, GatewayConfig{Name: "stripe", Latency: 200 * time.Millisecond, FailureRate: 0.3, FailureMessage: "Stripe gateway timeout"}, gateways[0])
	assert.Equal(t, GatewayConfig{Name: "paypal", Latency: 250 * time.Millisecond, FailureRate: 0.1, FailureMessage: "PayPal processing error"}, gateways[1])
}

func TestLoadRequiresSentinelSettings(t *testing.T) {
	t.Setenv("API_SENTINEL_ENDPOINT", "")
	t.Setenv("API_SENTINEL_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PRIMARY_GATEWAY_NAME", "adyen")
	t.Setenv("PRIMARY_GATEWAY_FAILURE_RATE", "1")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("SENTINEL_SYNC", "true")
	t.Setenv("SECONDARY_GATEWAY_FAILURE_MESSAGE", "Adyen refused the charge")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "adyen", cfg.Gateways()[0].Name)
	assert.Equal(t, 1.0, cfg.Gateways()[0].FailureRate)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SentinelSync)
	assert.Equal(t, "Adyen refused the charge", cfg.Gateways()[1].FailureMessage)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Config)
	}{
		{"relative endpoint", func(c *Config) { c.SentinelEndpoint = "/events" }},
		{"failure rate above one", func(c *Config) { c.PrimaryFailureRate = 1.5 }},
		{"negative latency", func(c *Config) { c.SecondaryLatency = -time.Millisecond }},
		{"no workers", func(c *Config) { c.SentinelWorkers = 0 }},
		{"duplicate names", func(c *Config) { c.SecondaryName = c.PrimaryName }},
		{"breaker without threshold", func(c *Config) { c.BreakerMaxFailures = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			cfg, err := Load()
			require.NoError(t, err)

			tt.setup(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
