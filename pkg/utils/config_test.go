package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", config.App.Port)
	assert.Equal(t, "5432", config.Database.Port)
	assert.Equal(t, int32(10), config.Database.MaxConns)
	assert.Equal(t, AuthModeSession, config.Auth.Mode)
	assert.Equal(t, BrokerNone, config.Broker.Kind)
	assert.Equal(t, 30*time.Second, config.Redis.QuoteCacheTTL)
	assert.Equal(t, 120, config.RateLimit.PerMinute)
	assert.Equal(t, "INR", config.Payment.Currency)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nDB_NAME=parking\nEVENT_BROKER=kafka\nKAFKA_BROKERS=k1:9092, k2:9092\nUPI_PAYEE_VPA=lot@okbank\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PORT", "7070")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", config.App.Port)
	assert.Equal(t, "parking", config.Database.Name)
	assert.Equal(t, BrokerKafka, config.Broker.Kind)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.Broker.KafkaBrokers)
	assert.Equal(t, "lot@okbank", config.Payment.PayeeVPA)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:   AuthConfig{Mode: AuthModeSession},
			Broker: BrokerConfig{Kind: BrokerNone},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthModeJWT }},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "ldap" }},
		{"rabbitmq without url", func(c *Config) { c.Broker.Kind = BrokerRabbitMQ }},
		{"kafka without brokers", func(c *Config) { c.Broker.Kind = BrokerKafka }},
		{"unknown broker", func(c *Config) { c.Broker.Kind = "nats" }},
		{"bad payee", func(c *Config) { c.Payment.PayeeVPA = "not a handle" }},
		{"negative rate limit", func(c *Config) { c.RateLimit.PerMinute = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
