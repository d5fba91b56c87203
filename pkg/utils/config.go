package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Broker    BrokerConfig
	Payment   PaymentConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	QuoteCacheTTL time.Duration
}

const (
	AuthModeSession = "session"
	AuthModeJWT     = "jwt"
)

type AuthConfig struct {
	Mode      string
	JWTSecret string
}

const (
	BrokerNone     = "none"
	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

type BrokerConfig struct {
	Kind             string
	RabbitMQURL      string
	RabbitMQExchange string
	KafkaBrokers     []string
	KafkaTopic       string
}

type PaymentConfig struct {
	PayeeVPA  string
	PayeeName string
	Currency  string
}

type RateLimitConfig struct {
	PerMinute int
}

// LoadConfig reads the optional env file at path, then lets the process
// environment override it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "parking-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("AUTH_MODE", AuthModeSession)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QUOTE_CACHE_TTL", "30s")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("EVENT_BROKER", BrokerNone)
	v.SetDefault("RABBITMQ_EXCHANGE", "parking.events")
	v.SetDefault("KAFKA_TOPIC", "parking.events")
	v.SetDefault("UPI_PAYEE_NAME", "Parking")
	v.SetDefault("CURRENCY", "INR")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:          v.GetString("REDIS_ADDR"),
			Password:      v.GetString("REDIS_PASSWORD"),
			DB:            v.GetInt("REDIS_DB"),
			QuoteCacheTTL: v.GetDuration("QUOTE_CACHE_TTL"),
		},
		Auth: AuthConfig{
			Mode:      strings.ToLower(v.GetString("AUTH_MODE")),
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Broker: BrokerConfig{
			Kind:             strings.ToLower(v.GetString("EVENT_BROKER")),
			RabbitMQURL:      v.GetString("RABBITMQ_URL"),
			RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
			KafkaBrokers:     splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:       v.GetString("KAFKA_TOPIC"),
		},
		Payment: PaymentConfig{
			PayeeVPA:  v.GetString("UPI_PAYEE_VPA"),
			PayeeName: v.GetString("UPI_PAYEE_NAME"),
			Currency:  strings.ToUpper(v.GetString("CURRENCY")),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.Mode {
	case AuthModeSession:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=jwt"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	switch c.Broker.Kind {
	case BrokerNone:
	case BrokerRabbitMQ:
		if c.Broker.RabbitMQURL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required when EVENT_BROKER=rabbitmq"))
		}
	case BrokerKafka:
		if len(c.Broker.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENT_BROKER=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENT_BROKER %q", c.Broker.Kind))
	}

	if c.Payment.PayeeVPA != "" && !IsUPIHandle(c.Payment.PayeeVPA) {
		errs = append(errs, fmt.Errorf("UPI_PAYEE_VPA %q is not a valid UPI handle", c.Payment.PayeeVPA))
	}

	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}

	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
