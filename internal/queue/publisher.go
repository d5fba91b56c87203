// Package queue publishes reservation and payment events to a message
// broker. Delivery is best effort: callers log a failed publish and carry on.
package queue

import (
	"context"
	"fmt"

	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }

// NewPublisher builds the publisher selected by config.Kind.
func NewPublisher(config utils.BrokerConfig, log *zap.Logger) (Publisher, error) {
	switch config.Kind {
	case utils.BrokerRabbitMQ:
		return NewRabbitMQPublisher(config.RabbitMQURL, config.RabbitMQExchange, log)
	case utils.BrokerKafka:
		return NewKafkaPublisher(config.KafkaBrokers, config.KafkaTopic, log)
	case utils.BrokerNone, "":
		return NewNoopPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported event broker %q", config.Kind)
	}
}
