package broker

import (
	"context"

	"chronicle/pkg/models"
)

type Producer interface {
	PublishEvent(ctx context.Context, topic string, msg models.GatewayEnvelope) error
	PublishCommand(ctx context.Context, topic string, cmd models.CommandEnvelope) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

type HandlerFunc func(ctx context.Context, msg models.GatewayEnvelope) error
