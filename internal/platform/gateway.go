package platform

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chronicle/internal/broker"
	"chronicle/internal/constants"
	"chronicle/internal/logger"
	"chronicle/pkg/logging"
	"chronicle/pkg/models"
)

// GatewayClient realizes platform effects by publishing command envelopes
// for the session process to apply. Content is clipped to the platform's
// message size limit before it goes on the wire.
type GatewayClient struct {
	producer broker.Producer
	topic    string
	logger   logger.Logger
}

func NewGatewayClient(producer broker.Producer, topic string, log logger.Logger) *GatewayClient {
	if topic == "" {
		topic = constants.DefaultCommandsTopic
	}
	return &GatewayClient{
		producer: producer,
		topic:    topic,
		logger:   log,
	}
}

func (c *GatewayClient) SendMessage(ctx context.Context, tenantID, channelID, content string) error {
	if len(content) > constants.MaxLogContentLength {
		content = content[:constants.MaxLogContentLength]
	}

	return c.publish(ctx, models.CommandEnvelope{
		ID:        uuid.New().String(),
		Type:      models.CommandSendMessage,
		GuildID:   tenantID,
		ChannelID: channelID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

func (c *GatewayClient) AddRole(ctx context.Context, tenantID, userID, roleID string) error {
	return c.publish(ctx, models.CommandEnvelope{
		ID:        uuid.New().String(),
		Type:      models.CommandAddRole,
		GuildID:   tenantID,
		UserID:    userID,
		RoleID:    roleID,
		Timestamp: time.Now().UTC(),
	})
}

func (c *GatewayClient) RemoveRole(ctx context.Context, tenantID, userID, roleID string) error {
	return c.publish(ctx, models.CommandEnvelope{
		ID:        uuid.New().String(),
		Type:      models.CommandRemoveRole,
		GuildID:   tenantID,
		UserID:    userID,
		RoleID:    roleID,
		Timestamp: time.Now().UTC(),
	})
}

func (c *GatewayClient) publish(ctx context.Context, cmd models.CommandEnvelope) error {
	cmd.Metadata.TraceID = logging.GetTraceID(ctx)

	if err := c.producer.PublishCommand(ctx, c.topic, cmd); err != nil {
		c.logger.ErrorwCtx(ctx, "Failed to publish platform command",
			"error", err,
			"command_type", cmd.Type,
			"tenant_id", cmd.GuildID,
		)
		return err
	}

	return nil
}
