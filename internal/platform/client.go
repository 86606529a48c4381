package platform

import (
	"context"
)

// Client is the narrow surface of outbound platform effects the core may
// produce. Everything here is best effort: a failed effect is reported to
// the caller and goes no further.
type Client interface {
	SendMessage(ctx context.Context, tenantID, channelID, content string) error
	AddRole(ctx context.Context, tenantID, userID, roleID string) error
	RemoveRole(ctx context.Context, tenantID, userID, roleID string) error
}
