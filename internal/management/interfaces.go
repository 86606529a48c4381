package management

import (
	"context"

	"chronicle/internal/event"
)

// Repository is the durable store behind the configuration gateway.
type Repository interface {
	GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error)
	GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error)
	SetLogChannel(ctx context.Context, tenantID, channelID string) error
	AddEnabledEvents(ctx context.Context, tenantID string, events []string) error
	RemoveEnabledEvents(ctx context.Context, tenantID string, events []string) error

	CreateActionRecord(ctx context.Context, record *ActionRecord) error
	GetActionRecords(ctx context.Context, tenantID, eventName string) ([]ActionRecord, error)
	ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error)
	DeleteActionRecord(ctx context.Context, tenantID, id string) error
}

// Service is the configuration gateway contract: the read side feeds the
// dispatcher, the mutation side backs the management API.
type Service interface {
	GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error)
	GetEnabledEvents(ctx context.Context, tenantID string) ([]event.Name, error)
	GetActionRecords(ctx context.Context, tenantID string, name event.Name) ([]ActionRecord, error)

	SetLogChannel(ctx context.Context, tenantID string, req SetLogChannelRequest) (*TenantConfig, error)
	AddEnabledEvents(ctx context.Context, tenantID string, req EventsRequest) (*TenantConfig, error)
	RemoveEnabledEvents(ctx context.Context, tenantID string, req EventsRequest) (*TenantConfig, error)

	CreateActionRecord(ctx context.Context, tenantID string, req CreateActionRecordRequest) (*ActionRecord, error)
	ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error)
	DeleteActionRecord(ctx context.Context, tenantID, id string) error

	GetAuditEntries(ctx context.Context, tenantID string, limit int) ([]AuditEntry, error)
	ListEventNames() []event.Name
}

// ScriptChecker validates an action script before it is stored.
type ScriptChecker interface {
	CheckScript(script string) error
}

// ConditionChecker validates a condition expression before it is stored.
type ConditionChecker interface {
	ValidateConditionExpression(expression string) error
}
