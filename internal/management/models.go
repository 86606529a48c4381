package management

import "time"

// TenantConfig is the per-tenant logging configuration: where log lines go
// and which event names are allowed to produce them. The enabled set gates
// logging only; action records fire independently of it.
type TenantConfig struct {
	TenantID     string    `json:"tenant_id" bson:"_id"`
	LogChannelID string    `json:"log_channel_id" bson:"log_channel_id"`
	Events       []string  `json:"events" bson:"events"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ActionRecord is one tenant-authored script bound to an event name. Many
// records may share an event name; each executes independently per
// occurrence.
type ActionRecord struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  string    `json:"tenant_id" bson:"tenant_id"`
	Event     string    `json:"event" bson:"event"`
	Condition string    `json:"condition,omitempty" bson:"condition,omitempty"`
	Script    string    `json:"script" bson:"script"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type SetLogChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

type EventsRequest struct {
	Events []string `json:"events" binding:"required"`
}

type CreateActionRecordRequest struct {
	Event     string `json:"event" binding:"required"`
	Condition string `json:"condition"`
	Script    string `json:"script" binding:"required"`
}

// AuditEntry records one administrator mutation for operator visibility.
type AuditEntry struct {
	ID        string      `json:"id" bson:"_id"`
	TenantID  string      `json:"tenant_id" bson:"tenant_id"`
	Action    string      `json:"action" bson:"action"`
	OldValue  interface{} `json:"old_value,omitempty" bson:"old_value,omitempty"`
	NewValue  interface{} `json:"new_value,omitempty" bson:"new_value,omitempty"`
	ChangedBy string      `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}
