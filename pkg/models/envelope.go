package models

import "time"

// GatewayEnvelope is the wire format for one raw platform callback. The
// session process emits exactly one envelope per callback; only the slots
// meaningful to that callback are populated, everything else stays nil.
type GatewayEnvelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	GuildID   string    `json:"guild_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Guild      *Guild    `json:"guild,omitempty"`
	Member     *Member   `json:"member,omitempty"`
	User       *User     `json:"user,omitempty"`
	Channel    *Channel  `json:"channel,omitempty"`
	OldChannel *Channel  `json:"old_channel,omitempty"` // voice switch
	Message    *Message  `json:"message,omitempty"`
	Role       *Role     `json:"role,omitempty"`
	Reaction   *Reaction `json:"reaction,omitempty"`
	Emoji      *Emoji    `json:"emoji,omitempty"`

	// Before/after pair for update-style events (nickname, username,
	// avatar URL, message content, region). The specific meaning is
	// implied by Type.
	Change *Change `json:"change,omitempty"`
	// Before/after pair for numeric updates (boost level, role position).
	Level *LevelChange `json:"level,omitempty"`

	// Free-form qualifier: mute/deaf kind, presence status, vanity URL,
	// banner URL, depending on Type.
	Detail string `json:"detail,omitempty"`
	// Count of affected entities for bulk operations.
	Count int `json:"count,omitempty"`

	// Seed data carried by tenant lifecycle events (guildCreate).
	Members  []Member  `json:"members,omitempty"`
	Channels []Channel `json:"channels,omitempty"`

	Metadata Metadata `json:"metadata"`
}

type Change struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type LevelChange struct {
	Old int `json:"old"`
	New int `json:"new"`
}

type Metadata struct {
	TraceID string   `json:"trace_id,omitempty"`
	DLQ     *DLQInfo `json:"dlq,omitempty"`
}

// DLQInfo is attached when a message is parked on the dead letter topic.
type DLQInfo struct {
	Reason      string    `json:"reason"`
	SourceTopic string    `json:"source_topic"`
	Timestamp   time.Time `json:"timestamp"`
}

// Gateway lifecycle types that maintain the tenant directory rather than
// dispatch to tenants.
const (
	TypeGuildCreate   = "guildCreate"
	TypeGuildDelete   = "guildDelete"
	TypeChannelCreate = "channelCreate"
	TypeChannelDelete = "channelDelete"
)
