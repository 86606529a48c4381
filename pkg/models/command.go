package models

import "time"

// Command types executed by the session process on behalf of the core.
const (
	CommandSendMessage = "send_message"
	CommandAddRole     = "add_role"
	CommandRemoveRole  = "remove_role"
)

// CommandEnvelope is the wire format for one outbound platform effect. The
// core never talks to the platform API directly; it publishes commands and
// the session process applies them, so the capability surface is exactly the
// set of command types above.
type CommandEnvelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	RoleID    string    `json:"role_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Metadata Metadata `json:"metadata"`
}
