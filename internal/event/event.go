package event

import (
	"chronicle/pkg/models"
)

type Scope string

const (
	ScopeGuild Scope = "guild"
	ScopeUser  Scope = "user"
)

// Event is the canonical form of one raw gateway callback. Immutable once
// built; one value per callback.
type Event struct {
	ID   string
	Name Name
	// ScopeGuild events carry TenantID; ScopeUser events carry UserID and
	// resolve their tenant set by fan-out.
	Scope    Scope
	TenantID string
	UserID   string

	Context ActionContext
	LogLine string
}

// ActionContext is the bundle of entity references handed to script
// invocations and condition evaluation. Only the slots meaningful to the
// firing event are set; scripts detect relevance by slot presence.
type ActionContext struct {
	TenantID   string
	Member     *models.Member
	User       *models.User
	Channel    *models.Channel
	OldChannel *models.Channel
	Message    *models.Message
	Role       *models.Role
	Reaction   *models.Reaction
	Emoji      *models.Emoji
	Change     *models.Change
	Detail     string
	Count      int
}

// WithTenant returns a copy of the context rebound to another tenant, used
// when one user-scoped occurrence dispatches to several tenants.
func (c ActionContext) WithTenant(tenantID string) ActionContext {
	c.TenantID = tenantID
	return c
}

// ConditionVars flattens the context into the variable set condition
// expressions evaluate against. Absent slots become empty maps so field
// selection on the slot itself never errors.
func (c ActionContext) ConditionVars(name Name) map[string]interface{} {
	vars := map[string]interface{}{
		"event":     string(name),
		"tenant_id": c.TenantID,
		"user":      map[string]interface{}{},
		"member":    map[string]interface{}{},
		"channel":   map[string]interface{}{},
		"message":   map[string]interface{}{},
		"role":      map[string]interface{}{},
		"reaction":  map[string]interface{}{},
		"emoji":     map[string]interface{}{},
		"change":    map[string]interface{}{},
		"detail":    c.Detail,
		"count":     c.Count,
	}

	if c.User != nil {
		vars["user"] = map[string]interface{}{
			"id":  c.User.ID,
			"tag": c.User.Tag,
			"bot": c.User.Bot,
		}
	}
	if c.Member != nil {
		vars["member"] = map[string]interface{}{
			"id":       c.Member.User.ID,
			"tag":      c.Member.User.Tag,
			"bot":      c.Member.User.Bot,
			"nickname": c.Member.Nickname,
		}
	}
	if c.Channel != nil {
		vars["channel"] = map[string]interface{}{
			"id":   c.Channel.ID,
			"name": c.Channel.Name,
			"kind": c.Channel.Kind,
		}
	}
	if c.Message != nil {
		msg := map[string]interface{}{
			"id":         c.Message.ID,
			"channel_id": c.Message.ChannelID,
			"content":    c.Message.Content,
		}
		if c.Message.Author != nil {
			msg["author_id"] = c.Message.Author.ID
			msg["author_tag"] = c.Message.Author.Tag
		}
		vars["message"] = msg
	}
	if c.Role != nil {
		vars["role"] = map[string]interface{}{
			"id":       c.Role.ID,
			"name":     c.Role.Name,
			"position": c.Role.Position,
		}
	}
	if c.Reaction != nil {
		vars["reaction"] = map[string]interface{}{
			"emoji":      c.Reaction.Emoji.Name,
			"message_id": c.Reaction.MessageID,
		}
	}
	if c.Emoji != nil {
		vars["emoji"] = map[string]interface{}{
			"id":   c.Emoji.ID,
			"name": c.Emoji.Name,
			"url":  c.Emoji.URL,
		}
	}
	if c.Change != nil {
		vars["change"] = map[string]interface{}{
			"old": c.Change.Old,
			"new": c.Change.New,
		}
	}

	return vars
}
