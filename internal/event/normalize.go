package event

import (
	"chronicle/pkg/models"
)

// Normalize converts one raw gateway envelope into its canonical event.
// Pure: the same envelope always yields a structurally identical event.
// Returns false when the envelope cannot be dispatched at all (no
// recognizable entity shape, or a guild-scoped occurrence without a guild);
// an unclassifiable update shape is NOT a failure and maps to the residual
// event for its entity kind instead.
func Normalize(env models.GatewayEnvelope) (*Event, bool) {
	name := Name(env.Type)
	if !Known(name) {
		name = residualFor(env)
		if name == "" {
			return nil, false
		}
	}

	scope := ScopeGuild
	userID := ""
	if UserScoped(name) {
		if env.User == nil {
			return nil, false
		}
		scope = ScopeUser
		userID = env.User.ID
	} else if env.GuildID == "" {
		return nil, false
	}

	ev := &Event{
		ID:       env.ID,
		Name:     name,
		Scope:    scope,
		TenantID: env.GuildID,
		UserID:   userID,
		Context:  buildContext(env),
		LogLine:  formatLogLine(name, env),
	}

	return ev, true
}

// residualFor picks the "update received but uninterpretable" event for the
// entity kind the envelope carries, mirroring how the upstream feed reports
// compound updates it cannot classify.
func residualFor(env models.GatewayEnvelope) Name {
	switch {
	case env.Message != nil:
		return UnhandledMessageUpdate
	case env.Role != nil:
		return UnhandledRoleUpdate
	case env.Channel != nil:
		return UnhandledGuildChannelUpdate
	case env.Member != nil:
		return UnhandledGuildMemberUpdate
	case env.User != nil:
		return UnhandledUserUpdate
	case env.Guild != nil:
		return UnhandledGuildUpdate
	}
	return ""
}

func buildContext(env models.GatewayEnvelope) ActionContext {
	return ActionContext{
		TenantID:   env.GuildID,
		Member:     env.Member,
		User:       env.User,
		Channel:    env.Channel,
		OldChannel: env.OldChannel,
		Message:    env.Message,
		Role:       env.Role,
		Reaction:   env.Reaction,
		Emoji:      env.Emoji,
		Change:     env.Change,
		Detail:     env.Detail,
		Count:      env.Count,
	}
}
