package event

import (
	"fmt"
	"strings"

	"chronicle/pkg/models"
)

// safe strips backticks so quoted user content cannot break out of the
// fenced block in the emitted log line.
func safe(s string) string {
	return strings.ReplaceAll(s, "`", "")
}

func mention(u models.User) string {
	return fmt.Sprintf("<@%s> (%s)", u.ID, u.Tag)
}

func messageRef(tenantID, channelID, messageID string) string {
	return fmt.Sprintf("message %s/%s/%s", tenantID, channelID, messageID)
}

func guildName(env models.GatewayEnvelope) string {
	if env.Guild != nil && env.Guild.Name != "" {
		return env.Guild.Name
	}
	return env.GuildID
}

// formatLogLine renders the human-readable description for one normalized
// occurrence. Returns "" when the envelope is missing the slots the event's
// wording needs; the dispatcher skips logging in that case.
func formatLogLine(name Name, env models.GatewayEnvelope) string {
	switch name {
	case GuildChannelPermissionsChanged:
		if env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("%s's permissions changed!", env.Channel.Name)

	case UnhandledGuildChannelUpdate:
		if env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("Channel '%s' was edited but the changes were not known", env.Channel.ID)

	case GuildMemberBoost:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s has started boosting %s", mention(env.Member.User), guildName(env))

	case GuildMemberUnboost:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s has stopped boosting %s...", mention(env.Member.User), guildName(env))

	case GuildMemberRoleAdd:
		if env.Member == nil || env.Role == nil {
			return ""
		}
		return fmt.Sprintf("%s acquired the role: %s", mention(env.Member.User), env.Role.Name)

	case GuildMemberRoleRemove:
		if env.Member == nil || env.Role == nil {
			return ""
		}
		return fmt.Sprintf("%s lost the role: %s", mention(env.Member.User), env.Role.Name)

	case GuildMemberNicknameUpdate:
		if env.Member == nil || env.Change == nil {
			return ""
		}
		return fmt.Sprintf("%s's nickname was %s and is now %s", mention(env.Member.User), env.Change.Old, env.Change.New)

	case UnhandledGuildMemberUpdate:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s was edited but the update was not known", mention(env.Member.User))

	case GuildMemberAdd:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s has joined", mention(env.Member.User))

	case GuildMemberRemove:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s has left/been kicked or banned", mention(env.Member.User))

	case GuildMemberOnline:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s was offline and is now %s", mention(env.Member.User), env.Detail)

	case GuildMemberOffline:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s became offline", mention(env.Member.User))

	case UnhandledPresenceUpdate:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("Presence for member %s was updated but the changes were not known", mention(env.Member.User))

	case GuildBoostLevelUp:
		if env.Level == nil {
			return ""
		}
		return fmt.Sprintf("%s reaches the boost level: %d", guildName(env), env.Level.New)

	case GuildBoostLevelDown:
		if env.Level == nil {
			return ""
		}
		return fmt.Sprintf("%s returned to the boost level: %d", guildName(env), env.Level.New)

	case GuildRegionUpdate:
		if env.Change == nil {
			return ""
		}
		return fmt.Sprintf("%s region is now %s", guildName(env), env.Change.New)

	case GuildBannerAdd:
		return fmt.Sprintf("%s has a banner now!", guildName(env))

	case GuildAfkChannelAdd:
		return fmt.Sprintf("%s has an AFK channel now!", guildName(env))

	case GuildVanityURLAdd:
		return fmt.Sprintf("%s has added a vanity url : %s", guildName(env), env.Detail)

	case UnhandledGuildUpdate:
		return fmt.Sprintf("Guild '%s' was edited but the changes were not known", guildName(env))

	case MessagePosted:
		if env.Message == nil || env.Message.Author == nil {
			return ""
		}
		return fmt.Sprintf("%s posted message: ```%s```", mention(*env.Message.Author), safe(env.Message.Content))

	case MessagePinned:
		if env.Message == nil || env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("Message %s has been pinned to %s: ```%s```",
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID), env.Channel.Name, safe(env.Message.Content))

	case MessageContentEdited:
		if env.Message == nil || env.Change == nil {
			return ""
		}
		return fmt.Sprintf("Message %s has been edited from ```%s``` to ```%s```",
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID), safe(env.Change.Old), safe(env.Change.New))

	case UnhandledMessageUpdate:
		if env.Message == nil {
			return ""
		}
		return fmt.Sprintf("Message %s was updated but the changes were not known",
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID))

	case MessageDelete:
		if env.Message == nil || env.Message.Author == nil {
			return ""
		}
		attachment := ""
		if env.Message.AttachmentURL != "" {
			attachment = " with attachment " + env.Message.AttachmentURL
		}
		channelName := env.Message.ChannelID
		if env.Channel != nil {
			channelName = env.Channel.Name
		}
		return fmt.Sprintf("%s's message ```%s```%s from %s was deleted",
			mention(*env.Message.Author), safe(env.Message.Content), attachment, channelName)

	case MessageDeleteBulk:
		return fmt.Sprintf("%d messages were deleted.", env.Count)

	case MessageReactionAdd:
		if env.User == nil || env.Reaction == nil || env.Message == nil {
			return ""
		}
		return fmt.Sprintf("%s has reacted with %s (%s) to %s",
			mention(*env.User), env.Reaction.Emoji.Name, env.Reaction.Emoji.URL,
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID))

	case MessageReactionRemove:
		if env.User == nil || env.Reaction == nil || env.Message == nil {
			return ""
		}
		return fmt.Sprintf("%s has removed reaction %s (%s) to %s",
			mention(*env.User), env.Reaction.Emoji.Name, env.Reaction.Emoji.URL,
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID))

	case MessageReactionRemoveAll:
		if env.Message == nil {
			return ""
		}
		return fmt.Sprintf("Message %s has had all reactions removed",
			messageRef(env.GuildID, env.Message.ChannelID, env.Message.ID))

	case RolePositionUpdate:
		if env.Role == nil || env.Level == nil {
			return ""
		}
		return fmt.Sprintf("%s was at position %d and now is at position %d", env.Role.Name, env.Level.Old, env.Level.New)

	case UnhandledRoleUpdate:
		if env.Role == nil {
			return ""
		}
		return fmt.Sprintf("Role '%s' was updated but the changes were not known", env.Role.Name)

	case UserAvatarUpdate:
		if env.User == nil || env.Change == nil {
			return ""
		}
		return fmt.Sprintf("%s avatar changed from %s to %s", mention(*env.User), env.Change.Old, env.Change.New)

	case UserUsernameUpdate:
		if env.User == nil || env.Change == nil {
			return ""
		}
		return fmt.Sprintf("%s username changed from '%s' to '%s'", mention(*env.User), env.Change.Old, env.Change.New)

	case UnhandledUserUpdate:
		if env.User == nil {
			return ""
		}
		return fmt.Sprintf("User %s was updated but the changes were not known", mention(*env.User))

	case VoiceChannelJoin:
		if env.Member == nil || env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("%s joined voice channel '%s'", mention(env.Member.User), env.Channel.Name)

	case VoiceChannelLeave:
		if env.Member == nil || env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("%s left voice channel '%s'", mention(env.Member.User), env.Channel.Name)

	case VoiceChannelSwitch:
		if env.Member == nil || env.Channel == nil || env.OldChannel == nil {
			return ""
		}
		return fmt.Sprintf("%s left voice channel '%s' and joined voice channel '%s'",
			mention(env.Member.User), env.OldChannel.Name, env.Channel.Name)

	case VoiceChannelMute, VoiceChannelDeaf:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s is now %s", mention(env.Member.User), env.Detail)

	case VoiceChannelUnmute:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s is now unmuted", mention(env.Member.User))

	case VoiceChannelUndeaf:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s is now undeafened", mention(env.Member.User))

	case VoiceStreamingStart:
		if env.Member == nil || env.Channel == nil {
			return ""
		}
		return fmt.Sprintf("%s started streaming in %s", mention(env.Member.User), env.Channel.Name)

	case VoiceStreamingStop:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("%s stopped streaming", mention(env.Member.User))

	case UnhandledVoiceStateUpdate:
		if env.Member == nil {
			return ""
		}
		return fmt.Sprintf("Voice state for member %s was updated but the changes were not known", mention(env.Member.User))
	}

	return ""
}
