package event

// Name is one entry in the closed vocabulary of dispatchable events. The
// allowlist in tenant configuration and the event field on action records
// both draw from this set, so anything outside it is rejected at the
// management API and dropped by the normalizer.
type Name string

const (
	GuildChannelPermissionsChanged Name = "guildChannelPermissionsChanged"
	UnhandledGuildChannelUpdate    Name = "unhandledGuildChannelUpdate"

	GuildMemberBoost           Name = "guildMemberBoost"
	GuildMemberUnboost         Name = "guildMemberUnboost"
	GuildMemberRoleAdd         Name = "guildMemberRoleAdd"
	GuildMemberRoleRemove      Name = "guildMemberRoleRemove"
	GuildMemberNicknameUpdate  Name = "guildMemberNicknameUpdate"
	UnhandledGuildMemberUpdate Name = "unhandledGuildMemberUpdate"
	GuildMemberAdd             Name = "guildMemberAdd"
	GuildMemberRemove          Name = "guildMemberRemove"
	GuildMemberOnline          Name = "guildMemberOnline"
	GuildMemberOffline         Name = "guildMemberOffline"
	UnhandledPresenceUpdate    Name = "unhandledPresenceUpdate"

	GuildBoostLevelUp    Name = "guildBoostLevelUp"
	GuildBoostLevelDown  Name = "guildBoostLevelDown"
	GuildRegionUpdate    Name = "guildRegionUpdate"
	GuildBannerAdd       Name = "guildBannerAdd"
	GuildAfkChannelAdd   Name = "guildAfkChannelAdd"
	GuildVanityURLAdd    Name = "guildVanityURLAdd"
	UnhandledGuildUpdate Name = "unhandledGuildUpdate"

	MessagePosted            Name = "message"
	MessagePinned            Name = "messagePinned"
	MessageContentEdited     Name = "messageContentEdited"
	UnhandledMessageUpdate   Name = "unhandledMessageUpdate"
	MessageDelete            Name = "messageDelete"
	MessageDeleteBulk        Name = "messageDeleteBulk"
	MessageReactionAdd       Name = "messageReactionAdd"
	MessageReactionRemove    Name = "messageReactionRemove"
	MessageReactionRemoveAll Name = "messageReactionRemoveAll"

	RolePositionUpdate  Name = "rolePositionUpdate"
	UnhandledRoleUpdate Name = "unhandledRoleUpdate"

	UserAvatarUpdate    Name = "userAvatarUpdate"
	UserUsernameUpdate  Name = "userUsernameUpdate"
	UnhandledUserUpdate Name = "unhandledUserUpdate"

	VoiceChannelJoin          Name = "voiceChannelJoin"
	VoiceChannelLeave         Name = "voiceChannelLeave"
	VoiceChannelSwitch        Name = "voiceChannelSwitch"
	VoiceChannelMute          Name = "voiceChannelMute"
	VoiceChannelUnmute        Name = "voiceChannelUnmute"
	VoiceChannelDeaf          Name = "voiceChannelDeaf"
	VoiceChannelUndeaf        Name = "voiceChannelUndeaf"
	VoiceStreamingStart       Name = "voiceStreamingStart"
	VoiceStreamingStop        Name = "voiceStreamingStop"
	UnhandledVoiceStateUpdate Name = "unhandledVoiceStateUpdate"
)

var known = map[Name]struct{}{
	GuildChannelPermissionsChanged: {},
	UnhandledGuildChannelUpdate:    {},
	GuildMemberBoost:               {},
	GuildMemberUnboost:             {},
	GuildMemberRoleAdd:             {},
	GuildMemberRoleRemove:          {},
	GuildMemberNicknameUpdate:      {},
	UnhandledGuildMemberUpdate:     {},
	GuildMemberAdd:                 {},
	GuildMemberRemove:              {},
	GuildMemberOnline:              {},
	GuildMemberOffline:             {},
	UnhandledPresenceUpdate:        {},
	GuildBoostLevelUp:              {},
	GuildBoostLevelDown:            {},
	GuildRegionUpdate:              {},
	GuildBannerAdd:                 {},
	GuildAfkChannelAdd:             {},
	GuildVanityURLAdd:              {},
	UnhandledGuildUpdate:           {},
	MessagePosted:                  {},
	MessagePinned:                  {},
	MessageContentEdited:           {},
	UnhandledMessageUpdate:         {},
	MessageDelete:                  {},
	MessageDeleteBulk:              {},
	MessageReactionAdd:             {},
	MessageReactionRemove:          {},
	MessageReactionRemoveAll:       {},
	RolePositionUpdate:             {},
	UnhandledRoleUpdate:            {},
	UserAvatarUpdate:               {},
	UserUsernameUpdate:             {},
	UnhandledUserUpdate:            {},
	VoiceChannelJoin:               {},
	VoiceChannelLeave:              {},
	VoiceChannelSwitch:             {},
	VoiceChannelMute:               {},
	VoiceChannelUnmute:             {},
	VoiceChannelDeaf:               {},
	VoiceChannelUndeaf:             {},
	VoiceStreamingStart:            {},
	VoiceStreamingStop:             {},
	UnhandledVoiceStateUpdate:      {},
}

// Known reports whether name belongs to the event vocabulary.
func Known(name Name) bool {
	_, ok := known[name]
	return ok
}

// Names returns the full vocabulary, for listing in the management API.
func Names() []Name {
	out := make([]Name, 0, len(known))
	for n := range known {
		out = append(out, n)
	}
	return out
}

// Log-only events never trigger action records; the upstream feed carries
// too little actor context to build useful script bindings for them.
var logOnly = map[Name]struct{}{
	GuildChannelPermissionsChanged: {},
	UnhandledGuildChannelUpdate:    {},
	GuildBoostLevelUp:              {},
	GuildBoostLevelDown:            {},
	GuildRegionUpdate:              {},
	GuildBannerAdd:                 {},
	GuildAfkChannelAdd:             {},
	GuildVanityURLAdd:              {},
	UnhandledGuildUpdate:           {},
	UnhandledUserUpdate:            {},
	UnhandledVoiceStateUpdate:      {},
	MessageDeleteBulk:              {},
}

// HasActions reports whether action records may fire for name.
func HasActions(name Name) bool {
	_, ok := logOnly[name]
	return !ok
}

// UserScoped reports whether name concerns a user rather than a single
// guild, requiring fan-out resolution across the tenant directory.
func UserScoped(name Name) bool {
	switch name {
	case UserAvatarUpdate, UserUsernameUpdate, UnhandledUserUpdate:
		return true
	}
	return false
}
