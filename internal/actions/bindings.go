package actions

import (
	"github.com/Shopify/go-lua"

	"chronicle/internal/event"
)

// bindContext populates the script's globals from the action context. Only
// slots the event actually carried become tables; scripts test presence with
// a nil check.
func bindContext(state *lua.State, actx event.ActionContext, name event.Name) {
	state.PushString(string(name))
	state.SetGlobal("event")

	state.PushString(actx.TenantID)
	state.SetGlobal("tenant_id")

	if actx.Member != nil {
		state.NewTable()
		pushStringField(state, "id", actx.Member.User.ID)
		pushStringField(state, "tag", actx.Member.User.Tag)
		pushStringField(state, "nickname", actx.Member.Nickname)
		pushBoolField(state, "bot", actx.Member.User.Bot)
		state.SetGlobal("member")
	}

	if actx.User != nil {
		state.NewTable()
		pushStringField(state, "id", actx.User.ID)
		pushStringField(state, "tag", actx.User.Tag)
		pushBoolField(state, "bot", actx.User.Bot)
		state.SetGlobal("user")
	}

	if actx.Channel != nil {
		state.NewTable()
		pushStringField(state, "id", actx.Channel.ID)
		pushStringField(state, "name", actx.Channel.Name)
		pushStringField(state, "kind", actx.Channel.Kind)
		state.SetGlobal("channel")
	}

	if actx.OldChannel != nil {
		state.NewTable()
		pushStringField(state, "id", actx.OldChannel.ID)
		pushStringField(state, "name", actx.OldChannel.Name)
		pushStringField(state, "kind", actx.OldChannel.Kind)
		state.SetGlobal("old_channel")
	}

	if actx.Message != nil {
		state.NewTable()
		pushStringField(state, "id", actx.Message.ID)
		pushStringField(state, "channel_id", actx.Message.ChannelID)
		pushStringField(state, "content", actx.Message.Content)
		pushStringField(state, "attachment_url", actx.Message.AttachmentURL)
		if actx.Message.Author != nil {
			pushStringField(state, "author_id", actx.Message.Author.ID)
			pushStringField(state, "author_tag", actx.Message.Author.Tag)
		}
		state.SetGlobal("message")
	}

	if actx.Role != nil {
		state.NewTable()
		pushStringField(state, "id", actx.Role.ID)
		pushStringField(state, "name", actx.Role.Name)
		state.PushInteger(actx.Role.Position)
		state.SetField(-2, "position")
		state.SetGlobal("role")
	}

	if actx.Reaction != nil {
		state.NewTable()
		pushStringField(state, "emoji", actx.Reaction.Emoji.Name)
		pushStringField(state, "message_id", actx.Reaction.MessageID)
		state.SetGlobal("reaction")
	}

	if actx.Emoji != nil {
		state.NewTable()
		pushStringField(state, "id", actx.Emoji.ID)
		pushStringField(state, "name", actx.Emoji.Name)
		pushStringField(state, "url", actx.Emoji.URL)
		state.SetGlobal("emoji")
	}

	if actx.Change != nil {
		state.NewTable()
		pushStringField(state, "old", actx.Change.Old)
		pushStringField(state, "new", actx.Change.New)
		state.SetGlobal("change")
	}

	if actx.Detail != "" {
		state.PushString(actx.Detail)
		state.SetGlobal("detail")
	}

	if actx.Count > 0 {
		state.PushInteger(actx.Count)
		state.SetGlobal("count")
	}
}

// bindEffects registers the effect functions. A failed effect raises a Lua
// error, turning the invocation into a script fault.
func bindEffects(state *lua.State, fx Effects) {
	state.Register("send", func(l *lua.State) int {
		content := lua.CheckString(l, 1)
		if err := fx.Send(content); err != nil {
			lua.Errorf(l, "send failed: %s", err.Error())
		}
		return 0
	})

	state.Register("assignRole", func(l *lua.State) int {
		roleID := lua.CheckString(l, 1)
		if err := fx.AssignRole(roleID); err != nil {
			lua.Errorf(l, "assignRole failed: %s", err.Error())
		}
		return 0
	})

	state.Register("removeRole", func(l *lua.State) int {
		roleID := lua.CheckString(l, 1)
		if err := fx.RemoveRole(roleID); err != nil {
			lua.Errorf(l, "removeRole failed: %s", err.Error())
		}
		return 0
	})
}

func pushStringField(state *lua.State, name, value string) {
	state.PushString(value)
	state.SetField(-2, name)
}

func pushBoolField(state *lua.State, name string, value bool) {
	state.PushBoolean(value)
	state.SetField(-2, name)
}
