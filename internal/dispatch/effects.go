package dispatch

import (
	"context"
	"fmt"

	"chronicle/internal/event"
	"chronicle/internal/platform"
)

// contextEffects is the per-invocation effect surface handed to a script.
// Every effect is pinned to the resolved tenant and the entities already in
// the action context, so a script can never reach outside its event.
type contextEffects struct {
	ctx      context.Context
	platform platform.Client
	tenantID string
	actx     event.ActionContext
}

func newEffects(ctx context.Context, pc platform.Client, tenantID string, actx event.ActionContext) *contextEffects {
	return &contextEffects{
		ctx:      ctx,
		platform: pc,
		tenantID: tenantID,
		actx:     actx,
	}
}

// Send posts to the channel the event occurred in.
func (e *contextEffects) Send(content string) error {
	channelID := ""
	switch {
	case e.actx.Channel != nil:
		channelID = e.actx.Channel.ID
	case e.actx.Message != nil:
		channelID = e.actx.Message.ChannelID
	}
	if channelID == "" {
		return fmt.Errorf("event carries no channel to send to")
	}
	return e.platform.SendMessage(e.ctx, e.tenantID, channelID, content)
}

func (e *contextEffects) AssignRole(roleID string) error {
	if e.actx.Member == nil {
		return fmt.Errorf("event carries no member to assign a role to")
	}
	return e.platform.AddRole(e.ctx, e.tenantID, e.actx.Member.User.ID, roleID)
}

func (e *contextEffects) RemoveRole(roleID string) error {
	if e.actx.Member == nil {
		return fmt.Errorf("event carries no member to remove a role from")
	}
	return e.platform.RemoveRole(e.ctx, e.tenantID, e.actx.Member.User.ID, roleID)
}
