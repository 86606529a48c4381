package actions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/event"
	"chronicle/internal/logger"
	"chronicle/pkg/models"
)

type recordingEffects struct {
	sent     []string
	assigned []string
	removed  []string
	failWith error
}

func (r *recordingEffects) Send(content string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.sent = append(r.sent, content)
	return nil
}

func (r *recordingEffects) AssignRole(roleID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.assigned = append(r.assigned, roleID)
	return nil
}

func (r *recordingEffects) RemoveRole(roleID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.removed = append(r.removed, roleID)
	return nil
}

func memberContext() event.ActionContext {
	return event.ActionContext{
		TenantID: "g1",
		Member: &models.Member{
			User:     models.User{ID: "u1", Tag: "alice#1234"},
			Nickname: "alice",
		},
	}
}

func TestExecuteSendEffect(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	err := interp.Execute(`send("welcome, " .. member.tag)`, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome, alice#1234"}, fx.sent)
}

func TestExecuteRoleEffects(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	script := `
assignRole("role-new")
removeRole("role-old")
`
	err := interp.Execute(script, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)
	assert.Equal(t, []string{"role-new"}, fx.assigned)
	assert.Equal(t, []string{"role-old"}, fx.removed)
}

func TestExecuteContextGlobals(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	actx := event.ActionContext{
		TenantID: "g1",
		Member:   &models.Member{User: models.User{ID: "u1", Tag: "alice#1234"}},
		Message:  &models.Message{ID: "m1", ChannelID: "c1", Content: "hello"},
	}

	script := `
if event == "message" and message.content == "hello" then
  send(tenant_id .. ":" .. message.channel_id)
end
`
	err := interp.Execute(script, actx, event.MessagePosted, fx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1:c1"}, fx.sent)
}

func TestExecuteAbsentSlotsAreNil(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	script := `
if channel == nil and role == nil then
  send("bare")
end
`
	err := interp.Execute(script, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bare"}, fx.sent)
}

func TestExecuteConditionalBranching(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	script := `
if member.nickname == "somebody else" then
  send("never")
end
`
	err := interp.Execute(script, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)
	assert.Empty(t, fx.sent)
}

func TestExecuteSyntaxErrorIsFault(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	err := interp.Execute(`this is not lua`, memberContext(), event.GuildMemberAdd, fx)
	assert.Error(t, err)
	assert.Empty(t, fx.sent)
}

func TestExecuteRuntimeErrorIsFault(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	err := interp.Execute(`send(nil.field)`, memberContext(), event.GuildMemberAdd, fx)
	assert.Error(t, err)
}

func TestExecuteFailedEffectIsFault(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{failWith: fmt.Errorf("gateway unavailable")}

	err := interp.Execute(`send("hi")`, memberContext(), event.GuildMemberAdd, fx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "send failed")
}

func TestExecuteNoSandboxEscape(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	// io and os are never opened in the script state.
	err := interp.Execute(`io.write("x")`, memberContext(), event.GuildMemberAdd, fx)
	assert.Error(t, err)

	err = interp.Execute(`os.exit(1)`, memberContext(), event.GuildMemberAdd, fx)
	assert.Error(t, err)
}

func TestExecuteStateIsolation(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())
	fx := &recordingEffects{}

	err := interp.Execute(`leak = "value"`, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)

	// A fresh state per invocation: globals never survive.
	script := `
if leak == nil then
  send("isolated")
end
`
	err = interp.Execute(script, memberContext(), event.GuildMemberAdd, fx)
	require.NoError(t, err)
	assert.Equal(t, []string{"isolated"}, fx.sent)
}

func TestCheckScript(t *testing.T) {
	interp := NewInterpreter(logger.NopLogger())

	assert.NoError(t, interp.CheckScript(`send("ok")`))
	assert.Error(t, interp.CheckScript(`if then end`))
}
