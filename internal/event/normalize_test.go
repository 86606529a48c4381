package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/pkg/models"
)

func TestNormalizeGuildScoped(t *testing.T) {
	env := models.GatewayEnvelope{
		ID:      "evt-1",
		Type:    "guildMemberAdd",
		GuildID: "g1",
		Member:  &models.Member{User: models.User{ID: "u1", Tag: "alice#1234"}},
	}

	ev, ok := Normalize(env)
	require.True(t, ok)
	assert.Equal(t, GuildMemberAdd, ev.Name)
	assert.Equal(t, ScopeGuild, ev.Scope)
	assert.Equal(t, "g1", ev.TenantID)
	assert.Empty(t, ev.UserID)
	assert.Equal(t, "<@u1> (alice#1234) has joined", ev.LogLine)
	require.NotNil(t, ev.Context.Member)
	assert.Equal(t, "u1", ev.Context.Member.User.ID)
}

func TestNormalizeUserScoped(t *testing.T) {
	env := models.GatewayEnvelope{
		ID:     "evt-2",
		Type:   "userUsernameUpdate",
		User:   &models.User{ID: "u2", Tag: "bob#5678"},
		Change: &models.Change{Old: "bob", New: "bobby"},
	}

	ev, ok := Normalize(env)
	require.True(t, ok)
	assert.Equal(t, UserUsernameUpdate, ev.Name)
	assert.Equal(t, ScopeUser, ev.Scope)
	assert.Equal(t, "u2", ev.UserID)
	assert.Empty(t, ev.TenantID)
}

func TestNormalizeDeterministic(t *testing.T) {
	env := models.GatewayEnvelope{
		ID:      "evt-3",
		Type:    "guildMemberRemove",
		GuildID: "g1",
		Member:  &models.Member{User: models.User{ID: "u1", Tag: "alice#1234"}},
	}

	first, ok := Normalize(env)
	require.True(t, ok)
	second, ok := Normalize(env)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestNormalizeResidualMapping(t *testing.T) {
	tests := []struct {
		name string
		env  models.GatewayEnvelope
		want Name
	}{
		{
			name: "unknown message update",
			env: models.GatewayEnvelope{
				Type:    "somethingNew",
				GuildID: "g1",
				Message: &models.Message{ID: "m1", ChannelID: "c1"},
			},
			want: UnhandledMessageUpdate,
		},
		{
			name: "unknown role update",
			env: models.GatewayEnvelope{
				Type:    "somethingNew",
				GuildID: "g1",
				Role:    &models.Role{ID: "r1", Name: "mods"},
			},
			want: UnhandledRoleUpdate,
		},
		{
			name: "unknown channel update",
			env: models.GatewayEnvelope{
				Type:    "somethingNew",
				GuildID: "g1",
				Channel: &models.Channel{ID: "c1", Name: "general"},
			},
			want: UnhandledGuildChannelUpdate,
		},
		{
			name: "unknown member update",
			env: models.GatewayEnvelope{
				Type:    "somethingNew",
				GuildID: "g1",
				Member:  &models.Member{User: models.User{ID: "u1"}},
			},
			want: UnhandledGuildMemberUpdate,
		},
		{
			name: "unknown user update",
			env: models.GatewayEnvelope{
				Type: "somethingNew",
				User: &models.User{ID: "u1", Tag: "alice#1234"},
			},
			want: UnhandledUserUpdate,
		},
		{
			name: "unknown guild update",
			env: models.GatewayEnvelope{
				Type:    "somethingNew",
				GuildID: "g1",
				Guild:   &models.Guild{ID: "g1", Name: "clubhouse"},
			},
			want: UnhandledGuildUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := Normalize(tt.env)
			require.True(t, ok)
			assert.Equal(t, tt.want, ev.Name)
		})
	}
}

func TestNormalizeDrops(t *testing.T) {
	tests := []struct {
		name string
		env  models.GatewayEnvelope
	}{
		{
			name: "unknown type with no entity slots",
			env:  models.GatewayEnvelope{Type: "somethingNew", GuildID: "g1"},
		},
		{
			name: "guild scoped without guild id",
			env: models.GatewayEnvelope{
				Type:   "guildMemberAdd",
				Member: &models.Member{User: models.User{ID: "u1"}},
			},
		},
		{
			name: "user scoped without user",
			env:  models.GatewayEnvelope{Type: "userAvatarUpdate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(tt.env)
			assert.False(t, ok)
		})
	}
}

func TestKnownAndLogOnly(t *testing.T) {
	assert.True(t, Known(GuildMemberAdd))
	assert.True(t, Known(MessagePosted))
	assert.False(t, Known(Name("somethingNew")))

	assert.True(t, HasActions(GuildMemberAdd))
	assert.True(t, HasActions(MessageReactionAdd))
	assert.False(t, HasActions(MessageDeleteBulk))
	assert.False(t, HasActions(GuildChannelPermissionsChanged))
	assert.False(t, HasActions(GuildVanityURLAdd))
}

func TestUserScopedNames(t *testing.T) {
	assert.True(t, UserScoped(UserAvatarUpdate))
	assert.True(t, UserScoped(UserUsernameUpdate))
	assert.True(t, UserScoped(UnhandledUserUpdate))
	assert.False(t, UserScoped(GuildMemberAdd))
}

func TestNamesCoversVocabulary(t *testing.T) {
	names := Names()
	assert.Len(t, names, 44)
	for _, n := range names {
		assert.True(t, Known(n))
	}
}

func TestConditionVarsFlattening(t *testing.T) {
	actx := ActionContext{
		TenantID: "g1",
		Member:   &models.Member{User: models.User{ID: "u1", Tag: "alice#1234"}, Nickname: "alice"},
		Count:    3,
	}

	vars := actx.ConditionVars(MessageDeleteBulk)

	assert.Equal(t, "messageDeleteBulk", vars["event"])
	assert.Equal(t, "g1", vars["tenant_id"])
	assert.Equal(t, 3, vars["count"])

	member, ok := vars["member"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", member["nickname"])

	// Absent slots flatten to empty maps, not nil.
	channel, ok := vars["channel"].(map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, channel)
}

func TestWithTenantCopies(t *testing.T) {
	base := ActionContext{TenantID: "", Detail: "muted"}
	rebound := base.WithTenant("g2")
	assert.Equal(t, "g2", rebound.TenantID)
	assert.Empty(t, base.TenantID)
	assert.Equal(t, "muted", rebound.Detail)
}
