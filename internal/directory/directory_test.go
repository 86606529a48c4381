package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/logger"
	"chronicle/pkg/models"
)

func seedDirectory() *Directory {
	d := New(logger.NopLogger())
	d.Upsert(
		models.Guild{ID: "g1", Name: "clubhouse"},
		[]models.Member{
			{User: models.User{ID: "u1", Tag: "alice#1234"}, Nickname: "alice"},
			{User: models.User{ID: "u2", Tag: "bob#5678"}},
		},
		[]models.Channel{
			{ID: "c1", Name: "general", Kind: "text"},
			{ID: "c2", Name: "voice", Kind: "voice"},
		},
	)
	return d
}

func TestUpsertAndLookups(t *testing.T) {
	d := seedDirectory()

	assert.Equal(t, 1, d.Count())
	assert.ElementsMatch(t, []string{"g1"}, d.Snapshot())

	m, ok := d.Member("g1", "u1")
	require.True(t, ok)
	assert.Equal(t, "alice", m.Nickname)

	_, ok = d.Member("g1", "unknown")
	assert.False(t, ok)

	_, ok = d.Member("unknown", "u1")
	assert.False(t, ok)

	assert.True(t, d.HasChannel("g1", "c1"))
	assert.False(t, d.HasChannel("g1", "c9"))
	assert.False(t, d.HasChannel("unknown", "c1"))

	g, ok := d.Guild("g1")
	require.True(t, ok)
	assert.Equal(t, "clubhouse", g.Name)
}

func TestUpsertReplacesSeedState(t *testing.T) {
	d := seedDirectory()

	d.Upsert(models.Guild{ID: "g1", Name: "clubhouse"}, nil, nil)

	_, ok := d.Member("g1", "u1")
	assert.False(t, ok)
	assert.False(t, d.HasChannel("g1", "c1"))
	assert.Equal(t, 1, d.Count())
}

func TestRemove(t *testing.T) {
	d := seedDirectory()
	d.Remove("g1")

	assert.Equal(t, 0, d.Count())
	_, ok := d.Member("g1", "u1")
	assert.False(t, ok)
}

func TestMembershipMaintenance(t *testing.T) {
	d := seedDirectory()

	d.AddMember("g1", models.Member{User: models.User{ID: "u3", Tag: "carol#1111"}})
	_, ok := d.Member("g1", "u3")
	assert.True(t, ok)

	d.RemoveMember("g1", "u3")
	_, ok = d.Member("g1", "u3")
	assert.False(t, ok)

	// Mutations against unknown tenants are ignored.
	d.AddMember("unknown", models.Member{User: models.User{ID: "u9"}})
	_, ok = d.Member("unknown", "u9")
	assert.False(t, ok)
}

func TestApplyLifecycle(t *testing.T) {
	d := New(logger.NopLogger())

	handled := d.Apply(models.GatewayEnvelope{
		Type:    models.TypeGuildCreate,
		GuildID: "g1",
		Guild:   &models.Guild{ID: "g1", Name: "clubhouse"},
		Members: []models.Member{{User: models.User{ID: "u1", Tag: "alice#1234"}}},
		Channels: []models.Channel{
			{ID: "c1", Name: "general", Kind: "text"},
		},
	})
	assert.True(t, handled)
	assert.Equal(t, 1, d.Count())

	handled = d.Apply(models.GatewayEnvelope{
		Type:    models.TypeChannelCreate,
		GuildID: "g1",
		Channel: &models.Channel{ID: "c2", Name: "random", Kind: "text"},
	})
	assert.True(t, handled)
	assert.True(t, d.HasChannel("g1", "c2"))

	handled = d.Apply(models.GatewayEnvelope{
		Type:    models.TypeChannelDelete,
		GuildID: "g1",
		Channel: &models.Channel{ID: "c2"},
	})
	assert.True(t, handled)
	assert.False(t, d.HasChannel("g1", "c2"))

	handled = d.Apply(models.GatewayEnvelope{
		Type:    models.TypeGuildDelete,
		GuildID: "g1",
	})
	assert.True(t, handled)
	assert.Equal(t, 0, d.Count())
}

func TestApplyMemberEventsStillDispatch(t *testing.T) {
	d := seedDirectory()

	handled := d.Apply(models.GatewayEnvelope{
		Type:    "guildMemberAdd",
		GuildID: "g1",
		Member:  &models.Member{User: models.User{ID: "u3", Tag: "carol#1111"}},
	})
	assert.False(t, handled)
	_, ok := d.Member("g1", "u3")
	assert.True(t, ok)

	handled = d.Apply(models.GatewayEnvelope{
		Type:    "guildMemberRemove",
		GuildID: "g1",
		Member:  &models.Member{User: models.User{ID: "u3", Tag: "carol#1111"}},
	})
	assert.False(t, handled)
	_, ok = d.Member("g1", "u3")
	assert.False(t, ok)
}

func TestApplyNonLifecycleUntouched(t *testing.T) {
	d := seedDirectory()

	handled := d.Apply(models.GatewayEnvelope{
		Type:    "message",
		GuildID: "g1",
		Message: &models.Message{ID: "m1", ChannelID: "c1"},
	})
	assert.False(t, handled)
	assert.Equal(t, 1, d.Count())
}
