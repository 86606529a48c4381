package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/directory"
	"chronicle/internal/event"
	"chronicle/internal/logger"
	"chronicle/pkg/models"
)

func seedDirectory() *directory.Directory {
	d := directory.New(logger.NopLogger())
	d.Upsert(models.Guild{ID: "g1"},
		[]models.Member{{User: models.User{ID: "u1", Tag: "alice#1234"}}},
		nil)
	d.Upsert(models.Guild{ID: "g2"},
		[]models.Member{
			{User: models.User{ID: "u1", Tag: "alice#1234"}},
			{User: models.User{ID: "u2", Tag: "bob#5678"}},
		},
		nil)
	d.Upsert(models.Guild{ID: "g3"},
		[]models.Member{{User: models.User{ID: "u2", Tag: "bob#5678"}}},
		nil)
	return d
}

func TestTenantsForGuildScoped(t *testing.T) {
	r := New(seedDirectory(), 4, logger.NopLogger())

	ev := &event.Event{Name: event.GuildMemberAdd, Scope: event.ScopeGuild, TenantID: "g1"}
	tenants := r.TenantsFor(context.Background(), ev)

	assert.Equal(t, []string{"g1"}, tenants)
}

func TestTenantsForUserScopedFanout(t *testing.T) {
	r := New(seedDirectory(), 4, logger.NopLogger())

	ev := &event.Event{Name: event.UserUsernameUpdate, Scope: event.ScopeUser, UserID: "u1"}
	tenants := r.TenantsFor(context.Background(), ev)

	assert.ElementsMatch(t, []string{"g1", "g2"}, tenants)
}

func TestTenantsForUserScopedNoMatches(t *testing.T) {
	r := New(seedDirectory(), 4, logger.NopLogger())

	ev := &event.Event{Name: event.UserAvatarUpdate, Scope: event.ScopeUser, UserID: "stranger"}
	tenants := r.TenantsFor(context.Background(), ev)

	assert.Empty(t, tenants)
}

func TestTenantsForEmptyDirectory(t *testing.T) {
	r := New(directory.New(logger.NopLogger()), 4, logger.NopLogger())

	ev := &event.Event{Name: event.UserAvatarUpdate, Scope: event.ScopeUser, UserID: "u1"}
	tenants := r.TenantsFor(context.Background(), ev)

	assert.Empty(t, tenants)
}

func TestTenantsForDefaultsFanoutLimit(t *testing.T) {
	r := New(seedDirectory(), 0, logger.NopLogger())

	ev := &event.Event{Name: event.UserUsernameUpdate, Scope: event.ScopeUser, UserID: "u2"}
	tenants := r.TenantsFor(context.Background(), ev)

	assert.ElementsMatch(t, []string{"g2", "g3"}, tenants)
}

func TestMemberIn(t *testing.T) {
	r := New(seedDirectory(), 4, logger.NopLogger())

	m, ok := r.MemberIn("g1", "u1")
	require.True(t, ok)
	assert.Equal(t, "u1", m.User.ID)

	_, ok = r.MemberIn("g1", "u2")
	assert.False(t, ok)

	_, ok = r.MemberIn("unknown", "u1")
	assert.False(t, ok)
}
