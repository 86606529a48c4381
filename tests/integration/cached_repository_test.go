package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/logger"
	"chronicle/internal/management"
)

func newCachedRepository(t *testing.T) (*TestInfra, management.Repository) {
	t.Helper()
	infra := SetupTestInfra(t)
	inner := management.NewRepository(infra.MongoDB)
	return infra, management.NewCachedRepository(inner, infra.RedisClient, 300, logger.NopLogger())
}

func TestCachedRepositoryConfigReadThrough(t *testing.T) {
	infra, repo := newCachedRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SetLogChannel(ctx, "g1", "c1"))

	// First read populates the cache.
	cfg, err := repo.GetTenantConfig(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "c1", cfg.LogChannelID)

	keys, err := infra.RedisClient.Keys(ctx, "cfg:*").Result()
	require.NoError(t, err)
	assert.Contains(t, keys, "cfg:g1")

	// Second read is served from the cache.
	cfg, err = repo.GetTenantConfig(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cfg.LogChannelID)
}

func TestCachedRepositoryMutationInvalidates(t *testing.T) {
	infra, repo := newCachedRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SetLogChannel(ctx, "g1", "c1"))
	_, err := repo.GetTenantConfig(ctx, "g1")
	require.NoError(t, err)

	require.NoError(t, repo.SetLogChannel(ctx, "g1", "c2"))

	exists, err := infra.RedisClient.Exists(ctx, "cfg:g1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	cfg, err := repo.GetTenantConfig(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "c2", cfg.LogChannelID)
}

func TestCachedRepositoryActionsReadThrough(t *testing.T) {
	infra, repo := newCachedRepository(t)
	ctx := context.Background()

	record := &management.ActionRecord{
		TenantID: "g1",
		Event:    "guildMemberAdd",
		Script:   `send("welcome")`,
	}
	require.NoError(t, repo.CreateActionRecord(ctx, record))

	records, err := repo.GetActionRecords(ctx, "g1", "guildMemberAdd")
	require.NoError(t, err)
	require.Len(t, records, 1)

	keys, err := infra.RedisClient.Keys(ctx, "actions:*").Result()
	require.NoError(t, err)
	assert.Contains(t, keys, "actions:g1:guildMemberAdd")

	// Create for the same event drops the cached entry.
	second := &management.ActionRecord{
		TenantID: "g1",
		Event:    "guildMemberAdd",
		Script:   `assignRole("newcomer")`,
	}
	require.NoError(t, repo.CreateActionRecord(ctx, second))

	exists, err := infra.RedisClient.Exists(ctx, "actions:g1:guildMemberAdd").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	records, err = repo.GetActionRecords(ctx, "g1", "guildMemberAdd")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCachedRepositoryDeleteInvalidatesEventKey(t *testing.T) {
	infra, repo := newCachedRepository(t)
	ctx := context.Background()

	record := &management.ActionRecord{
		TenantID: "g1",
		Event:    "messageDelete",
		Script:   `send("gone")`,
	}
	require.NoError(t, repo.CreateActionRecord(ctx, record))

	_, err := repo.GetActionRecords(ctx, "g1", "messageDelete")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteActionRecord(ctx, "g1", record.ID))

	exists, err := infra.RedisClient.Exists(ctx, "actions:g1:messageDelete").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	records, err := repo.GetActionRecords(ctx, "g1", "messageDelete")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCachedRepositoryEmptyActionSetCached(t *testing.T) {
	_, repo := newCachedRepository(t)
	ctx := context.Background()

	records, err := repo.GetActionRecords(ctx, "g1", "message")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = repo.GetActionRecords(ctx, "g1", "message")
	require.NoError(t, err)
	assert.Empty(t, records)
}
