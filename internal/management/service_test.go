package management

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/event"
	"chronicle/internal/logger"
	pkgerrors "chronicle/pkg/errors"
)

type memoryRepository struct {
	configs map[string]*TenantConfig
	actions map[string][]ActionRecord
	nextID  int

	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		configs: make(map[string]*TenantConfig),
		actions: make(map[string][]ActionRecord),
	}
}

func (m *memoryRepository) GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	cfg, ok := m.configs[tenantID]
	if !ok {
		return nil, nil
	}
	clone := *cfg
	return &clone, nil
}

func (m *memoryRepository) GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	cfg, ok := m.configs[tenantID]
	if !ok {
		cfg = &TenantConfig{TenantID: tenantID, Events: []string{}}
		m.configs[tenantID] = cfg
	}
	clone := *cfg
	return &clone, nil
}

func (m *memoryRepository) SetLogChannel(ctx context.Context, tenantID, channelID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	cfg, _ := m.GetOrCreateTenantConfig(ctx, tenantID)
	cfg.LogChannelID = channelID
	m.configs[tenantID] = cfg
	return nil
}

func (m *memoryRepository) AddEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	if m.failWith != nil {
		return m.failWith
	}
	cfg, _ := m.GetOrCreateTenantConfig(ctx, tenantID)
	for _, e := range events {
		found := false
		for _, existing := range cfg.Events {
			if existing == e {
				found = true
				break
			}
		}
		if !found {
			cfg.Events = append(cfg.Events, e)
		}
	}
	m.configs[tenantID] = cfg
	return nil
}

func (m *memoryRepository) RemoveEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	if m.failWith != nil {
		return m.failWith
	}
	cfg, _ := m.GetOrCreateTenantConfig(ctx, tenantID)
	kept := cfg.Events[:0]
	for _, existing := range cfg.Events {
		drop := false
		for _, e := range events {
			if existing == e {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, existing)
		}
	}
	cfg.Events = kept
	m.configs[tenantID] = cfg
	return nil
}

func (m *memoryRepository) CreateActionRecord(ctx context.Context, record *ActionRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	record.ID = fmt.Sprintf("rec-%d", m.nextID)
	m.actions[record.TenantID] = append(m.actions[record.TenantID], *record)
	return nil
}

func (m *memoryRepository) GetActionRecords(ctx context.Context, tenantID, eventName string) ([]ActionRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []ActionRecord
	for _, r := range m.actions[tenantID] {
		if r.Event == eventName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepository) ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.actions[tenantID], nil
}

func (m *memoryRepository) DeleteActionRecord(ctx context.Context, tenantID, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	records := m.actions[tenantID]
	for i, r := range records {
		if r.ID == id {
			m.actions[tenantID] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("action record not found")
}

type passingChecker struct{}

func (passingChecker) CheckScript(script string) error {
	if strings.Contains(script, "bad") {
		return fmt.Errorf("script does not parse")
	}
	return nil
}

func (passingChecker) ValidateConditionExpression(expression string) error {
	if strings.Contains(expression, "bad") {
		return fmt.Errorf("expression does not compile")
	}
	return nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, passingChecker{}, passingChecker{}, logger.NopLogger())
}

func TestGetOrCreateTenantConfig(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	cfg, err := svc.GetOrCreateTenantConfig(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.TenantID)
	assert.Empty(t, cfg.LogChannelID)
	assert.Empty(t, cfg.Events)
}

func TestGetEnabledEventsMissingConfig(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	names, err := svc.GetEnabledEvents(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, names)
}

func TestSetLogChannel(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	cfg, err := svc.SetLogChannel(context.Background(), "g1", SetLogChannelRequest{ChannelID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", cfg.LogChannelID)
}

func TestSetLogChannelValidation(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.SetLogChannel(context.Background(), "g1", SetLogChannelRequest{})
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestAddAndRemoveEnabledEvents(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	cfg, err := svc.AddEnabledEvents(ctx, "g1", EventsRequest{Events: []string{"guildMemberAdd", "message"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"guildMemberAdd", "message"}, cfg.Events)

	names, err := svc.GetEnabledEvents(ctx, "g1")
	require.NoError(t, err)
	assert.Contains(t, names, event.GuildMemberAdd)

	cfg, err = svc.RemoveEnabledEvents(ctx, "g1", EventsRequest{Events: []string{"message"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"guildMemberAdd"}, cfg.Events)
}

func TestAddEnabledEventsRejectsUnknownName(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.AddEnabledEvents(context.Background(), "g1", EventsRequest{Events: []string{"notAnEvent"}})
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "unknown event name")
}

func TestAddEnabledEventsRejectsEmptyList(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.AddEnabledEvents(context.Background(), "g1", EventsRequest{})
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestCreateActionRecord(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	record, err := svc.CreateActionRecord(context.Background(), "g1", CreateActionRecordRequest{
		Event:     "guildMemberAdd",
		Condition: `member.bot == false`,
		Script:    `send("hi")`,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "g1", record.TenantID)

	records, err := svc.GetActionRecords(context.Background(), "g1", event.GuildMemberAdd)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCreateActionRecordValidation(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateActionRecordRequest
	}{
		{
			name: "unknown event",
			req:  CreateActionRecordRequest{Event: "notAnEvent", Script: `send("x")`},
		},
		{
			name: "log only event",
			req:  CreateActionRecordRequest{Event: "messageDeleteBulk", Script: `send("x")`},
		},
		{
			name: "empty script",
			req:  CreateActionRecordRequest{Event: "guildMemberAdd"},
		},
		{
			name: "unparseable script",
			req:  CreateActionRecordRequest{Event: "guildMemberAdd", Script: `bad syntax`},
		},
		{
			name: "bad condition",
			req: CreateActionRecordRequest{
				Event:     "guildMemberAdd",
				Condition: "bad condition",
				Script:    `send("x")`,
			},
		},
		{
			name: "oversized script",
			req: CreateActionRecordRequest{
				Event:  "guildMemberAdd",
				Script: strings.Repeat("x", 20000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateActionRecord(ctx, "g1", tt.req)
			assert.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestDeleteActionRecord(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	record, err := svc.CreateActionRecord(ctx, "g1", CreateActionRecordRequest{
		Event:  "guildMemberAdd",
		Script: `send("hi")`,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteActionRecord(ctx, "g1", record.ID))

	err = svc.DeleteActionRecord(ctx, "g1", record.ID)
	assert.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRepositoryFailuresWrapped(t *testing.T) {
	repo := newMemoryRepository()
	repo.failWith = fmt.Errorf("store down")
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.GetOrCreateTenantConfig(ctx, "g1")
	assert.Error(t, err)

	_, err = svc.GetEnabledEvents(ctx, "g1")
	assert.Error(t, err)

	_, err = svc.GetActionRecords(ctx, "g1", event.GuildMemberAdd)
	assert.Error(t, err)
}

func TestListEventNames(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	assert.Len(t, svc.ListEventNames(), 44)
}

func TestGetAuditEntriesWithoutAudit(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.GetAuditEntries(context.Background(), "g1", 10)
	assert.Error(t, err)
}
