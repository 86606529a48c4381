package directory

import (
	"sync"

	"chronicle/internal/logger"
	"chronicle/pkg/metrics"
	"chronicle/pkg/models"
)

type tenant struct {
	guild    models.Guild
	members  map[string]models.Member
	channels map[string]models.Channel
}

// Directory is the in-memory view of every tenant the process currently
// participates in, with membership and channel indexes for fan-out probes.
// Mutated only by the gateway lifecycle stream; read concurrently by fan-out
// probes. Probes see a snapshot of the tenant set taken at probe start; a
// tenant joining mid-probe may or may not be included.
type Directory struct {
	mu      sync.RWMutex
	tenants map[string]*tenant
	logger  logger.Logger
}

func New(log logger.Logger) *Directory {
	return &Directory{
		tenants: make(map[string]*tenant),
		logger:  log,
	}
}

// Upsert installs or replaces one tenant and its seed membership.
func (d *Directory) Upsert(guild models.Guild, members []models.Member, channels []models.Channel) {
	t := &tenant{
		guild:    guild,
		members:  make(map[string]models.Member, len(members)),
		channels: make(map[string]models.Channel, len(channels)),
	}
	for _, m := range members {
		t.members[m.User.ID] = m
	}
	for _, c := range channels {
		t.channels[c.ID] = c
	}

	d.mu.Lock()
	d.tenants[guild.ID] = t
	count := len(d.tenants)
	d.mu.Unlock()

	metrics.DirectoryTenants.Set(float64(count))
}

// Remove drops a tenant. No further events dispatch to it.
func (d *Directory) Remove(tenantID string) {
	d.mu.Lock()
	delete(d.tenants, tenantID)
	count := len(d.tenants)
	d.mu.Unlock()

	metrics.DirectoryTenants.Set(float64(count))
}

func (d *Directory) AddMember(tenantID string, member models.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tenants[tenantID]; ok {
		t.members[member.User.ID] = member
	}
}

func (d *Directory) RemoveMember(tenantID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tenants[tenantID]; ok {
		delete(t.members, userID)
	}
}

func (d *Directory) AddChannel(tenantID string, channel models.Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tenants[tenantID]; ok {
		t.channels[channel.ID] = channel
	}
}

func (d *Directory) RemoveChannel(tenantID, channelID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tenants[tenantID]; ok {
		delete(t.channels, channelID)
	}
}

// Snapshot returns the current tenant identifier set.
func (d *Directory) Snapshot() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.tenants))
	for id := range d.tenants {
		ids = append(ids, id)
	}
	return ids
}

// Member looks up a user's membership within one tenant. A miss is a normal
// negative result, not an error.
func (d *Directory) Member(tenantID, userID string) (models.Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tenants[tenantID]
	if !ok {
		return models.Member{}, false
	}
	m, ok := t.members[userID]
	return m, ok
}

// HasChannel reports whether the channel currently exists within the tenant.
func (d *Directory) HasChannel(tenantID, channelID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tenants[tenantID]
	if !ok {
		return false
	}
	_, ok = t.channels[channelID]
	return ok
}

// Guild returns the tenant's guild record.
func (d *Directory) Guild(tenantID string) (models.Guild, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tenants[tenantID]
	if !ok {
		return models.Guild{}, false
	}
	return t.guild, true
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tenants)
}

// Apply routes one gateway lifecycle envelope into the directory. Returns
// true when the envelope was a lifecycle mutation (and therefore not a
// dispatchable event).
func (d *Directory) Apply(env models.GatewayEnvelope) bool {
	switch env.Type {
	case models.TypeGuildCreate:
		if env.Guild == nil {
			return true
		}
		d.Upsert(*env.Guild, env.Members, env.Channels)
		d.logger.Infow("Tenant joined",
			"tenant_id", env.Guild.ID,
			"members", len(env.Members),
		)
		return true

	case models.TypeGuildDelete:
		d.Remove(env.GuildID)
		d.logger.Infow("Tenant left",
			"tenant_id", env.GuildID,
		)
		return true

	case models.TypeChannelCreate:
		if env.Channel != nil {
			d.AddChannel(env.GuildID, *env.Channel)
		}
		return true

	case models.TypeChannelDelete:
		if env.Channel != nil {
			d.RemoveChannel(env.GuildID, env.Channel.ID)
		}
		return true
	}

	// Membership maintenance piggybacks on the member events that also
	// dispatch to tenants.
	switch env.Type {
	case "guildMemberAdd":
		if env.Member != nil {
			d.AddMember(env.GuildID, *env.Member)
		}
	case "guildMemberRemove":
		if env.Member != nil {
			d.RemoveMember(env.GuildID, env.Member.User.ID)
		}
	}

	return false
}
