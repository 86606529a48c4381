package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"chronicle/internal/constants"
	"chronicle/internal/directory"
	"chronicle/internal/event"
	"chronicle/internal/logger"
	"chronicle/pkg/metrics"
	"chronicle/pkg/models"
)

// Resolver determines the tenant set an event applies to. Guild-scoped
// events resolve directly; user-scoped events scatter a membership probe
// across every tenant in the directory and gather the confirmed hits. A
// probe miss excludes the tenant and is never treated as a fault.
type Resolver struct {
	directory *directory.Directory
	limit     int
	logger    logger.Logger
}

func New(dir *directory.Directory, fanoutLimit int, log logger.Logger) *Resolver {
	if fanoutLimit <= 0 {
		fanoutLimit = constants.DefaultFanoutLimit
	}
	return &Resolver{
		directory: dir,
		limit:     fanoutLimit,
		logger:    log,
	}
}

// TenantsFor returns the tenants the event dispatches to. The result may be
// empty (a user belonging to no cached tenant), which is valid and produces
// no dispatch.
func (r *Resolver) TenantsFor(ctx context.Context, ev *event.Event) []string {
	if ev.Scope == event.ScopeGuild {
		return []string{ev.TenantID}
	}

	tenants := r.directory.Snapshot()
	if len(tenants) == 0 {
		return nil
	}

	var mu sync.Mutex
	matched := make([]string, 0, len(tenants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, tenantID := range tenants {
		tenantID := tenantID
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			if _, ok := r.directory.Member(tenantID, ev.UserID); ok {
				metrics.FanoutProbesTotal.WithLabelValues("member").Inc()
				mu.Lock()
				matched = append(matched, tenantID)
				mu.Unlock()
			} else {
				metrics.FanoutProbesTotal.WithLabelValues("miss").Inc()
			}
			return nil
		})
	}

	// Probes only record results, they never fail the group.
	_ = g.Wait()

	return matched
}

// MemberIn resolves which member performed an occurrence within a single
// tenant, used by reaction events before a script context can be built.
func (r *Resolver) MemberIn(tenantID, userID string) (models.Member, bool) {
	m, ok := r.directory.Member(tenantID, userID)
	if ok {
		metrics.FanoutProbesTotal.WithLabelValues("member").Inc()
	} else {
		metrics.FanoutProbesTotal.WithLabelValues("miss").Inc()
	}
	return m, ok
}
