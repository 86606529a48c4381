package dispatch

import (
	"context"
	"sync"
	"time"

	"chronicle/internal/actions"
	"chronicle/internal/directory"
	"chronicle/internal/event"
	"chronicle/internal/logger"
	"chronicle/internal/management"
	"chronicle/internal/platform"
	"chronicle/internal/resolver"
	"chronicle/pkg/cel"
	"chronicle/pkg/errors"
	"chronicle/pkg/metrics"
	"chronicle/pkg/models"
)

// Dispatcher turns raw gateway envelopes into per-tenant log deliveries and
// action-script invocations. Delivery is at most once and best effort: a
// failure in any branch of any tenant unit is recorded and contained, never
// retried and never surfaced to the consumer loop.
type Dispatcher struct {
	gateway   management.Service
	platform  platform.Client
	resolver  *resolver.Resolver
	directory *directory.Directory
	interp    *actions.Interpreter
	evaluator *cel.Evaluator
	logger    logger.Logger
}

func NewDispatcher(
	gateway management.Service,
	pc platform.Client,
	res *resolver.Resolver,
	dir *directory.Directory,
	interp *actions.Interpreter,
	evaluator *cel.Evaluator,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		gateway:   gateway,
		platform:  pc,
		resolver:  res,
		directory: dir,
		interp:    interp,
		evaluator: evaluator,
		logger:    log,
	}
}

// OnEvent handles one envelope end to end. The returned error is always nil
// once the envelope has been accepted; dispatch failures are terminal by
// design and must not trigger redelivery.
func (d *Dispatcher) OnEvent(ctx context.Context, env models.GatewayEnvelope) error {
	if d.directory.Apply(env) {
		// Lifecycle envelopes maintain the directory and are not
		// dispatched. A newly seen tenant gets its configuration
		// document eagerly so the management API has something to show.
		if env.Type == models.TypeGuildCreate && env.GuildID != "" {
			if _, err := d.gateway.GetOrCreateTenantConfig(ctx, env.GuildID); err != nil {
				d.logger.WarnwCtx(ctx, "Failed to seed tenant configuration",
					"tenant_id", env.GuildID, "error", err)
			}
		}
		return nil
	}

	ev, ok := event.Normalize(env)
	if !ok {
		metrics.EventsDroppedTotal.Inc()
		d.logger.DebugwCtx(ctx, "Envelope dropped, no canonical event", "type", env.Type)
		return nil
	}
	metrics.EventsIngestedTotal.WithLabelValues(string(ev.Name)).Inc()

	tenants := d.resolver.TenantsFor(ctx, ev)
	if len(tenants) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, tenantID := range tenants {
		tenantID := tenantID
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.dispatchUnit(ctx, tenantID, ev)
		}()
	}
	wg.Wait()

	return nil
}

// dispatchUnit runs the log branch and the action branch for one tenant.
// The branches are independent: each reads configuration on its own and a
// failure in one leaves the other untouched.
func (d *Dispatcher) dispatchUnit(ctx context.Context, tenantID string, ev *event.Event) {
	start := time.Now()
	status := "success"
	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			d.logger.ErrorwCtx(ctx, "Dispatch unit panicked",
				"tenant_id", tenantID, "event", string(ev.Name),
				"error", errors.RecoverPanic(r))
		}
		metrics.DispatchUnitsTotal.WithLabelValues(status).Inc()
		metrics.ObserveDispatchDuration(time.Since(start), status)
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.logBranch(ctx, tenantID, ev)
	}()
	go func() {
		defer wg.Done()
		d.actionBranch(ctx, tenantID, ev)
	}()
	wg.Wait()
}

// logBranch emits the event's log line to the tenant's configured log
// channel, gated by the tenant's enabled-event allowlist.
func (d *Dispatcher) logBranch(ctx context.Context, tenantID string, ev *event.Event) {
	defer d.recoverBranch(ctx, tenantID, ev, "log")

	enabled, err := d.gateway.GetEnabledEvents(ctx, tenantID)
	if err != nil {
		metrics.ConfigReadFailuresTotal.WithLabelValues("enabled_events").Inc()
		d.logger.WarnwCtx(ctx, "Enabled events read failed, skipping log emission",
			"tenant_id", tenantID, "event", string(ev.Name), "error", err)
		return
	}
	if !containsName(enabled, ev.Name) {
		return
	}

	cfg, err := d.gateway.GetOrCreateTenantConfig(ctx, tenantID)
	if err != nil {
		metrics.ConfigReadFailuresTotal.WithLabelValues("tenant_config").Inc()
		d.logger.WarnwCtx(ctx, "Tenant config read failed, skipping log emission",
			"tenant_id", tenantID, "event", string(ev.Name), "error", err)
		return
	}

	if cfg.LogChannelID == "" || ev.LogLine == "" {
		metrics.LogDeliveriesTotal.WithLabelValues("skipped").Inc()
		return
	}
	if !d.directory.HasChannel(tenantID, cfg.LogChannelID) {
		// A configured channel that no longer exists is a silent skip,
		// the tenant fixes it through the management API.
		metrics.LogDeliveriesTotal.WithLabelValues("skipped").Inc()
		return
	}

	if err := d.platform.SendMessage(ctx, tenantID, cfg.LogChannelID, ev.LogLine); err != nil {
		metrics.LogDeliveriesTotal.WithLabelValues("failed").Inc()
		d.logger.WarnwCtx(ctx, "Log delivery failed",
			"tenant_id", tenantID, "event", string(ev.Name), "error", err)
		return
	}
	metrics.LogDeliveriesTotal.WithLabelValues("delivered").Inc()
}

// actionBranch runs every stored action record for the event whose condition
// matches. Each record is isolated: a condition fault or script fault stops
// that record only.
func (d *Dispatcher) actionBranch(ctx context.Context, tenantID string, ev *event.Event) {
	defer d.recoverBranch(ctx, tenantID, ev, "action")

	if !event.HasActions(ev.Name) {
		return
	}

	actx := ev.Context.WithTenant(tenantID)

	// Reaction envelopes carry the reacting user but not the member. The
	// member comes from the directory; an unknown user cancels the action
	// branch for this tenant while the log branch proceeds untouched.
	if isReaction(ev.Name) && actx.Member == nil {
		if actx.User == nil {
			return
		}
		m, ok := d.resolver.MemberIn(tenantID, actx.User.ID)
		if !ok {
			return
		}
		actx.Member = &m
	}

	records, err := d.gateway.GetActionRecords(ctx, tenantID, ev.Name)
	if err != nil {
		metrics.ConfigReadFailuresTotal.WithLabelValues("action_records").Inc()
		d.logger.WarnwCtx(ctx, "Action records read failed, skipping actions",
			"tenant_id", tenantID, "event", string(ev.Name), "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	vars := actx.ConditionVars(ev.Name)
	for _, record := range records {
		matched, err := d.evaluator.EvaluateCondition(ctx, record.Condition, vars)
		if err != nil {
			d.logger.WarnwCtx(ctx, "Condition evaluation failed, record skipped",
				"tenant_id", tenantID, "record_id", record.ID, "error", err)
			continue
		}
		if !matched {
			continue
		}

		fx := newEffects(ctx, d.platform, tenantID, actx)
		if err := d.interp.Execute(record.Script, actx, ev.Name, fx); err != nil {
			d.logger.WarnwCtx(ctx, "Action script faulted",
				"tenant_id", tenantID, "record_id", record.ID,
				"event", string(ev.Name), "error", err)
		}
	}
}

func (d *Dispatcher) recoverBranch(ctx context.Context, tenantID string, ev *event.Event, branch string) {
	if r := recover(); r != nil {
		d.logger.ErrorwCtx(ctx, "Dispatch branch panicked",
			"tenant_id", tenantID, "event", string(ev.Name),
			"branch", branch, "error", errors.RecoverPanic(r))
	}
}

func containsName(names []event.Name, name event.Name) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func isReaction(name event.Name) bool {
	return name == event.MessageReactionAdd ||
		name == event.MessageReactionRemove ||
		name == event.MessageReactionRemoveAll
}
