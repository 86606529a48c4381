package management

import (
	"context"

	"chronicle/internal/constants"
	"chronicle/internal/event"
	"chronicle/internal/logger"
	pkgerrors "chronicle/pkg/errors"
)

type service struct {
	repo       Repository
	audit      *AuditLogger
	scripts    ScriptChecker
	conditions ConditionChecker
	logger     logger.Logger
}

type ServiceOption func(*service)

func WithAudit(audit *AuditLogger) ServiceOption {
	return func(s *service) {
		s.audit = audit
	}
}

func NewService(repo Repository, scripts ScriptChecker, conditions ConditionChecker, log logger.Logger, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		scripts:    scripts,
		conditions: conditions,
		logger:     log,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	cfg, err := s.repo.GetOrCreateTenantConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return cfg, nil
}

func (s *service) GetEnabledEvents(ctx context.Context, tenantID string) ([]event.Name, error) {
	cfg, err := s.repo.GetTenantConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if cfg == nil {
		return nil, nil
	}

	names := make([]event.Name, 0, len(cfg.Events))
	for _, e := range cfg.Events {
		names = append(names, event.Name(e))
	}
	return names, nil
}

func (s *service) GetActionRecords(ctx context.Context, tenantID string, name event.Name) ([]ActionRecord, error) {
	records, err := s.repo.GetActionRecords(ctx, tenantID, string(name))
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return records, nil
}

func (s *service) SetLogChannel(ctx context.Context, tenantID string, req SetLogChannelRequest) (*TenantConfig, error) {
	if req.ChannelID == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "channel_id is required")
	}

	old, _ := s.repo.GetTenantConfig(ctx, tenantID)

	if err := s.repo.SetLogChannel(ctx, tenantID, req.ChannelID); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.recordAudit(ctx, tenantID, "set_log_channel", old, req.ChannelID)

	return s.GetOrCreateTenantConfig(ctx, tenantID)
}

func (s *service) AddEnabledEvents(ctx context.Context, tenantID string, req EventsRequest) (*TenantConfig, error) {
	if err := ValidateEventNames(req.Events); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	old, _ := s.repo.GetTenantConfig(ctx, tenantID)

	if err := s.repo.AddEnabledEvents(ctx, tenantID, req.Events); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.recordAudit(ctx, tenantID, "add_events", old, req.Events)

	return s.GetOrCreateTenantConfig(ctx, tenantID)
}

func (s *service) RemoveEnabledEvents(ctx context.Context, tenantID string, req EventsRequest) (*TenantConfig, error) {
	if err := ValidateEventNames(req.Events); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	old, _ := s.repo.GetTenantConfig(ctx, tenantID)

	if err := s.repo.RemoveEnabledEvents(ctx, tenantID, req.Events); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.recordAudit(ctx, tenantID, "remove_events", old, req.Events)

	return s.GetOrCreateTenantConfig(ctx, tenantID)
}

func (s *service) CreateActionRecord(ctx context.Context, tenantID string, req CreateActionRecordRequest) (*ActionRecord, error) {
	if err := ValidateActionRecord(req, s.scripts, s.conditions); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	record := &ActionRecord{
		TenantID:  tenantID,
		Event:     req.Event,
		Condition: req.Condition,
		Script:    req.Script,
	}

	if err := s.repo.CreateActionRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.recordAudit(ctx, tenantID, "create_action", nil, record)

	return record, nil
}

func (s *service) ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error) {
	records, err := s.repo.ListActionRecords(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return records, nil
}

func (s *service) DeleteActionRecord(ctx context.Context, tenantID, id string) error {
	if err := s.repo.DeleteActionRecord(ctx, tenantID, id); err != nil {
		return pkgerrors.ErrNotFound.WithDetail("id", id).WithCause(err)
	}

	s.recordAudit(ctx, tenantID, "delete_action", id, nil)

	return nil
}

func (s *service) GetAuditEntries(ctx context.Context, tenantID string, limit int) ([]AuditEntry, error) {
	if s.audit == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "audit logging not enabled")
	}
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}

	entries, err := s.audit.Entries(ctx, tenantID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return entries, nil
}

func (s *service) ListEventNames() []event.Name {
	return event.Names()
}

func (s *service) recordAudit(ctx context.Context, tenantID, action string, oldValue, newValue interface{}) {
	if s.audit == nil {
		return
	}

	entry := AuditEntry{
		TenantID: tenantID,
		Action:   action,
		OldValue: oldValue,
		NewValue: newValue,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to record audit entry",
			"error", err,
			"tenant_id", tenantID,
			"action", action,
		)
	}
}
