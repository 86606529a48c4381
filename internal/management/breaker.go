package management

import (
	"context"

	"chronicle/pkg/circuitbreaker"
)

// BreakerRepository shields the durable store behind a circuit breaker so a
// down store sheds load fast instead of stalling every dispatch unit on
// timeouts.
type BreakerRepository struct {
	inner Repository
	cb    *circuitbreaker.Wrapper
}

func NewBreakerRepository(inner Repository, cfg circuitbreaker.Config) *BreakerRepository {
	return &BreakerRepository{
		inner: inner,
		cb:    circuitbreaker.NewWrapper(cfg),
	}
}

func (r *BreakerRepository) GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	result, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.GetTenantConfig(ctx, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*TenantConfig), nil
}

func (r *BreakerRepository) GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	result, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.GetOrCreateTenantConfig(ctx, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*TenantConfig), nil
}

func (r *BreakerRepository) SetLogChannel(ctx context.Context, tenantID, channelID string) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.inner.SetLogChannel(ctx, tenantID, channelID)
	})
	return err
}

func (r *BreakerRepository) AddEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.inner.AddEnabledEvents(ctx, tenantID, events)
	})
	return err
}

func (r *BreakerRepository) RemoveEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.inner.RemoveEnabledEvents(ctx, tenantID, events)
	})
	return err
}

func (r *BreakerRepository) CreateActionRecord(ctx context.Context, record *ActionRecord) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.inner.CreateActionRecord(ctx, record)
	})
	return err
}

func (r *BreakerRepository) GetActionRecords(ctx context.Context, tenantID, eventName string) ([]ActionRecord, error) {
	result, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.GetActionRecords(ctx, tenantID, eventName)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]ActionRecord), nil
}

func (r *BreakerRepository) ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error) {
	result, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.ListActionRecords(ctx, tenantID)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]ActionRecord), nil
}

func (r *BreakerRepository) DeleteActionRecord(ctx context.Context, tenantID, id string) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.inner.DeleteActionRecord(ctx, tenantID, id)
	})
	return err
}

func (r *BreakerRepository) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.cb.ExecuteWithContext(ctx, fn)
	r.cb.RecordRequest(err == nil)
	return result, err
}
