package management

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"chronicle/internal/constants"
	"chronicle/internal/logger"
	"chronicle/pkg/metrics"
)

// CachedRepository fronts the durable store with a Redis read-through cache.
// Reads on the dispatch hot path (tenant config, per-event action records)
// hit Redis first; every mutation invalidates the tenant's cached entries.
// Cache faults degrade to the underlying store, never to an error.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(inner Repository, client *redis.Client, ttlSeconds int, log logger.Logger) *CachedRepository {
	if ttlSeconds <= 0 {
		ttlSeconds = constants.DefaultCacheTTLSeconds
	}
	return &CachedRepository{
		inner:  inner,
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		logger: log,
	}
}

func configKey(tenantID string) string {
	return constants.CacheKeyPrefixConfig + tenantID
}

func actionsKey(tenantID, eventName string) string {
	return constants.CacheKeyPrefixActions + tenantID + ":" + eventName
}

func (r *CachedRepository) GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	key := configKey(tenantID)

	val, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var cfg TenantConfig
		if jsonErr := json.Unmarshal([]byte(val), &cfg); jsonErr == nil {
			metrics.ConfigCacheTotal.WithLabelValues("config", "hit").Inc()
			return &cfg, nil
		}
	} else if err != redis.Nil {
		r.logger.WarnwCtx(ctx, "Config cache read failed",
			"error", err,
			"tenant_id", tenantID,
		)
	}
	metrics.ConfigCacheTotal.WithLabelValues("config", "miss").Inc()

	cfg, err := r.inner.GetTenantConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if cfg != nil {
		r.store(ctx, key, cfg)
	}

	return cfg, nil
}

func (r *CachedRepository) GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	cfg, err := r.inner.GetOrCreateTenantConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	r.store(ctx, configKey(tenantID), cfg)

	return cfg, nil
}

func (r *CachedRepository) SetLogChannel(ctx context.Context, tenantID, channelID string) error {
	if err := r.inner.SetLogChannel(ctx, tenantID, channelID); err != nil {
		return err
	}
	r.invalidateConfig(ctx, tenantID)
	return nil
}

func (r *CachedRepository) AddEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	if err := r.inner.AddEnabledEvents(ctx, tenantID, events); err != nil {
		return err
	}
	r.invalidateConfig(ctx, tenantID)
	return nil
}

func (r *CachedRepository) RemoveEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	if err := r.inner.RemoveEnabledEvents(ctx, tenantID, events); err != nil {
		return err
	}
	r.invalidateConfig(ctx, tenantID)
	return nil
}

func (r *CachedRepository) CreateActionRecord(ctx context.Context, record *ActionRecord) error {
	if err := r.inner.CreateActionRecord(ctx, record); err != nil {
		return err
	}
	r.invalidateActions(ctx, record.TenantID, record.Event)
	return nil
}

func (r *CachedRepository) GetActionRecords(ctx context.Context, tenantID, eventName string) ([]ActionRecord, error) {
	key := actionsKey(tenantID, eventName)

	val, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var records []ActionRecord
		if jsonErr := json.Unmarshal([]byte(val), &records); jsonErr == nil {
			metrics.ConfigCacheTotal.WithLabelValues("actions", "hit").Inc()
			return records, nil
		}
	} else if err != redis.Nil {
		r.logger.WarnwCtx(ctx, "Actions cache read failed",
			"error", err,
			"tenant_id", tenantID,
		)
	}
	metrics.ConfigCacheTotal.WithLabelValues("actions", "miss").Inc()

	records, err := r.inner.GetActionRecords(ctx, tenantID, eventName)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, records)

	return records, nil
}

func (r *CachedRepository) ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error) {
	return r.inner.ListActionRecords(ctx, tenantID)
}

func (r *CachedRepository) DeleteActionRecord(ctx context.Context, tenantID, id string) error {
	// Fetch first so the right per-event key can be dropped.
	records, err := r.inner.ListActionRecords(ctx, tenantID)
	if err == nil {
		for _, rec := range records {
			if rec.ID == id {
				defer r.invalidateActions(ctx, tenantID, rec.Event)
				break
			}
		}
	}

	return r.inner.DeleteActionRecord(ctx, tenantID, id)
}

func (r *CachedRepository) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.WarnwCtx(ctx, "Cache write failed",
			"error", err,
			"key", key,
		)
	}
}

func (r *CachedRepository) invalidateConfig(ctx context.Context, tenantID string) {
	if err := r.client.Del(ctx, configKey(tenantID)).Err(); err != nil {
		r.logger.WarnwCtx(ctx, "Cache invalidation failed",
			"error", err,
			"tenant_id", tenantID,
		)
	}
	metrics.ConfigCacheTotal.WithLabelValues("config", "invalidate").Inc()
}

func (r *CachedRepository) invalidateActions(ctx context.Context, tenantID, eventName string) {
	if err := r.client.Del(ctx, actionsKey(tenantID, eventName)).Err(); err != nil {
		r.logger.WarnwCtx(ctx, "Cache invalidation failed",
			"error", err,
			"tenant_id", tenantID,
		)
	}
	metrics.ConfigCacheTotal.WithLabelValues("actions", "invalidate").Inc()
}
