package cache

import (
	"context"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardSummaryKeyPrefix = "dashboard:summary"
	reconciledKeyPrefix       = "arrivals:reconciled"
)

// DashboardSummaryCache holds computed dashboards per scope (the active
// store backend). Every record mutation invalidates all scopes.
type DashboardSummaryCache interface {
	GetSummary(ctx context.Context, scope string) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, scope string, summary *domain.DashboardSummary) error
	GetReconciled(ctx context.Context, scope string) ([]domain.ArrivalView, bool, error)
	SetReconciled(ctx context.Context, scope string, views []domain.ArrivalView) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client     *redis.Client
	summaries  *jsonStore
	reconciled *jsonStore
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardSummaryCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, ttl), nil
}

// NewRedisDashboardCache wraps an existing client.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardSummaryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisDashboardCache{
		client:     client,
		summaries:  &jsonStore{client: client, ttl: ttl, prefix: dashboardSummaryKeyPrefix},
		reconciled: &jsonStore{client: client, ttl: ttl, prefix: reconciledKeyPrefix},
	}
}

func NewNoopDashboardCache() DashboardSummaryCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, scope string) (*domain.DashboardSummary, bool, error) {
	var summary domain.DashboardSummary
	ok, err := c.summaries.get(ctx, scope, &summary)
	if err != nil || !ok {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, scope string, summary *domain.DashboardSummary) error {
	return c.summaries.set(ctx, scope, summary)
}

func (c *redisDashboardCache) GetReconciled(ctx context.Context, scope string) ([]domain.ArrivalView, bool, error) {
	var views []domain.ArrivalView
	ok, err := c.reconciled.get(ctx, scope, &views)
	if err != nil || !ok {
		return nil, false, err
	}
	return views, true, nil
}

func (c *redisDashboardCache) SetReconciled(ctx context.Context, scope string, views []domain.ArrivalView) error {
	return c.reconciled.set(ctx, scope, views)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	if err := c.summaries.invalidateAll(ctx); err != nil {
		return err
	}
	return c.reconciled.invalidateAll(ctx)
}

func (n *noopDashboardCache) GetSummary(ctx context.Context, scope string) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, scope string, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) GetReconciled(ctx context.Context, scope string) ([]domain.ArrivalView, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetReconciled(ctx context.Context, scope string, views []domain.ArrivalView) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}
