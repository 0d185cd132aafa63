package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/cache"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/metrics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// backendNamer is implemented by stores that can switch backend at runtime.
type backendNamer interface {
	Backend() string
}

type DashboardService struct {
	store repository.Store
	cache cache.DashboardSummaryCache
	opts  analytics.Options
}

func NewDashboardService(store repository.Store, cacheImpl cache.DashboardSummaryCache, opts analytics.Options) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{store: store, cache: cacheImpl, opts: opts}
}

// scope keys cached results by the backend that produced them.
func (s *DashboardService) scope() string {
	if b, ok := s.store.(backendNamer); ok {
		return b.Backend()
	}
	return ""
}

// Summary recomputes the dashboard from the full record sets unless a cached
// copy for the active backend exists.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	scope := s.scope()
	if summary, ok, err := s.cache.GetSummary(ctx, scope); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get summary failed")
	}

	snap, err := repository.LoadSnapshot(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	timer := prometheus.NewTimer(metrics.DashboardCompute)
	summary := analytics.Summarize(snap, s.opts)
	timer.ObserveDuration()

	if err := s.cache.SetSummary(ctx, scope, &summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set summary failed")
	}

	return &summary, nil
}

func (s *DashboardService) Pending(ctx context.Context) ([]domain.ArrivalView, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.PendingArrivals, nil
}

func (s *DashboardService) Vas(ctx context.Context) (*domain.VasSummary, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &summary.Vas, nil
}

// Reconciled returns every arrival with its computed receive, putaway and
// pending quantities, newest first.
func (s *DashboardService) Reconciled(ctx context.Context) ([]domain.ArrivalView, error) {
	scope := s.scope()
	if views, ok, err := s.cache.GetReconciled(ctx, scope); err == nil && ok {
		return views, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get reconciled failed")
	}

	snap, err := repository.LoadSnapshot(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	views := analytics.ViewArrivals(snap.Arrivals, analytics.NewCalculator(snap.Transactions, s.opts.IndexedReconcile))

	if err := s.cache.SetReconciled(ctx, scope, views); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set reconciled failed")
	}

	return views, nil
}
