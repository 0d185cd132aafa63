package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/cache"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// InboundService owns the three record services of one store. Every
// mutation through it drops the cached dashboards.
type InboundService struct {
	store repository.Store
	cache cache.DashboardSummaryCache

	Arrivals     *ArrivalService
	Transactions *TransactionService
	Vas          *VasService
}

func NewInboundService(store repository.Store, cacheImpl cache.DashboardSummaryCache) *InboundService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	s := &InboundService{store: store, cache: cacheImpl}

	s.Arrivals = newRecordService[domain.Arrival, *domain.Arrival, domain.ArrivalPatch](
		domain.KindArrival, store.Arrivals(), arrivalFields, s.Invalidate)
	s.Transactions = newRecordService[domain.Transaction, *domain.Transaction, domain.TransactionPatch](
		domain.KindTransaction, store.Transactions(), transactionFields, s.Invalidate)
	s.Vas = newRecordService[domain.VasEntry, *domain.VasEntry, domain.VasPatch](
		domain.KindVas, store.VasEntries(), vasFields, s.Invalidate)

	return s
}

func (s *InboundService) Store() repository.Store { return s.store }

// Invalidate drops every cached dashboard.
func (s *InboundService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("inbound: cache invalidate failed")
	}
}

// RepairTransactions rewrites stored transactions whose operate type is
// missing or not canonical. Unknown values become receive.
func (s *InboundService) RepairTransactions(ctx context.Context) (int, error) {
	table := s.store.Transactions()
	txs, err := table.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	repaired := 0
	for _, t := range txs {
		if t.OperateType.Valid() {
			continue
		}
		before := t.OperateType
		t.OperateType = domain.NormalizeOperateType(string(t.OperateType))
		if err := table.Update(ctx, t); err != nil {
			return repaired, fmt.Errorf("failed to repair transaction %s: %w", t.ID, err)
		}
		log.Debug().Str("id", t.ID).Str("from", string(before)).Str("to", string(t.OperateType)).Msg("repaired operate type")
		repaired++
	}

	if repaired > 0 {
		s.Invalidate(ctx)
		log.Info().Int("count", repaired).Msg("repaired transaction operate types")
	}
	return repaired, nil
}
