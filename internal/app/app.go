// backend-go/internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/cache"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/metrics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository/fallback"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository/local"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/storage"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/vastask"
	"github.com/rs/zerolog/log"
)

// App is the wired log book shared by the binaries.
type App struct {
	Config *config.Config
	DB     *postgres.DB
	Store  *fallback.Store
	Cache  cache.DashboardSummaryCache

	Inbound   *service.InboundService
	Dashboard *service.DashboardService
	Transfer  *service.TransferService
	VasTasks  *service.VasTaskService
}

// New builds the store stack and services. An unreachable database, cache
// or archive bucket does not fail startup; the log book then runs on the
// local cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	analytics.SetLocation(cfg.App.Location())

	a := &App{Config: cfg}

	var remote repository.Store
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
		remote = postgres.NewStore(db)
	}

	localStore, err := local.Open(cfg.Store.LocalDir)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	a.Store = fallback.New(remote, localStore, cfg.Store.ProbeTimeout())

	a.Cache, err = cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without cache")
		a.Cache = cache.NewNoopDashboardCache()
	}

	metrics.SetStoreOnline(false)
	a.Store.OnStateChange(func(online bool) {
		metrics.SetStoreOnline(online)
		if err := a.Cache.InvalidateAll(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate dashboard cache after backend switch")
		}
	})

	if a.DB != nil && cfg.Database.AutoMigrate {
		a.migrate(ctx)
	}
	if a.Store.Probe(ctx) {
		log.Info().Msg("local cache synchronised from remote store")
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			log.Warn().Err(err).Msg("export archive unavailable")
		} else {
			if err := client.EnsureBucket(ctx, cfg.Archive.Region); err != nil {
				log.Warn().Err(err).Str("bucket", cfg.Archive.Bucket).Msg("failed to ensure archive bucket")
			}
			archive = client
		}
	}

	a.Inbound = service.NewInboundService(a.Store, a.Cache)
	a.Dashboard = service.NewDashboardService(a.Store, a.Cache, analytics.Options{
		IndexedReconcile: cfg.Analytics.IndexedReconcile,
	})
	a.Transfer = service.NewTransferService(a.Inbound, archive, cfg.Archive.Prefix, cfg.Analytics.IndexedReconcile)
	a.VasTasks = service.NewVasTaskService(vastask.NewManager(), a.Inbound)

	if _, err := a.Inbound.RepairTransactions(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to repair transaction operate types")
	}

	return a, nil
}

func (a *App) migrate(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, a.Config.Store.ProbeTimeout())
	defer cancel()
	if err := a.DB.PingContext(pctx); err != nil {
		log.Warn().Err(err).Msg("database unreachable, skipping migrations")
		return
	}

	mctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := a.DB.Migrate(mctx); err != nil {
		log.Error().Err(err).Msg("database migration failed")
		return
	}
	if v, err := a.DB.MigrationVersion(mctx); err == nil {
		log.Info().Int64("version", v).Msg("database schema up to date")
	}
}

func (a *App) closeDB() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

// Close releases the store backends.
func (a *App) Close() error {
	if a.Store == nil {
		a.closeDB()
		return nil
	}
	return a.Store.Close()
}
