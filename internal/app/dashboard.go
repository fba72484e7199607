package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/backoffice/internal/catalog"
	"github.com/odyssey-erp/backoffice/internal/dashboard"
	"github.com/odyssey-erp/backoffice/internal/mockdata"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/records"
)

// Dashboard bundles the dashboard service with the resources it holds open.
type Dashboard struct {
	Service *dashboard.Service
	Catalog *catalog.Catalog
	Redis   *redis.Client

	closers []func()
}

// Close releases pools and clients opened by BuildDashboard.
func (d *Dashboard) Close() {
	if d == nil {
		return
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// LoadCatalog returns the embedded menu catalog unless cfg points at a file.
func LoadCatalog(cfg *Config) (*catalog.Catalog, error) {
	if cfg == nil || cfg.CatalogPath == "" {
		return catalog.Default()
	}
	f, err := os.Open(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

// BuildDashboard wires the catalog, the configured data source and the
// optional Redis cache into a dashboard service.
func BuildDashboard(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Dashboard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cat, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	out := &Dashboard{Catalog: cat}

	var provider dashboard.DataProvider
	switch cfg.DataSource {
	case DataSourcePostgres:
		pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, pool.Close)
		provider = records.NewPGRepository(pool)
	default:
		provider = mockdata.New()
	}

	var reportCache *dashboard.Cache
	if cfg.CacheEnabled() {
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err != nil {
			out.Close()
			return nil, err
		}
		out.Redis = client
		out.closers = append(out.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		})
		reportCache = dashboard.NewCache(client, cfg.CacheTTL)
	}

	logger.Info("dashboard ready",
		slog.String("data_source", cfg.DataSource),
		slog.Bool("cache", reportCache != nil),
		slog.Int("reports", len(cat.Reports())),
	)
	out.Service = dashboard.NewService(cat, provider, reportCache, metrics)
	return out, nil
}
