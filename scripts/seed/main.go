package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/odyssey-erp/backoffice/internal/app"
	"github.com/odyssey-erp/backoffice/internal/mockdata"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/records"
)

// Loads the demo fixtures into backoffice_records so the postgres data
// source serves the same reports as the mock one.
func main() {
	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := records.NewPGRepository(pool)
	fixtures := mockdata.New()
	for _, source := range mockdata.Sources() {
		recs, err := fixtures.Records(ctx, source)
		if err != nil {
			logger.Error("load fixtures", slog.String("source", source), slog.Any("error", err))
			os.Exit(1)
		}
		if err := repo.Replace(ctx, source, recs); err != nil {
			logger.Error("seed records", slog.String("source", source), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("seeded records", slog.String("source", source), slog.Int("count", len(recs)))
	}
	logger.Info("seed complete", slog.String("at", time.Now().Format(time.RFC3339)))
}
