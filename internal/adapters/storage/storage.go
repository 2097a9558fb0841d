// Package storage elige el adapter de registros según la configuración.
package storage

import (
	"context"
	"fmt"

	"health-monitor/internal/adapters/storage/docstore"
	mem "health-monitor/internal/adapters/storage/memory"
	pg "health-monitor/internal/adapters/storage/postgres"
	"health-monitor/internal/adapters/storage/sqlite"
	"health-monitor/internal/config"
	"health-monitor/internal/domain/records"
	"health-monitor/internal/platform/httpclient"
)

// Open devuelve el repositorio configurado y su cierre (siempre no-nil).
func Open(ctx context.Context, cfg config.StorageConfig) (records.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory, "":
		return mem.NewRecordRepo(), noop, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return sqlite.NewRecordsRepo(db), db.Close, nil

	case config.DriverPostgres:
		db, err := pg.Open(ctx, cfg.DSN())
		if err != nil {
			return nil, noop, err
		}
		return pg.NewRecordsRepo(db), db.Close, nil

	case config.DriverDocstore:
		headers := map[string]string{}
		if key := cfg.Docstore.APIKey(); key != "" {
			headers["X-Api-Key"] = key
		}
		client, err := httpclient.New(httpclient.Options{
			BaseURL: cfg.Docstore.BaseURL,
			Timeout: cfg.Docstore.Timeout,
			Headers: headers,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("docstore: %w", err)
		}
		return docstore.NewRecordsRepo(client, cfg.Docstore.Collection), noop, nil

	default:
		return nil, noop, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
