package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JonMunkholm/netinventory/internal/config"
)

// Monitor periodically checks PostgreSQL through the shared pool and exports
// app_dependency_* series on the default Prometheus registry.
type Monitor struct {
	dh     *dephealth.DepHealth
	db     *sql.DB
	logger *slog.Logger
}

// NewMonitor builds a dependency monitor over pool. The check runs through a
// database/sql adapter of the same pool, so pool exhaustion shows up as unhealthy.
func NewMonitor(pool *pgxpool.Pool, dsn string, cfg config.MonitorConfig) (*Monitor, error) {
	db := stdlib.OpenDBFromPool(pool)
	logger := slog.Default().With("component", "dephealth")

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group,
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(dsn),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create dependency monitor: %w", err)
	}

	return &Monitor{dh: dh, db: db, logger: logger}, nil
}

// Start begins periodic checks until Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.dh.Start(ctx); err != nil {
		return fmt.Errorf("start dependency monitor: %w", err)
	}
	m.logger.Info("dependency monitoring started")
	return nil
}

// Stop halts checks and closes the sql adapter. The pool itself stays open.
func (m *Monitor) Stop() {
	m.dh.Stop()
	m.db.Close()
	m.logger.Info("dependency monitoring stopped")
}

// Health returns the latest result per dependency name.
func (m *Monitor) Health() map[string]bool {
	return m.dh.Health()
}
