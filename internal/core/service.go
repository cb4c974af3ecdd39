package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/netinventory/internal/config"
)

// Options tunes a Service.
type Options struct {
	BatchSize      int           // records per INSERT
	SheetName      string        // inventory sheet, matched case-insensitively
	MaxConcurrent  int           // parallel imports
	MaxWait        time.Duration // wait for an import slot
	BcryptCost     int
	StatsCacheTTL  time.Duration
	StatsCacheSize int
}

// OptionsFromConfig extracts service options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BatchSize:      cfg.Upload.BatchSize,
		SheetName:      cfg.Upload.SheetName,
		MaxConcurrent:  cfg.Upload.MaxConcurrent,
		MaxWait:        cfg.Upload.MaxWaitTime,
		BcryptCost:     cfg.Auth.BcryptCost,
		StatsCacheTTL:  cfg.Stats.CacheTTL,
		StatsCacheSize: cfg.Stats.CacheSize,
	}
}

// Service is the entry point for every inventory operation.
type Service struct {
	pool    *pgxpool.Pool
	opts    Options
	limiter *UploadLimiter
	stats   *statsCache
	now     func() time.Time
}

// NewService wires a Service over pool.
func NewService(pool *pgxpool.Pool, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.SheetName == "" {
		opts.SheetName = "Summary1"
	}
	return &Service{
		pool:    pool,
		opts:    opts,
		limiter: NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
		stats:   newStatsCache(opts.StatsCacheSize, opts.StatsCacheTTL),
		now:     time.Now,
	}
}

// SheetName returns the worksheet every upload must contain.
func (s *Service) SheetName() string {
	return s.opts.SheetName
}

// UploadLimiterStatus reports import slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight imports finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
