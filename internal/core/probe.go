package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// TableStats summarises network_data for the connectivity probe.
type TableStats struct {
	TotalRecords int64 `json:"total_records"`
	Regions      int64 `json:"regions"`
}

// ProbeResult reports a successful round trip to the database.
type ProbeResult struct {
	CurrentTime time.Time     `json:"currentTime"`
	TableStats  TableStats    `json:"tableStats"`
	Regions     []RegionCount `json:"regions"`
}

// ProbeDatabase checks connectivity and that network_data is queryable.
func (s *Service) ProbeDatabase(ctx context.Context) (*ProbeResult, error) {
	var res ProbeResult
	if err := s.pool.QueryRow(ctx, `SELECT now()`).Scan(&res.CurrentTime); err != nil {
		return nil, fmt.Errorf("probe connection: %w", err)
	}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT region) FROM network_data`,
	).Scan(&res.TableStats.TotalRecords, &res.TableStats.Regions)
	if err != nil {
		return nil, fmt.Errorf("probe table: %w", err)
	}

	res.Regions, err = collect(ctx, s.pool, `
		SELECT region, COUNT(*) AS count
		FROM network_data
		GROUP BY region
		ORDER BY count DESC
		LIMIT 10`,
		func(row pgx.CollectableRow) (RegionCount, error) {
			var rc RegionCount
			err := row.Scan(&rc.Region, &rc.Count)
			return rc, err
		})
	if err != nil {
		return nil, fmt.Errorf("probe regions: %w", err)
	}
	return &res, nil
}
