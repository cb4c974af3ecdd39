package core

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
)

// RegionCount is the number of records in one region.
type RegionCount struct {
	Region Region `json:"region"`
	Count  int64  `json:"count"`
}

// CapacityCount is the number of records with one capacity label.
type CapacityCount struct {
	Capacity string `json:"capacity"`
	Count    int64  `json:"count"`
}

// WeekCount is the number of records created in the week starting at Week.
type WeekCount struct {
	Week  time.Time `json:"week"`
	Count int64     `json:"count"`
}

// Statistics is the dashboard overview.
type Statistics struct {
	TotalRecords  int64           `json:"totalRecords"`
	RegionStats   []RegionCount   `json:"regionStats"`
	CapacityStats []CapacityCount `json:"capacityStats"`
	WeeklyStats   []WeekCount     `json:"weeklyStats"`
	LatestImports []ImportSession `json:"latestImports"`
}

// CapacityShare is a capacity label's share of all records, in percent.
type CapacityShare struct {
	Capacity   string  `json:"capacity"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RegionCapacity counts one capacity label within one region.
type RegionCapacity struct {
	Region   Region `json:"region"`
	Capacity string `json:"capacity"`
	Count    int64  `json:"count"`
}

// MonthCapacity counts one capacity label within one month.
type MonthCapacity struct {
	Month    time.Time `json:"month"`
	Capacity string    `json:"capacity"`
	Count    int64     `json:"count"`
}

// CapacityStatistics breaks records down by capacity label.
type CapacityStatistics struct {
	CapacityDistribution []CapacityShare  `json:"capacityDistribution"`
	CapacityByRegion     []RegionCapacity `json:"capacityByRegion"`
	MonthlyTrends        []MonthCapacity  `json:"monthlyTrends"`
}

const (
	statsKey    = "statistics"
	capacityKey = "capacity"
)

// statsCache keeps computed statistics for a short TTL. With a TTL <= 0 it
// is disabled and every lookup misses.
type statsCache struct {
	lru *expirable.LRU[string, any]
}

func newStatsCache(size int, ttl time.Duration) *statsCache {
	if ttl <= 0 {
		return &statsCache{}
	}
	if size <= 0 {
		size = 16
	}
	return &statsCache{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func (c *statsCache) get(key string) (any, bool) {
	if c.lru == nil {
		statsCacheMisses.Inc()
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		statsCacheHits.Inc()
		return v, true
	}
	statsCacheMisses.Inc()
	return nil, false
}

func (c *statsCache) set(key string, v any) {
	if c.lru != nil {
		c.lru.Add(key, v)
	}
}

// purge drops everything; called after each committed import.
func (c *statsCache) purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

// Statistics returns record totals, region and capacity breakdowns, weekly
// volumes and the latest imports.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	if v, ok := s.stats.get(statsKey); ok {
		return v.(*Statistics), nil
	}

	st := &Statistics{}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM network_data`).Scan(&st.TotalRecords); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	var err error
	st.RegionStats, err = collect(ctx, s.pool, `
		SELECT region, COUNT(*) AS count
		FROM network_data
		GROUP BY region
		ORDER BY count DESC`,
		func(row pgx.CollectableRow) (RegionCount, error) {
			var rc RegionCount
			err := row.Scan(&rc.Region, &rc.Count)
			return rc, err
		})
	if err != nil {
		return nil, fmt.Errorf("region stats: %w", err)
	}

	st.CapacityStats, err = collect(ctx, s.pool, `
		SELECT capacity, COUNT(*) AS count
		FROM network_data
		WHERE capacity IS NOT NULL AND capacity <> ''
		GROUP BY capacity
		ORDER BY count DESC
		LIMIT 10`,
		func(row pgx.CollectableRow) (CapacityCount, error) {
			var cc CapacityCount
			err := row.Scan(&cc.Capacity, &cc.Count)
			return cc, err
		})
	if err != nil {
		return nil, fmt.Errorf("capacity stats: %w", err)
	}

	st.WeeklyStats, err = collect(ctx, s.pool, `
		SELECT date_trunc('week', created_at) AS week, COUNT(*) AS count
		FROM network_data
		GROUP BY week
		ORDER BY week DESC
		LIMIT 8`,
		func(row pgx.CollectableRow) (WeekCount, error) {
			var wc WeekCount
			err := row.Scan(&wc.Week, &wc.Count)
			return wc, err
		})
	if err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}

	st.LatestImports, err = listSessions(ctx, s.pool, SessionFilter{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("latest imports: %w", err)
	}

	s.stats.set(statsKey, st)
	return st, nil
}

// CapacityStatistics returns the capacity distribution overall, per region
// and per month over the last six months.
func (s *Service) CapacityStatistics(ctx context.Context) (*CapacityStatistics, error) {
	if v, ok := s.stats.get(capacityKey); ok {
		return v.(*CapacityStatistics), nil
	}

	cs := &CapacityStatistics{}
	var err error

	cs.CapacityDistribution, err = collect(ctx, s.pool, `
		SELECT capacity, COUNT(*) AS count,
			ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM network_data), 2)::float8 AS percentage
		FROM network_data
		WHERE capacity IS NOT NULL AND capacity <> ''
		GROUP BY capacity
		ORDER BY count DESC
		LIMIT 15`,
		func(row pgx.CollectableRow) (CapacityShare, error) {
			var c CapacityShare
			err := row.Scan(&c.Capacity, &c.Count, &c.Percentage)
			return c, err
		})
	if err != nil {
		return nil, fmt.Errorf("capacity distribution: %w", err)
	}

	regions := make([]string, len(Regions))
	for i, r := range Regions {
		regions[i] = string(r)
	}
	cs.CapacityByRegion, err = collect(ctx, s.pool, `
		SELECT region, capacity, COUNT(*) AS count
		FROM network_data
		WHERE capacity IS NOT NULL AND capacity <> ''
			AND region = ANY($1)
		GROUP BY region, capacity
		ORDER BY region, count DESC`,
		func(row pgx.CollectableRow) (RegionCapacity, error) {
			var rc RegionCapacity
			err := row.Scan(&rc.Region, &rc.Capacity, &rc.Count)
			return rc, err
		}, regions)
	if err != nil {
		return nil, fmt.Errorf("capacity by region: %w", err)
	}

	cs.MonthlyTrends, err = collect(ctx, s.pool, `
		SELECT date_trunc('month', created_at) AS month, capacity, COUNT(*) AS count
		FROM network_data
		WHERE capacity IS NOT NULL AND capacity <> ''
			AND created_at >= now() - INTERVAL '6 months'
		GROUP BY month, capacity
		ORDER BY month, count DESC`,
		func(row pgx.CollectableRow) (MonthCapacity, error) {
			var mc MonthCapacity
			err := row.Scan(&mc.Month, &mc.Capacity, &mc.Count)
			return mc, err
		})
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}

	s.stats.set(capacityKey, cs)
	return cs, nil
}

// collect runs query and scans every row with fn. The result is never nil so
// it encodes as a JSON array.
func collect[T any](ctx context.Context, db DBTX, query string, fn pgx.RowToFunc[T], args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
