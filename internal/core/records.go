package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Default page parameters for record listings.
const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// RecordPage is one page of records plus its pagination.
type RecordPage struct {
	Data       []RecordSummary `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

func newPagination(p PageRequest, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

const summaryColumns = `id, node, ne_ip, idu, capacity, location, main_stby,
	site_id_a, site_id_b, protection, region, created_at`

// ListRecords returns one page of records matching filter, newest first,
// with the total number of matches.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter, page PageRequest) (*RecordPage, error) {
	page = page.normalize()

	wb := filter.predicate()
	where, args := wb.Build()
	n := wb.NextArgIndex()

	var total int64
	countQuery := "SELECT COUNT(*) FROM network_data" + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM network_data%s ORDER BY id DESC LIMIT $%d OFFSET $%d",
		summaryColumns, where, n, n+1)
	dataArgs := append(append([]any{}, args...), page.Limit, page.offset())

	rows, err := s.pool.Query(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	data, err := pgx.CollectRows(rows, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	return &RecordPage{
		Data:       data,
		Pagination: newPagination(page, total),
	}, nil
}

func scanSummary(row pgx.CollectableRow) (RecordSummary, error) {
	var r RecordSummary
	err := row.Scan(&r.ID, &r.Node, &r.NeIP, &r.IDU, &r.Capacity, &r.Location, &r.MainStby,
		&r.SiteIDA, &r.SiteIDB, &r.Protection, &r.Region, &r.CreatedAt)
	return r, err
}
