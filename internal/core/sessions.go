package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SessionFilter narrows ListSessions. A zero Limit returns every session.
type SessionFilter struct {
	Region *Region
	Limit  int
}

// ListSessions returns import sessions newest first, each with the number of
// records that reference it.
func (s *Service) ListSessions(ctx context.Context, filter SessionFilter) ([]ImportSession, error) {
	return listSessions(ctx, s.pool, filter)
}

func listSessions(ctx context.Context, db DBTX, filter SessionFilter) ([]ImportSession, error) {
	wb := NewWhereBuilder()
	if filter.Region != nil {
		wb.Eq("s.region", string(*filter.Region))
	}
	where, args := wb.Build()

	query := `SELECT s.id, s.user_id, s.region, s.file_name, s.import_date, s.created_at,
		(SELECT COUNT(*) FROM network_data d WHERE d.session_id = s.id) AS record_count
		FROM import_sessions s` + where + ` ORDER BY s.created_at DESC, s.id DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", wb.NextArgIndex())
		args = append(args, filter.Limit)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ImportSession, error) {
		var is ImportSession
		err := row.Scan(&is.ID, &is.UserID, &is.Region, &is.FileName, &is.ImportDate, &is.CreatedAt, &is.RecordCount)
		return is, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan import sessions: %w", err)
	}
	return sessions, nil
}
