package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/netinventory/internal/logging"
)

// Import parses an uploaded spreadsheet and stores its rows under a new
// import session, all in one transaction.
//
// Spreadsheet problems come back as *ValidationError and nothing is written.
// Any database failure rolls back the session and every batch.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	ip, agent := ClientFromContext(ctx)
	logger := logging.WithFields(ctx,
		"file", req.FileName,
		"region", req.Region,
		"user_id", req.UserID,
		"ip", ip,
		"user_agent", agent,
	)

	result, err := s.runImport(ctx, req)
	importDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		status := "failed"
		if IsValidation(err) {
			status = "rejected"
		}
		importsTotal.WithLabelValues(string(req.Region), status).Inc()
		logger.Warn("import failed", "status", status, "error", err)
		return nil, err
	}

	importsTotal.WithLabelValues(string(req.Region), "ok").Inc()
	importedRowsTotal.WithLabelValues(string(req.Region)).Add(float64(result.RowCount))
	s.stats.purge()

	logger.Info("import committed",
		"session_id", result.SessionID,
		"sheet", result.Sheet,
		"rows", result.RowCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) runImport(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if _, err := ParseRegion(string(req.Region)); err != nil {
		return nil, err
	}

	wb, err := OpenWorkbook(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet, err := FindSheet(wb, s.opts.SheetName)
	if err != nil {
		return nil, err
	}
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}
	records := MapRows(rows, req.Region)

	var sessionID int64
	err = WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		id, err := createSession(ctx, tx, req, s.today())
		if err != nil {
			return err
		}
		sessionID = id
		return insertRecords(ctx, tx, id, records, s.opts.BatchSize)
	})
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", req.FileName, err)
	}

	return &ImportResult{
		SessionID: sessionID,
		RowCount:  len(records),
		Region:    req.Region,
		Sheet:     sheet,
	}, nil
}

// today is the UTC calendar date stored as the session's import date.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createSession(ctx context.Context, db DBTX, req ImportRequest, day time.Time) (int64, error) {
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO import_sessions (user_id, region, file_name, import_date)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userUUID(req.UserID), string(req.Region), req.FileName, pgtype.Date{Time: day, Valid: true},
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create import session: %w", err)
	}
	return id, nil
}

// userUUID is NULL when the token subject is not a UUID.
func userUUID(s string) pgtype.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// insertRecords stamps records with sessionID and writes them batchSize at a time.
func insertRecords(ctx context.Context, db DBTX, sessionID int64, records []NetworkRecord, batchSize int) error {
	for i := range records {
		records[i].SessionID = sessionID
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		sql, args := buildInsert(records[start:end])
		if _, err := db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}

// insertColumns is the column list of every batch INSERT.
var insertColumns = append([]string{"session_id", "region"}, fieldNames()...)

// buildInsert renders one multi-row INSERT for batch.
func buildInsert(batch []NetworkRecord) (string, []any) {
	width := len(insertColumns)
	args := make([]any, 0, len(batch)*width)

	var b strings.Builder
	b.WriteString("INSERT INTO network_data (")
	b.WriteString(strings.Join(insertColumns, ", "))
	b.WriteString(") VALUES ")

	for i := range batch {
		rec := &batch[i]
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < width; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(i*width + j + 1))
		}
		b.WriteByte(')')

		args = append(args, rec.SessionID, string(rec.Region))
		for _, col := range Columns {
			args = append(args, col.Value(rec))
		}
	}

	return b.String(), args
}
