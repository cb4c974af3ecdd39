package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the file type produced by Export.
type ExportFormat string

const (
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
)

// ParseExportFormat maps the format query parameter. Empty means Excel;
// any other value than "excel" is CSV.
func ParseExportFormat(s string) ExportFormat {
	if s == "" || s == string(FormatExcel) {
		return FormatExcel
	}
	return FormatCSV
}

// ExportSheet is the worksheet name of spreadsheet exports.
const ExportSheet = "NetworkData"

// exportHeader is the key order of every exported row.
var exportHeader = append(fieldNames(), "region", "created_at")

// ExportFile is a rendered export ready to send.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
	Rows        int
}

// Export renders every record of region (all regions when nil) as one file.
func (s *Service) Export(ctx context.Context, region *Region, format ExportFormat) (*ExportFile, error) {
	records, err := s.ExportRecords(ctx, region)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	file := &ExportFile{
		Name:        ExportFilename(region, format, s.now()),
		ContentType: ContentType(format),
		Rows:        len(records),
	}
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, records)
	default:
		err = WriteXLSX(&buf, records)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}
	file.Body = buf.Bytes()
	return file, nil
}

// ExportRecords loads full records for region, newest first, without paging.
func (s *Service) ExportRecords(ctx context.Context, region *Region) ([]NetworkRecord, error) {
	where, args := RecordFilter{Region: region}.predicate().Build()
	query := "SELECT " + strings.Join(exportHeader, ", ") + " FROM network_data" + where + " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (NetworkRecord, error) {
		var rec NetworkRecord
		dest := make([]any, 0, len(exportHeader))
		for _, col := range Columns {
			dest = append(dest, col.ref(&rec))
		}
		dest = append(dest, &rec.Region, &rec.CreatedAt)
		err := row.Scan(dest...)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan export records: %w", err)
	}
	return records, nil
}

// exportValues returns rec's cells in exportHeader order. NULL becomes "".
func exportValues(rec *NetworkRecord) []string {
	values := make([]string, 0, len(exportHeader))
	for _, col := range Columns {
		values = append(values, col.Value(rec).String)
	}
	return append(values, string(rec.Region), rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// WriteCSV writes records with every field quoted and quotes doubled. Lines
// are joined by "\n" without a trailing newline; the header line is only
// written when there is at least one record.
func WriteCSV(w io.Writer, records []NetworkRecord) error {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for i := range records {
		b.WriteByte('\n')
		for j, v := range exportValues(&records[i]) {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteXLSX writes records as a workbook with the single sheet ExportSheet.
func WriteXLSX(w io.Writer, records []NetworkRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(ExportSheet)
	if err != nil {
		return err
	}

	if len(records) > 0 {
		if err := sw.SetRow("A1", toCells(exportHeader)); err != nil {
			return err
		}
		for i := range records {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, toCells(exportValues(&records[i]))); err != nil {
				return err
			}
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// ExportFilename is network-data-<region|all>-<YYYY-MM-DD>.<xlsx|csv>.
func ExportFilename(region *Region, format ExportFormat, now time.Time) string {
	name := "all"
	if region != nil {
		name = string(*region)
	}
	ext := "xlsx"
	if format == FormatCSV {
		ext = "csv"
	}
	return fmt.Sprintf("network-data-%s-%s.%s", name, now.UTC().Format(time.DateOnly), ext)
}

// ContentType returns the MIME type of format.
func ContentType(format ExportFormat) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
