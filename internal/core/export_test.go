package core

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleRecords() []NetworkRecord {
	return []NetworkRecord{
		{
			Region:    RegionNorthern,
			Node:      toText(`TANTA "core" 1`),
			NeIP:      toText("10.1.1.1"),
			Capacity:  toText("10G"),
			Location:  toText("Tanta, Gharbia"),
			CreatedAt: exportTime,
		},
		{
			Region:    RegionNorthern,
			Node:      toText("TANTA-2"),
			CreatedAt: exportTime,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()

	if strings.HasSuffix(out, "\n") {
		t.Error("CSV should not end with a newline")
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}

	wantHeader := strings.Join(exportHeader, ",")
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[0], "node,ne_ip,idu,capacity,") || !strings.HasSuffix(lines[0], ",qam,region,created_at") {
		t.Errorf("header order wrong: %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], `"TANTA ""core"" 1","10.1.1.1","","10G","Tanta, Gharbia",`) {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], `,"Northern","2026-03-14T09:26:53.000Z"`) {
		t.Errorf("row 1 tail = %q", lines[1])
	}
	if got := strings.Count(lines[2], `","`); got != len(exportHeader)-1 {
		t.Errorf("row 2 has %d separators, want %d", got, len(exportHeader)-1)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty export should have an empty body, got %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != ExportSheet {
		t.Fatalf("sheets = %v, want [%s]", sheets, ExportSheet)
	}
	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "node" || rows[0][len(rows[0])-1] != "created_at" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != `TANTA "core" 1` {
		t.Errorf("first cell = %q", rows[1][0])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty export should have no rows, got %v", rows)
	}
}

func TestExportFilename(t *testing.T) {
	central := RegionCentral
	tests := []struct {
		region *Region
		format ExportFormat
		want   string
	}{
		{nil, FormatExcel, "network-data-all-2026-03-14.xlsx"},
		{&central, FormatCSV, "network-data-Central-2026-03-14.csv"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.region, tt.format, exportTime); got != tt.want {
			t.Errorf("ExportFilename = %q, want %q", got, tt.want)
		}
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := map[string]ExportFormat{
		"":      FormatExcel,
		"excel": FormatExcel,
		"csv":   FormatCSV,
		"tsv":   FormatCSV,
	}
	for in, want := range tests {
		if got := ParseExportFormat(in); got != want {
			t.Errorf("ParseExportFormat(%q) = %s, want %s", in, got, want)
		}
	}
	if ContentType(FormatCSV) != "text/csv" {
		t.Errorf("csv content type = %s", ContentType(FormatCSV))
	}
}
