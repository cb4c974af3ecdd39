package core

// workbook.go reads uploaded spreadsheets into raw string rows.

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Workbook is a parsed spreadsheet.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// AllowedExtensions are the upload types OpenWorkbook understands.
var AllowedExtensions = []string{".xls", ".xlsx", ".xlsm"}

// OpenWorkbook parses data using the reader matching the extension of name.
func OpenWorkbook(name string, data []byte) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, unreadable(err)
		}
		return &xlsxWorkbook{f: f}, nil

	case ".xls":
		return openXLS(data)

	default:
		return nil, invalid(CodeUnsupportedFile, "Unsupported file type %q. Use .xls, .xlsx or .xlsm", ext)
	}
}

func unreadable(err error) *ValidationError {
	ve := invalid(CodeUnreadableFile, "Could not read spreadsheet: %v", err)
	ve.cause = err
	return ve
}

// FindSheet returns the workbook's own spelling of want, matched case-insensitively.
func FindSheet(wb Workbook, want string) (string, error) {
	names := wb.SheetNames()
	for _, name := range names {
		if strings.EqualFold(name, want) {
			return name, nil
		}
	}
	return "", invalid(CodeMissingSheet,
		"The sheet %q does not exist in the uploaded file. Available sheets: %s",
		want, strings.Join(names, ", "))
}

type xlsxWorkbook struct {
	f *excelize.File
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows returns raw cell values without number formatting applied.
func (w *xlsxWorkbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, unreadable(err)
	}
	return rows, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

// xlsWorkbook holds a legacy BIFF workbook fully materialised at open time.
type xlsWorkbook struct {
	names  []string
	sheets map[string][][]string
}

func openXLS(data []byte) (wb Workbook, err error) {
	// The BIFF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, unreadable(fmt.Errorf("malformed xls: %v", r))
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, unreadable(err)
	}

	out := &xlsWorkbook{sheets: make(map[string][][]string)}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		out.names = append(out.names, sheet.Name)
		out.sheets[sheet.Name] = xlsRows(sheet)
	}
	return out, nil
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows
}

func (w *xlsWorkbook) SheetNames() []string {
	return w.names
}

func (w *xlsWorkbook) Rows(sheet string) ([][]string, error) {
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, invalid(CodeMissingSheet, "The sheet %q does not exist in the uploaded file", sheet)
	}
	return rows, nil
}

func (w *xlsWorkbook) Close() error {
	return nil
}
