package core

// MapRows converts sheet rows into records for region. Row 0 is the header
// and is skipped unchecked, as is every row whose cells are all empty. Cells
// are mapped by position through Columns; missing trailing cells stay NULL.
func MapRows(rows [][]string, region Region) []NetworkRecord {
	if len(rows) <= 1 {
		return nil
	}

	records := make([]NetworkRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		rec := NetworkRecord{Region: region}
		for _, col := range Columns {
			if col.Index < len(row) {
				*col.ref(&rec) = toText(row[col.Index])
			}
		}
		records = append(records, rec)
	}
	return records
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
