package core

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates SQL conditions and their positional arguments.
// The clause and args it builds are shared verbatim by a data query and its
// count query, so both always filter on the same predicate.
type WhereBuilder struct {
	conditions []string
	args       []any
}

// NewWhereBuilder creates an empty builder. Placeholders start at $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// placeholder binds v and returns its $n marker.
func (wb *WhereBuilder) placeholder(v any) string {
	wb.args = append(wb.args, v)
	return fmt.Sprintf("$%d", len(wb.args))
}

// Eq adds "column = value".
func (wb *WhereBuilder) Eq(column string, value any) *WhereBuilder {
	wb.conditions = append(wb.conditions, column+" = "+wb.placeholder(value))
	return wb
}

// AnyILike adds a case-insensitive substring match of term against any of
// columns. A single argument is bound and reused by every column. An empty
// term adds nothing.
func (wb *WhereBuilder) AnyILike(columns []string, term string) *WhereBuilder {
	if term == "" || len(columns) == 0 {
		return wb
	}

	ph := wb.placeholder("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + ph
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
	return wb
}

// Build returns the WHERE clause (with a leading space, or empty when there
// are no conditions) and its arguments in placeholder order.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", wb.args
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex is the number the next placeholder appended after Build's
// clause must use, e.g. for LIMIT and OFFSET.
func (wb *WhereBuilder) NextArgIndex() int {
	return len(wb.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// RecordFilter narrows record listings and exports.
type RecordFilter struct {
	Region *Region
	Search string
}

// predicate is the one place a RecordFilter becomes SQL.
func (f RecordFilter) predicate() *WhereBuilder {
	wb := NewWhereBuilder()
	if f.Region != nil {
		wb.Eq("region", string(*f.Region))
	}
	wb.AnyILike(searchColumns, f.Search)
	return wb
}
