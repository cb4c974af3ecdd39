package core

import "github.com/jackc/pgx/v5/pgtype"

// Column binds a network_data column to its position in the inventory sheet.
type Column struct {
	Field string // network_data column name
	Index int    // zero-based spreadsheet column
	ref   func(*NetworkRecord) *pgtype.Text
}

// Columns is the positional mapping from sheet columns to record fields,
// in sheet order. It also fixes the column order of inserts and exports.
var Columns = []Column{
	{"node", 0, func(r *NetworkRecord) *pgtype.Text { return &r.Node }},
	{"ne_ip", 1, func(r *NetworkRecord) *pgtype.Text { return &r.NeIP }},
	{"idu", 2, func(r *NetworkRecord) *pgtype.Text { return &r.IDU }},
	{"capacity", 3, func(r *NetworkRecord) *pgtype.Text { return &r.Capacity }},
	{"location", 4, func(r *NetworkRecord) *pgtype.Text { return &r.Location }},
	{"parallel", 5, func(r *NetworkRecord) *pgtype.Text { return &r.Parallel }},
	{"main_stby", 6, func(r *NetworkRecord) *pgtype.Text { return &r.MainStby }},
	{"site_id_a", 7, func(r *NetworkRecord) *pgtype.Text { return &r.SiteIDA }},
	{"lrd_a", 8, func(r *NetworkRecord) *pgtype.Text { return &r.LrdA }},
	{"site_id_b", 9, func(r *NetworkRecord) *pgtype.Text { return &r.SiteIDB }},
	{"lrd_b", 10, func(r *NetworkRecord) *pgtype.Text { return &r.LrdB }},
	{"uplink", 11, func(r *NetworkRecord) *pgtype.Text { return &r.Uplink }},
	{"link_count", 12, func(r *NetworkRecord) *pgtype.Text { return &r.LinkCount }},
	{"protection", 13, func(r *NetworkRecord) *pgtype.Text { return &r.Protection }},
	{"remote_ip", 14, func(r *NetworkRecord) *pgtype.Text { return &r.RemoteIP }},
	{"remote_slot", 15, func(r *NetworkRecord) *pgtype.Text { return &r.RemoteSlot }},
	{"l3_port", 16, func(r *NetworkRecord) *pgtype.Text { return &r.L3Port }},
	{"ras", 17, func(r *NetworkRecord) *pgtype.Text { return &r.RAS }},
	{"hostname", 18, func(r *NetworkRecord) *pgtype.Text { return &r.Hostname }},
	{"link", 19, func(r *NetworkRecord) *pgtype.Text { return &r.Link }},
	{"qam", 20, func(r *NetworkRecord) *pgtype.Text { return &r.QAM }},
}

// searchColumns are matched by the free-text search filter.
var searchColumns = []string{"node", "ne_ip", "idu", "capacity", "location", "site_id_a", "site_id_b"}

// Value returns the field of r bound to c.
func (c Column) Value(r *NetworkRecord) pgtype.Text {
	return *c.ref(r)
}

// fieldNames returns the column names of Columns in order.
func fieldNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Field
	}
	return names
}

// toText stores an empty cell as NULL and everything else verbatim.
func toText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
