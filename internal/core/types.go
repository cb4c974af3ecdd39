package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Region is the owning region of a record or session.
type Region string

const (
	RegionCentral  Region = "Central"
	RegionNorthern Region = "Northern"
	RegionEastern  Region = "Eastern"
	RegionSouthern Region = "Southern"
	RegionEM       Region = "EM"
)

// Regions lists every valid region in display order.
var Regions = []Region{RegionCentral, RegionNorthern, RegionEastern, RegionSouthern, RegionEM}

// ParseRegion returns the region named exactly s.
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", invalid(CodeInvalidRegion, "Invalid region")
}

// NetworkRecord is one inventory row. Text fields are NULL when the source cell was empty.
type NetworkRecord struct {
	ID         int64       `json:"id"`
	SessionID  int64       `json:"session_id"`
	Region     Region      `json:"region"`
	Node       pgtype.Text `json:"node"`
	NeIP       pgtype.Text `json:"ne_ip"`
	IDU        pgtype.Text `json:"idu"`
	Capacity   pgtype.Text `json:"capacity"`
	Location   pgtype.Text `json:"location"`
	Parallel   pgtype.Text `json:"parallel"`
	MainStby   pgtype.Text `json:"main_stby"`
	SiteIDA    pgtype.Text `json:"site_id_a"`
	LrdA       pgtype.Text `json:"lrd_a"`
	SiteIDB    pgtype.Text `json:"site_id_b"`
	LrdB       pgtype.Text `json:"lrd_b"`
	Uplink     pgtype.Text `json:"uplink"`
	LinkCount  pgtype.Text `json:"link_count"`
	Protection pgtype.Text `json:"protection"`
	RemoteIP   pgtype.Text `json:"remote_ip"`
	RemoteSlot pgtype.Text `json:"remote_slot"`
	L3Port     pgtype.Text `json:"l3_port"`
	RAS        pgtype.Text `json:"ras"`
	Hostname   pgtype.Text `json:"hostname"`
	Link       pgtype.Text `json:"link"`
	QAM        pgtype.Text `json:"qam"`
	CreatedAt  time.Time   `json:"created_at"`
}

// RecordSummary is the subset of a record returned by listings.
type RecordSummary struct {
	ID         int64       `json:"id"`
	Node       pgtype.Text `json:"node"`
	NeIP       pgtype.Text `json:"ne_ip"`
	IDU        pgtype.Text `json:"idu"`
	Capacity   pgtype.Text `json:"capacity"`
	Location   pgtype.Text `json:"location"`
	MainStby   pgtype.Text `json:"main_stby"`
	SiteIDA    pgtype.Text `json:"site_id_a"`
	SiteIDB    pgtype.Text `json:"site_id_b"`
	Protection pgtype.Text `json:"protection"`
	Region     Region      `json:"region"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ImportSession describes one upload. RecordCount is derived, never stored.
type ImportSession struct {
	ID          int64       `json:"id"`
	UserID      pgtype.UUID `json:"user_id"`
	Region      Region      `json:"region"`
	FileName    string      `json:"file_name"`
	ImportDate  pgtype.Date `json:"import_date"`
	CreatedAt   time.Time   `json:"created_at"`
	RecordCount int64       `json:"record_count"`
}

// User is an account without its password hash.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportRequest is one uploaded spreadsheet.
type ImportRequest struct {
	UserID   string
	Region   Region
	FileName string
	Data     []byte
}

// ImportResult reports a committed upload.
type ImportResult struct {
	SessionID int64  `json:"sessionId"`
	RowCount  int    `json:"rowCount"`
	Region    Region `json:"-"`
	Sheet     string `json:"-"`
}
