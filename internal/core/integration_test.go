package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/netinventory/internal/database/dbtest"
)

func newTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()
	pool, _ := dbtest.Start(t)
	svc := NewService(pool, Options{
		BcryptCost:     4,
		StatsCacheTTL:  time.Minute,
		StatsCacheSize: 4,
	})
	return svc, pool
}

func createTestUser(t *testing.T, svc *Service) *User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), NewUser{
		Email: "ops@example.com", Name: "Ops", Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// inventorySheet builds a SUMMARY1 workbook with n data rows. Row i gets
// node "N<i>" and capacity from capacities, cycling.
func inventorySheet(t *testing.T, n int, capacities ...string) []byte {
	t.Helper()
	if len(capacities) == 0 {
		capacities = []string{"1G"}
	}
	rows := [][]any{{"Node", "NE IP", "IDU", "Capacity", "Location"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{
			fmt.Sprintf("N%d", i),
			fmt.Sprintf("10.0.%d.%d", i/256, i%256),
			"IDU-" + fmt.Sprint(i),
			capacities[(i-1)%len(capacities)],
			"Site",
		})
	}
	return buildXLSX(t, []string{"Cover", "SUMMARY1"}, map[string][][]any{"SUMMARY1": rows})
}

func TestIntegration_ImportPaginateAndCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, svc)

	res, err := svc.Import(ctx, ImportRequest{
		UserID:   user.ID,
		Region:   RegionCentral,
		FileName: "central.xlsx",
		Data:     inventorySheet(t, 120),
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.RowCount != 120 || res.SessionID == 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Sheet != "SUMMARY1" {
		t.Errorf("sheet = %q, want SUMMARY1", res.Sheet)
	}

	central := RegionCentral
	page, err := svc.ListRecords(ctx, RecordFilter{Region: &central}, PageRequest{Page: 2, Limit: 50})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	want := Pagination{Page: 2, Limit: 50, Total: 120, TotalPages: 3, HasNext: true, HasPrev: true}
	if page.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", page.Pagination, want)
	}
	if len(page.Data) != 50 {
		t.Fatalf("page size = %d, want 50", len(page.Data))
	}
	// Newest first: page 2 holds the 51st..100th newest, i.e. N70 down to N21.
	if first, last := page.Data[0].Node.String, page.Data[49].Node.String; first != "N70" || last != "N21" {
		t.Errorf("page 2 spans %s..%s, want N70..N21", first, last)
	}

	again, err := svc.ListRecords(ctx, RecordFilter{Region: &central}, PageRequest{Page: 2, Limit: 50})
	if err != nil {
		t.Fatalf("ListRecords again: %v", err)
	}
	for i := range page.Data {
		if page.Data[i].ID != again.Data[i].ID {
			t.Fatalf("repeated query differs at %d", i)
		}
	}

	northern := RegionNorthern
	empty, err := svc.ListRecords(ctx, RecordFilter{Region: &northern}, PageRequest{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("ListRecords northern: %v", err)
	}
	if empty.Pagination.Total != 0 || len(empty.Data) != 0 {
		t.Errorf("northern should be empty, got %+v", empty.Pagination)
	}

	sessions, err := svc.ListSessions(ctx, SessionFilter{Region: &central})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].RecordCount != 120 || sessions[0].FileName != "central.xlsx" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestIntegration_RoundTripValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, svc)

	full := make([]any, len(Columns))
	for i, c := range Columns {
		full[i] = c.Field + " value"
	}
	data := buildXLSX(t, []string{"summary1"}, map[string][][]any{
		"summary1": {{"header"}, full},
	})
	if _, err := svc.Import(ctx, ImportRequest{UserID: user.ID, Region: RegionEM, FileName: "em.xlsm", Data: data}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	recs, err := svc.ExportRecords(ctx, nil)
	if err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	for _, c := range Columns {
		if got := c.Value(&recs[0]); got.String != c.Field+" value" {
			t.Errorf("%s = %+v", c.Field, got)
		}
	}
	if recs[0].Region != RegionEM {
		t.Errorf("region = %s", recs[0].Region)
	}
}

func TestIntegration_SearchMatchesCount(t *testing.T) {
	svc, pool := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, svc)

	_, err := svc.Import(ctx, ImportRequest{
		UserID: user.ID, Region: RegionSouthern, FileName: "s.xlsx",
		Data: inventorySheet(t, 30, "10G", "1G", "STM-1", "10g-lag"),
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	page, err := svc.ListRecords(ctx, RecordFilter{Search: "10G"}, PageRequest{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}

	var direct int64
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM network_data
		WHERE node ILIKE '%10g%' OR ne_ip ILIKE '%10g%' OR idu ILIKE '%10g%' OR capacity ILIKE '%10g%'
		   OR location ILIKE '%10g%' OR site_id_a ILIKE '%10g%' OR site_id_b ILIKE '%10g%'`).Scan(&direct)
	if err != nil {
		t.Fatalf("direct count: %v", err)
	}
	if page.Pagination.Total != direct || direct == 0 {
		t.Errorf("total = %d, direct count = %d", page.Pagination.Total, direct)
	}
	for _, r := range page.Data {
		if !strings.Contains(strings.ToLower(r.Capacity.String), "10g") &&
			!strings.Contains(strings.ToLower(r.IDU.String), "10g") {
			t.Errorf("record %d does not match search: %+v", r.ID, r)
		}
	}
}

// failingTx makes the Exec call numbered failOn violate the region check so
// the database itself rejects that batch.
type failingTx struct {
	pgx.Tx
	calls  int
	failOn int
}

func (f *failingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls++
	if f.calls == f.failOn {
		args[1] = "Atlantis"
	}
	return f.Tx.Exec(ctx, sql, args...)
}

func TestIntegration_FailedBatchRollsBack(t *testing.T) {
	svc, pool := newTestService(t)
	ctx := context.Background()

	records := MapRows(rowsOf(200), RegionEastern)
	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		ftx := &failingTx{Tx: tx, failOn: 3}
		id, err := createSession(ctx, ftx, ImportRequest{Region: RegionEastern, FileName: "e.xlsx"}, svc.today())
		if err != nil {
			return err
		}
		ftx.calls = 0
		return insertRecords(ctx, ftx, id, records, 50)
	})
	if err == nil {
		t.Fatal("expected the third batch to fail")
	}

	var records2, sessions int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM network_data`).Scan(&records2); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM import_sessions`).Scan(&sessions); err != nil {
		t.Fatal(err)
	}
	if records2 != 0 || sessions != 0 {
		t.Errorf("after rollback: %d records, %d sessions; want none", records2, sessions)
	}
}

func rowsOf(n int) [][]string {
	rows := [][]string{{"header"}}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{fmt.Sprintf("node-%d", i)})
	}
	return rows
}

func TestIntegration_MissingSheetWritesNothing(t *testing.T) {
	svc, pool := newTestService(t)
	ctx := context.Background()

	data := buildXLSX(t, []string{"Data", "Notes"}, nil)
	_, err := svc.Import(ctx, ImportRequest{Region: RegionCentral, FileName: "x.xlsx", Data: data})

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Code != CodeMissingSheet {
		t.Fatalf("err = %v, want missing sheet", err)
	}
	if !strings.Contains(ve.Message, "Data, Notes") {
		t.Errorf("message = %q", ve.Message)
	}

	var sessions int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM import_sessions`).Scan(&sessions); err != nil {
		t.Fatal(err)
	}
	if sessions != 0 {
		t.Errorf("sessions = %d, want 0", sessions)
	}
}

func TestIntegration_ExportEmptyRegion(t *testing.T) {
	svc, _ := newTestService(t)
	northern := RegionNorthern

	file, err := svc.Export(context.Background(), &northern, FormatCSV)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(file.Body) != 0 || file.Rows != 0 {
		t.Errorf("body = %q, want empty", file.Body)
	}
	if !strings.HasPrefix(file.Name, "network-data-Northern-") || !strings.HasSuffix(file.Name, ".csv") {
		t.Errorf("name = %q", file.Name)
	}
}

func TestIntegration_StatisticsRefreshAfterImport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, svc)

	before, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if before.TotalRecords != 0 {
		t.Fatalf("total = %d, want 0", before.TotalRecords)
	}

	if _, err := svc.Import(ctx, ImportRequest{UserID: user.ID, Region: RegionNorthern, FileName: "n.xlsx",
		Data: inventorySheet(t, 12, "10G", "1G")}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	after, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if after.TotalRecords != 12 {
		t.Errorf("total = %d, want 12 (cache should be purged by import)", after.TotalRecords)
	}
	if len(after.RegionStats) != 1 || after.RegionStats[0].Region != RegionNorthern {
		t.Errorf("regionStats = %+v", after.RegionStats)
	}
	if len(after.LatestImports) != 1 || after.LatestImports[0].RecordCount != 12 {
		t.Errorf("latestImports = %+v", after.LatestImports)
	}

	capStats, err := svc.CapacityStatistics(ctx)
	if err != nil {
		t.Fatalf("CapacityStatistics: %v", err)
	}
	if len(capStats.CapacityDistribution) != 2 || capStats.CapacityDistribution[0].Percentage != 50 {
		t.Errorf("distribution = %+v", capStats.CapacityDistribution)
	}

	probe, err := svc.ProbeDatabase(ctx)
	if err != nil {
		t.Fatalf("ProbeDatabase: %v", err)
	}
	if probe.TableStats.TotalRecords != 12 || probe.TableStats.Regions != 1 {
		t.Errorf("probe = %+v", probe.TableStats)
	}
}

func TestIntegration_Users(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	if u.Role != "user" {
		t.Errorf("default role = %q", u.Role)
	}

	_, err := svc.CreateUser(ctx, NewUser{Email: "ops@example.com", Name: "Again", Password: "x"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate email err = %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "A user with this email already exists" {
		t.Errorf("duplicate message = %v", err)
	}

	got, err := svc.Authenticate(ctx, "ops@example.com", "secret-pass")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := svc.Authenticate(ctx, "ops@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}

	created, err := svc.EnsureAdmin(ctx, "admin@example.com", "admin-pass", "")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin first = %v, %v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "admin@example.com", "admin-pass", "")
	if err != nil || created {
		t.Errorf("EnsureAdmin second = %v, %v", created, err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].Email != "admin@example.com" || users[0].Role != "admin" {
		t.Errorf("users = %+v", users)
	}
}

func TestIntegration_XLSXExportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, svc)

	if _, err := svc.Import(ctx, ImportRequest{UserID: user.ID, Region: RegionCentral, FileName: "c.xlsx",
		Data: inventorySheet(t, 3)}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	file, err := svc.Export(ctx, nil, FormatExcel)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	wb, err := OpenWorkbook(file.Name, file.Body)
	if err != nil {
		t.Fatalf("reopen export: %v", err)
	}
	defer wb.Close()
	rows, err := wb.Rows(ExportSheet)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 4 || rows[1][0] != "N3" {
		t.Errorf("export rows = %v", rows)
	}
	if !bytes.HasPrefix(file.Body, []byte("PK")) {
		t.Error("xlsx export should be a zip archive")
	}
}
