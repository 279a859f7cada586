package store

import (
	"context"
	"errors"
	"testing"

	"leadscout/internal/platform/store/ch"
)

// fakeCHClient implements chClient for adapter tests
type fakeCHClient struct {
	insertTable string
	insertRows  [][]any
	insertErr   error

	queryRows ch.Rows
	queryErr  error

	pingErr   error
	closeErr  error
	pings     int
	closes    int
	lastSQL   string
	lastArgs  []any
	inserts   int
	queries   int
}

func (f *fakeCHClient) Insert(ctx context.Context, table string, rows [][]any) error {
	f.inserts++
	f.insertTable = table
	f.insertRows = rows
	return f.insertErr
}

func (f *fakeCHClient) Query(ctx context.Context, sql string, args ...any) (ch.Rows, error) {
	f.queries++
	f.lastSQL = sql
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryRows, nil
}

func (f *fakeCHClient) Ping(ctx context.Context) error { f.pings++; return f.pingErr }
func (f *fakeCHClient) Close() error                   { f.closes++; return f.closeErr }

// fakeCHRows implements ch.Rows
type fakeCHRows struct {
	cols     []string
	data     [][]any
	idx      int
	err      error
	closeErr error
	closed   bool
}

func (f *fakeCHRows) Next() bool {
	if f.err != nil {
		return false
	}
	f.idx++
	return f.idx <= len(f.data)
}

func (f *fakeCHRows) Scan(dest ...any) error {
	if f.idx < 1 || f.idx > len(f.data) {
		return errors.New("scan out of range")
	}
	row := f.data[f.idx-1]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		switch p := dest[i].(type) {
		case *int:
			*p = row[i].(int)
		case *string:
			*p = row[i].(string)
		default:
			return errors.New("unsupported dest type in fake")
		}
	}
	return nil
}

func (f *fakeCHRows) Err() error        { return f.err }
func (f *fakeCHRows) Close() error      { f.closed = true; return f.closeErr }
func (f *fakeCHRows) Columns() []string { return f.cols }

func TestCHAdapter_InsertRequiresPositionalRows(t *testing.T) {
	t.Parallel()

	fc := &fakeCHClient{}
	a := &clickhouseAdapter{inner: fc}

	if err := a.Insert(context.Background(), "lead_run_log", struct{}{}); err == nil {
		t.Fatalf("expected shape error for non [][]any payload")
	}
	if fc.inserts != 0 {
		t.Fatalf("client Insert should not be called on shape error")
	}

	rows := [][]any{{"run-1", "svc-1", uint32(3)}}
	if err := a.Insert(context.Background(), "lead_run_log", rows); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if fc.inserts != 1 || fc.insertTable != "lead_run_log" {
		t.Fatalf("Insert did not delegate: calls=%d table=%q", fc.inserts, fc.insertTable)
	}
	if len(fc.insertRows) != 1 || len(fc.insertRows[0]) != 3 {
		t.Fatalf("Insert rows mismatch: %#v", fc.insertRows)
	}
}

func TestCHAdapter_InsertPropagatesClientError(t *testing.T) {
	t.Parallel()

	boom := errors.New("batch send failed")
	fc := &fakeCHClient{insertErr: boom}
	a := &clickhouseAdapter{inner: fc}

	err := a.Insert(context.Background(), "lead_run_log", [][]any{{"run-1"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected client error, got %v", err)
	}
}

func TestCHAdapter_QueryWrapsRows(t *testing.T) {
	t.Parallel()

	fr := &fakeCHRows{
		cols: []string{"run_id", "surviving"},
		data: [][]any{{"run-1", 12}, {"run-2", 7}},
	}
	fc := &fakeCHClient{queryRows: fr}
	a := &clickhouseAdapter{inner: fc}

	rs, err := a.Query(context.Background(), "SELECT run_id, surviving FROM lead_run_log WHERE service_id = ?", "svc-1")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if fc.lastSQL == "" || len(fc.lastArgs) != 1 || fc.lastArgs[0] != "svc-1" {
		t.Fatalf("Query did not pass sql/args through: sql=%q args=%#v", fc.lastSQL, fc.lastArgs)
	}

	if cols := rs.Columns(); len(cols) != 2 || cols[0] != "run_id" {
		t.Fatalf("Columns mismatch: %#v", cols)
	}

	var ids []string
	var counts []int
	for rs.Next() {
		var id string
		var n int
		if err := rs.Scan(&id, &n); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		ids = append(ids, id)
		counts = append(counts, n)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows.Err: %v", err)
	}
	if len(ids) != 2 || ids[1] != "run-2" || counts[0] != 12 {
		t.Fatalf("row data mismatch ids=%v counts=%v", ids, counts)
	}

	rs.Close()
	if !fr.closed {
		t.Fatalf("Close did not reach underlying rows")
	}
}

func TestCHAdapter_CloseSwallowsRowsCloseError(t *testing.T) {
	t.Parallel()

	fr := &fakeCHRows{closeErr: errors.New("already released")}
	fc := &fakeCHClient{queryRows: fr}
	a := &clickhouseAdapter{inner: fc}

	rs, err := a.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	// store.Rows.Close has no return; the driver error must not panic or leak
	rs.Close()
	if !fr.closed {
		t.Fatalf("underlying rows not closed")
	}
}

func TestCHAdapter_QueryPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("ch unavailable")
	fc := &fakeCHClient{queryErr: boom}
	a := &clickhouseAdapter{inner: fc}

	rs, err := a.Query(context.Background(), "SELECT 1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected client error, got %v", err)
	}
	if rs != nil {
		t.Fatalf("expected nil rows on error, got %#v", rs)
	}
}

func TestCHAdapter_PingDelegatesAndGuardsNil(t *testing.T) {
	t.Parallel()

	var nilA *clickhouseAdapter
	if err := nilA.Ping(context.Background()); err == nil {
		t.Fatalf("nil adapter Ping should error")
	}

	empty := &clickhouseAdapter{}
	if err := empty.Ping(context.Background()); err == nil {
		t.Fatalf("adapter without client should error on Ping")
	}

	boom := errors.New("ping refused")
	fc := &fakeCHClient{pingErr: boom}
	a := &clickhouseAdapter{inner: fc}
	if err := a.Ping(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected ping error, got %v", err)
	}
	if fc.pings != 1 {
		t.Fatalf("Ping not delegated, calls=%d", fc.pings)
	}

	fc.pingErr = nil
	if err := a.Ping(context.Background()); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
}

func TestCHAdapter_CloseDelegates(t *testing.T) {
	t.Parallel()

	fc := &fakeCHClient{}
	a := &clickhouseAdapter{inner: fc}

	if err := a.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if fc.closes != 1 {
		t.Fatalf("Close not delegated, calls=%d", fc.closes)
	}
}
