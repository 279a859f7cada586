package guardrails

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"leadscout/internal/modkit/repokit"
)

// stampDB fakes the run-stamp claim: QueryRow serves a scripted scan
type stampDB struct {
	scanErr error
	claimed bool
	calls   int
}

func (d *stampDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, errors.New("not used")
}

func (d *stampDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, errors.New("not used")
}

func (d *stampDB) QueryRow(context.Context, string, ...any) repokit.Row {
	d.calls++
	return stampRow{err: d.scanErr, ok: d.claimed}
}

func (d *stampDB) Tx(_ context.Context, fn func(q repokit.Queryer) error) error { return fn(d) }

type stampRow struct {
	err error
	ok  bool
}

func (r stampRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*bool); ok {
			*p = r.ok
		}
	}
	return nil
}

func TestRunGate_ClaimAdmitsRun(t *testing.T) {
	t.Parallel()

	db := &stampDB{claimed: true}
	gate := MakeRunGate(db, GateOptions{})

	ran := false
	err := gate(context.Background(), "svc-1", func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran || db.calls != 1 {
		t.Fatalf("claimed gate must admit exactly one run: ran=%v calls=%d", ran, db.calls)
	}
}

func TestRunGate_FreshStampMapsToTooSoon(t *testing.T) {
	t.Parallel()

	db := &stampDB{scanErr: pgx.ErrNoRows}
	gate := MakeRunGate(db, GateOptions{})

	err := gate(context.Background(), "svc-1", func(context.Context) error {
		t.Fatal("gated run must not execute")
		return nil
	})
	if !errors.Is(err, ErrTooSoon) {
		t.Fatalf("expected ErrTooSoon, got %v", err)
	}
}

func TestRunGate_ClaimFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("conn dropped")
	db := &stampDB{scanErr: boom}
	gate := MakeRunGate(db, GateOptions{})

	err := gate(context.Background(), "svc-1", func(context.Context) error {
		t.Fatal("failed claim must not execute")
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the claim failure to surface, got %v", err)
	}
	if errors.Is(err, ErrTooSoon) {
		t.Fatalf("a dropped connection is not a routine skip: %v", err)
	}
}

func TestRunGate_QuietHoursShortCircuit(t *testing.T) {
	t.Parallel()

	db := &stampDB{claimed: true}
	gate := MakeRunGate(db, GateOptions{
		QuietFrom:  22,
		QuietUntil: 6,
		Now:        func() time.Time { return time.Date(2026, 6, 12, 23, 0, 0, 0, time.Local) },
	})

	err := gate(context.Background(), "svc-1", func(context.Context) error {
		t.Fatal("quiet-hours run must not execute")
		return nil
	})
	if !errors.Is(err, ErrQuietHours) {
		t.Fatalf("expected ErrQuietHours, got %v", err)
	}
	if db.calls != 0 {
		t.Fatalf("quiet hours must not touch the stamp: %d calls", db.calls)
	}
}

func TestInQuietWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hour, from, until int
		want              bool
	}{
		// plain window 9..17
		{8, 9, 17, false},
		{9, 9, 17, true},
		{16, 9, 17, true},
		{17, 9, 17, false},

		// wrap-around window 22..6
		{23, 22, 6, true},
		{2, 22, 6, true},
		{6, 22, 6, false},
		{12, 22, 6, false},

		// disabled
		{10, 0, 0, false},
		{10, 5, 5, false},
	}
	for _, c := range cases {
		if got := inQuietWindow(c.hour, c.from, c.until); got != c.want {
			t.Fatalf("inQuietWindow(%d, %d, %d)=%v want %v", c.hour, c.from, c.until, got, c.want)
		}
	}
}
