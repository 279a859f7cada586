//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"leadscout/internal/platform/store"
	"leadscout/internal/services/topics/domain"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const createLeadTopics = `
	CREATE TABLE lead_topics (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		service_id        TEXT NOT NULL,
		company_row_key   TEXT NOT NULL,
		region            TEXT NOT NULL,
		locality          TEXT NOT NULL,
		meeting_date      DATE NOT NULL,
		title             TEXT NOT NULL,
		summary           TEXT NOT NULL DEFAULT '',
		questioner        TEXT NOT NULL DEFAULT '',
		answerer          TEXT NOT NULL DEFAULT '',
		source_url        TEXT NOT NULL DEFAULT '',
		subtitle_group_id TEXT NOT NULL DEFAULT '',
		start_sec         INT NOT NULL,
		end_sec           INT NOT NULL,
		external_id       TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL DEFAULT '',
		stance            TEXT NOT NULL DEFAULT '',
		excerpt_text      TEXT NOT NULL DEFAULT '',
		excerpt_range     TEXT NOT NULL DEFAULT '',
		has_subtitle      BOOLEAN NOT NULL DEFAULT false,
		zero_score        INT NOT NULL DEFAULT 0,
		rank              TEXT NOT NULL DEFAULT '',
		priority          TEXT NOT NULL DEFAULT '',
		ai_score          INT NOT NULL DEFAULT 0,
		ai_reasoning      TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (service_id, company_row_key)
	)`

func testRow(key, rank string) domain.Row {
	return domain.Row{
		ServiceID:     "svc-1",
		CompanyRowKey: key,
		Region:        "東京都",
		Locality:      "港区",
		MeetingDate:   time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		Title:         "避難所運営の効率化について",
		Summary:       "避難所管理システムの導入を検討",
		GroupID:       "g-1",
		StartSec:      100,
		EndSec:        160,
		ExcerptText:   "[00:01:05] 避難所の管理についてですが (matched: 避難所)",
		ExcerptRange:  "00:01:05-00:01:15 (1 snippet)",
		HasSubtitle:   true,
		ZeroScore:     9,
		Rank:          rank,
		Priority:      "A",
		AiScore:       10,
		AiReasoning:   "clear procurement signal",
	}
}

func TestUpsertBatch_Integration_IdempotentOnRowKey(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if _, err := st.PG.Exec(ctx, createLeadTopics); err != nil {
		t.Fatalf("create table: %v", err)
	}

	storage := NewPG().Bind(st.PG)

	first, err := storage.UpsertBatch(ctx, []domain.Row{testRow("grp:svc-1|g-1|100|160", "S")})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected one id, got %v", first)
	}

	// Same key again with a different rank updates in place
	second, err := storage.UpsertBatch(ctx, []domain.Row{testRow("grp:svc-1|g-1|100|160", "A")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Fatalf("conflict did not resolve to the same row: %v vs %v", first, second)
	}

	var n int
	var rank string
	if err := st.PG.QueryRow(ctx,
		`SELECT count(*), max(rank) FROM lead_topics`).Scan(&n, &rank); err != nil {
		t.Fatalf("verify scan: %v", err)
	}
	if n != 1 || rank != "A" {
		t.Fatalf("expected one row ranked A, got n=%d rank=%q", n, rank)
	}
}
