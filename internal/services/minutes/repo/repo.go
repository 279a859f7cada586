// Package repo provides the council minutes repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/minutes/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the minutes repository
type Storage interface {
	List(ctx context.Context, in domain.ListInput, hardLimit int) ([]domain.Row, domain.AfterKey, error)
}

// List implements Storage
func (s *pg) List(ctx context.Context, in domain.ListInput, hardLimit int) ([]domain.Row, domain.AfterKey, error) {
	// Dynamic WHERE with numbered args
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			m.id::text,
			m.created_at,
			m.region,
			m.locality,
			m.meeting_date,
			m.title,
			COALESCE(m.summary, '')           AS summary,
			COALESCE(m.questioner, '')        AS questioner,
			COALESCE(m.answerer, '')          AS answerer,
			COALESCE(m.source_url, '')        AS source_url,
			COALESCE(m.subtitle_group_id, '') AS subtitle_group_id,
			m.start_sec,
			m.end_sec,
			COALESCE(m.external_id, '')       AS external_id,
			COALESCE(m.category, '')          AS category,
			COALESCE(m.stance, '')            AS stance
		FROM council_minutes m
		WHERE m.created_at >= ` + arg(in.Since) + ` AND m.created_at < ` + arg(in.Until) + `
	`)

	// Keyset only when AfterKey is set (avoid ""::uuid on first page)
	if in.After.ID != "" {
		sb.WriteString("  AND (m.created_at, m.id) > (" + arg(in.After.CreatedAt) + ", " + arg(in.After.ID) + "::uuid)\n")
	}

	if in.Region != "" {
		sb.WriteString("  AND m.region = " + arg(in.Region) + "\n")
	}
	if in.Locality != "" {
		sb.WriteString("  AND m.locality = " + arg(in.Locality) + "\n")
	}

	sb.WriteString("ORDER BY m.created_at, m.id\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	defer rows.Close()

	out := make([]domain.Row, 0, hardLimit)
	var last domain.AfterKey
	for rows.Next() {
		var r domain.Row
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.Region, &r.Locality, &r.MeetingDate,
			&r.Title, &r.Summary, &r.Questioner, &r.Answerer, &r.SourceURL,
			&r.GroupID, &r.StartSec, &r.EndSec, &r.ExternalID, &r.Category, &r.Stance,
		); err != nil {
			return nil, domain.AfterKey{}, err
		}
		out = append(out, r)
		last = domain.AfterKey{CreatedAt: r.CreatedAt, ID: r.ID}
	}
	return out, last, rows.Err()
}
