// Package repo provides the lead topics repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/platform/store"
	"leadscout/internal/services/topics/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the topics repository
type Storage interface {
	UpsertBatch(ctx context.Context, rows []domain.Row) ([]string, error)
}

const upsertCols = 24

// UpsertBatch implements Storage. A re-run of the same window re-upserts the
// same keys; evidence and ranking columns take the newest values
func (s *pg) UpsertBatch(ctx context.Context, xs []domain.Row) ([]string, error) {
	if len(xs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO lead_topics
		(service_id, company_row_key, region, locality, meeting_date, title, summary,
		questioner, answerer, source_url, subtitle_group_id, start_sec, end_sec,
		external_id, category, stance, excerpt_text, excerpt_range, has_subtitle,
		zero_score, rank, priority, ai_score, ai_reasoning) VALUES `)

	args := make([]any, 0, len(xs)*upsertCols)
	for i, r := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for c := 0; c < upsertCols; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", i*upsertCols+c+1)
		}
		sb.WriteByte(')')

		args = append(args,
			r.ServiceID, r.CompanyRowKey, r.Region, r.Locality, r.MeetingDate,
			r.Title, r.Summary, r.Questioner, r.Answerer, r.SourceURL,
			r.GroupID, r.StartSec, r.EndSec, r.ExternalID, r.Category, r.Stance,
			r.ExcerptText, r.ExcerptRange, r.HasSubtitle,
			r.ZeroScore, r.Rank, r.Priority, r.AiScore, r.AiReasoning,
		)
	}

	sb.WriteString(`
		ON CONFLICT (service_id, company_row_key) DO UPDATE SET
			region = EXCLUDED.region,
			locality = EXCLUDED.locality,
			meeting_date = EXCLUDED.meeting_date,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			questioner = EXCLUDED.questioner,
			answerer = EXCLUDED.answerer,
			source_url = EXCLUDED.source_url,
			subtitle_group_id = EXCLUDED.subtitle_group_id,
			start_sec = EXCLUDED.start_sec,
			end_sec = EXCLUDED.end_sec,
			external_id = EXCLUDED.external_id,
			category = EXCLUDED.category,
			stance = EXCLUDED.stance,
			excerpt_text = EXCLUDED.excerpt_text,
			excerpt_range = EXCLUDED.excerpt_range,
			has_subtitle = EXCLUDED.has_subtitle,
			zero_score = EXCLUDED.zero_score,
			rank = EXCLUDED.rank,
			priority = EXCLUDED.priority,
			ai_score = EXCLUDED.ai_score,
			ai_reasoning = EXCLUDED.ai_reasoning,
			updated_at = now()
		RETURNING id::text`)

	return store.Many(ctx, s.q, func(r store.Row) (string, error) {
		var id string
		return id, r.Scan(&id)
	}, sb.String(), args...)
}
