// Package repo provides the location rules repository implementation
package repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/platform/store"
	"leadscout/internal/services/rules/domain"
)

// psql builds queries with $n placeholders for pgx
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the rules repository
type Storage interface {
	Exclusions(ctx context.Context, serviceID string) ([]domain.ExclusionRule, error)
	Inclusions(ctx context.Context, serviceID string) ([]domain.InclusionRule, error)
}

// Exclusions implements Storage
func (s *pg) Exclusions(ctx context.Context, serviceID string) ([]domain.ExclusionRule, error) {
	sql, args, err := psql.
		Select(
			"COALESCE(region, '')",
			"COALESCE(locality, '')",
			"COALESCE(reason, '')",
		).
		From("lead_exclusion_rules").
		Where(sq.Eq{"service_id": serviceID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	return store.Many(ctx, s.q, func(r store.Row) (domain.ExclusionRule, error) {
		var x domain.ExclusionRule
		return x, r.Scan(&x.Region, &x.Locality, &x.Reason)
	}, sql, args...)
}

// Inclusions implements Storage
func (s *pg) Inclusions(ctx context.Context, serviceID string) ([]domain.InclusionRule, error) {
	sql, args, err := psql.
		Select(
			"COALESCE(region, '')",
			"COALESCE(locality, '')",
			"COALESCE(memo, '')",
		).
		From("lead_inclusion_rules").
		Where(sq.Eq{"service_id": serviceID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	return store.Many(ctx, s.q, func(r store.Row) (domain.InclusionRule, error) {
		var x domain.InclusionRule
		return x, r.Scan(&x.Region, &x.Locality, &x.Memo)
	}, sql, args...)
}
