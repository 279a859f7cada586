// Package repo provides the service catalog repository implementation
package repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"leadscout/internal/modkit/repokit"
	perr "leadscout/internal/platform/errors"
	"leadscout/internal/platform/store"
	"leadscout/internal/services/catalog/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the catalog repository
type Storage interface {
	Context(ctx context.Context, serviceID string) (domain.ServiceContext, bool, error)
}

// Context implements Storage
func (s *pg) Context(ctx context.Context, serviceID string) (domain.ServiceContext, bool, error) {
	sql, args, err := psql.
		Select(
			"id::text",
			"name",
			"COALESCE(description, '')",
			"COALESCE(target_problems, '')",
			"COALESCE(target_keywords, '')",
		).
		From("commercial_services").
		Where(sq.Eq{"id": serviceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.ServiceContext{}, false, err
	}

	sc, err := store.One(ctx, s.q, func(r store.Row) (domain.ServiceContext, error) {
		var sc domain.ServiceContext
		return sc, r.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.TargetProblems, &sc.TargetKeywords)
	}, sql, args...)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.ServiceContext{}, false, nil
	}
	if err != nil {
		return domain.ServiceContext{}, false, err
	}
	return sc, true, nil
}
