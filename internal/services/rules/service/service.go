// Package service provides the location rules reader
package service

import (
	"context"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/rules/domain"
	"leadscout/internal/services/rules/repo"
)

// Service implements domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new rules service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// Rules implements domain.ReaderPort
func (s *Service) Rules(ctx context.Context, serviceID string) (domain.RuleSet, error) {
	var set domain.RuleSet
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		ex, err := st.Exclusions(ctx, serviceID)
		if err != nil {
			return err
		}
		in, err := st.Inclusions(ctx, serviceID)
		if err != nil {
			return err
		}
		set = domain.RuleSet{Exclusions: ex, Inclusions: in}
		return nil
	})
	if err != nil {
		return domain.RuleSet{}, err
	}
	return set, nil
}
