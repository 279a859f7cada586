// Package service provides the commercial service catalog reader
package service

import (
	"context"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/catalog/domain"
	"leadscout/internal/services/catalog/repo"
)

// Service implements domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new catalog service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// Context implements domain.ReaderPort
func (s *Service) Context(ctx context.Context, serviceID string) (domain.ServiceContext, bool, error) {
	var (
		sc    domain.ServiceContext
		found bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		sc, found, err = s.Binder.Bind(q).Context(ctx, serviceID)
		return err
	})
	if err != nil {
		return domain.ServiceContext{}, false, err
	}
	return sc, found, nil
}
