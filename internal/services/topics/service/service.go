// Package service provides the lead topics writer
package service

import (
	"context"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/services/topics/domain"
	"leadscout/internal/services/topics/repo"
)

// Config for the topics service
type Config struct {
	// ChunkSize bounds one INSERT statement; defaults to 200 if <=0
	ChunkSize int
}

// Service implements domain.WriterPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

// New constructs a new topics service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 200
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// UpsertBatch implements domain.WriterPort. The whole batch commits in one
// transaction so a half-written run never becomes visible
func (s *Service) UpsertBatch(ctx context.Context, rows []domain.Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		for at := 0; at < len(rows); at += s.Cfg.ChunkSize {
			hi := at + s.Cfg.ChunkSize
			if hi > len(rows) {
				hi = len(rows)
			}
			chunk, err := st.UpsertBatch(ctx, rows[at:hi])
			if err != nil {
				return err
			}
			ids = append(ids, chunk...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
