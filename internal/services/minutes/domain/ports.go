package domain

import "context"

// ReaderPort defines the read interface for candidate rows
type ReaderPort interface {
	// List returns up to Limit rows ordered by (created_at, id)
	List(ctx context.Context, in ListInput) (rows []Row, next AfterKey, err error)
}
