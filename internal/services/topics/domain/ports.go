package domain

import "context"

// WriterPort upserts normalized lead topics
type WriterPort interface {
	// UpsertBatch writes rows idempotently on (service_id, company_row_key)
	// and returns the ids of the rows written
	UpsertBatch(ctx context.Context, rows []Row) (ids []string, err error)
}
