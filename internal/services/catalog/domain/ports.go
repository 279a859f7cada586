package domain

import "context"

// ReaderPort defines the read interface for the service catalog
type ReaderPort interface {
	// Context returns the service context for one service.
	// found=false means the catalog has no row; callers degrade to
	// keyword-only behavior, it is not an error
	Context(ctx context.Context, serviceID string) (sc ServiceContext, found bool, err error)
}
