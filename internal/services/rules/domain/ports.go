package domain

import "context"

// ReaderPort defines the read interface for location rules
type ReaderPort interface {
	// Rules returns both rule lists for one service in one round trip
	Rules(ctx context.Context, serviceID string) (RuleSet, error)
}
