// Package domain defines ports for per-service keyword configuration
package domain

import (
	"context"

	"leadscout/internal/core/match"
	catalogdom "leadscout/internal/services/catalog/domain"
)

// BuilderPort builds the must/should/not keyword set for one service.
// sc may be nil when the catalog has no context row; the builder then
// returns its static defaults
type BuilderPort interface {
	Keywords(ctx context.Context, serviceID string, sc *catalogdom.ServiceContext) (match.Keywords, error)
}

// JudgePort is the slice of the judgment client keyword generation needs
type JudgePort interface {
	Configured() bool
	Judge(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
