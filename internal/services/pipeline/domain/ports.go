package domain

import (
	"context"

	catalogdom "leadscout/internal/services/catalog/domain"
	keywordsdom "leadscout/internal/services/keywords/domain"
	minutesdom "leadscout/internal/services/minutes/domain"
	rulesdom "leadscout/internal/services/rules/domain"
	topicsdom "leadscout/internal/services/topics/domain"
)

// RunnerPort executes the pipeline
type RunnerPort interface {
	// Run never fails the invocation for stage errors; they are reported
	// inside the Result
	Run(ctx context.Context, in Input) (Result, error)
}

// Ports are the cross-module dependencies injected by the composition root
type Ports struct {
	Minutes  minutesdom.ReaderPort
	Rules    rulesdom.ReaderPort
	Catalog  catalogdom.ReaderPort
	Keywords keywordsdom.BuilderPort
	Topics   topicsdom.WriterPort
}

// JudgePort is the slice of the judgment client the pipeline needs.
// Configured false degrades the run to keyword-only triage with no ranking
type JudgePort interface {
	Configured() bool
	Judge(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SubtitlePort fetches subtitle text for a meeting group
type SubtitlePort interface {
	Configured() bool
	TextByGroupID(ctx context.Context, groupID string) (text string, found bool, err error)
}

// RunLogPort appends one run report to the analytics sink
type RunLogPort interface {
	Append(ctx context.Context, res Result) error
}
