// Package domain defines the core types and interfaces for the lead pipeline
package domain

import (
	"time"

	minutesdom "leadscout/internal/services/minutes/domain"
	topicsdom "leadscout/internal/services/topics/domain"
)

// Input selects the window and per-run knobs for one pipeline invocation
type Input struct {
	ServiceID string
	Since     time.Time // inclusive
	Until     time.Time // exclusive

	// ZeroLimit caps zero-order survivors; 0 = uncapped
	ZeroLimit int
	// FirstOrderLimit caps how many survivors get evidence extraction;
	// 0 falls back to the module default
	FirstOrderLimit int

	DryRun bool
}

// ZeroOrder wraps a candidate row with its triage counts and verdict.
// Score and Passed follow the keyword formula for the keyword variant; the
// judgment variant fills Score/Passed only and leaves the counts zero
type ZeroOrder struct {
	Row minutesdom.Row

	MustCount   int
	ShouldCount int
	NotCount    int
	MetaScore   int
	Score       int
	Passed      bool
}

// Snippet is one evidence-bearing subtitle segment
type Snippet struct {
	Text     string
	StartSec float64
	EndSec   float64
	Matched  []string
}

// FirstOrder is a zero-order survivor with bounded evidence attached.
// HasSubtitle false is the degraded-evidence case, not an error
type FirstOrder struct {
	Row       minutesdom.Row
	ZeroScore int

	Snippets    []Snippet
	HasSubtitle bool
}

// Ranked adds the final judgment to a first-order result
type Ranked struct {
	FirstOrder

	Rank      string // S A B C, empty when ranking was skipped
	Priority  string // A B C, always set
	AiScore   int
	Reasoning string
	Positive  []string
	Negative  []string
}

// Excluded records a dropped row and why
type Excluded struct {
	Row    minutesdom.Row
	Reason string
}

// Result is the run report. The orchestrator always returns one, with zero
// counts downstream of any failure point and the failures in Errors
type Result struct {
	RunID      string    `json:"run_id"`
	ServiceID  string    `json:"service_id"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	TotalFetched        int            `json:"total_fetched"`
	IncludedCount       int            `json:"included_count"`
	ExcludedCount       int            `json:"excluded_count"`
	ZeroOrderPassed     int            `json:"zero_order_passed"`
	FirstOrderProcessed int            `json:"first_order_processed"`
	AiRankedCount       int            `json:"ai_ranked_count"`
	RankDistribution    map[string]int `json:"rank_distribution,omitempty"`
	CRankExcluded       int            `json:"c_rank_excluded"`
	ImportedCount       int            `json:"imported_count"`

	Errors []string `json:"errors,omitempty"`

	// Rows are what was written, or would have been in dry-run
	Rows []topicsdom.Row `json:"-"`
}

// PriorityFor maps a judgment rank to the storage priority tier.
// The mapping is total over S A B C; anything else lands on the middle tier
func PriorityFor(rank string) string {
	switch rank {
	case "S", "A":
		return "A"
	case "B":
		return "B"
	case "C":
		return "C"
	default:
		return "B"
	}
}
