// Package repo provides the pipeline run-log sink
package repo

import (
	"context"

	"leadscout/internal/platform/store"
	"leadscout/internal/services/pipeline/domain"
)

// RunLog appends one row per pipeline run to ClickHouse for run analytics
type RunLog struct {
	ch store.Clickhouse
}

// NewRunLog constructs a run log over the CH seam
func NewRunLog(ch store.Clickhouse) *RunLog {
	return &RunLog{ch: ch}
}

// Append implements domain.RunLogPort
func (r *RunLog) Append(ctx context.Context, res domain.Result) error {
	row := []any{
		res.RunID,
		res.ServiceID,
		boolTiny(res.DryRun),
		res.StartedAt,
		res.FinishedAt,
		uint32(res.TotalFetched),
		uint32(res.IncludedCount),
		uint32(res.ExcludedCount),
		uint32(res.ZeroOrderPassed),
		uint32(res.FirstOrderProcessed),
		uint32(res.AiRankedCount),
		uint32(res.RankDistribution["S"]),
		uint32(res.RankDistribution["A"]),
		uint32(res.RankDistribution["B"]),
		uint32(res.RankDistribution["C"]),
		uint32(res.CRankExcluded),
		uint32(res.ImportedCount),
		uint16(len(res.Errors)),
	}
	return r.ch.Insert(ctx, `lead_pipeline_runs
		(run_id, service_id, dry_run, started_at, finished_at,
		total_fetched, included, excluded, zero_passed, first_order,
		ai_ranked, rank_s, rank_a, rank_b, rank_c,
		c_excluded, imported, error_count)`, [][]any{row})
}

func boolTiny(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
