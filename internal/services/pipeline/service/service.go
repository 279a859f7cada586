// Package service implements the lead pipeline orchestrator.
// Stages run strictly in order: location rules, zero-order triage,
// first-order evidence, judgment ranking, normalization, storage upsert.
// A stage failure is recorded and the run keeps going; the report always
// comes back, with zero counts downstream of the failure point
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadscout/internal/core/match"
	"leadscout/internal/platform/logger"
	catalogdom "leadscout/internal/services/catalog/domain"
	minutesdom "leadscout/internal/services/minutes/domain"
	"leadscout/internal/services/pipeline/domain"
)

// Config for the pipeline service
type Config struct {
	// ZeroBatch is the judgment batch size for zero-order triage
	ZeroBatch int
	// RankWorkers bounds concurrent ranking judgments
	RankWorkers int
	// FirstOrderLimit caps how many zero-order survivors get evidence,
	// bounding subtitle-fetch cost per run
	FirstOrderLimit int
	// ZeroLimit caps zero-order survivors; 0 = uncapped
	ZeroLimit int
	// PageSize for reading candidate rows
	PageSize int
	// PadSec widens the evidence window on both sides
	PadSec int
	// SnippetMax caps evidence snippets per row
	SnippetMax int
}

func (c Config) withDefaults() Config {
	if c.ZeroBatch <= 0 {
		c.ZeroBatch = 10
	}
	if c.RankWorkers <= 0 {
		c.RankWorkers = 3
	}
	if c.FirstOrderLimit <= 0 {
		c.FirstOrderLimit = 100
	}
	if c.PageSize <= 0 {
		c.PageSize = 500
	}
	if c.PadSec <= 0 {
		c.PadSec = 30
	}
	if c.SnippetMax <= 0 {
		c.SnippetMax = 10
	}
	return c
}

// Service implements domain.RunnerPort
type Service struct {
	ports  domain.Ports
	judge  domain.JudgePort
	subs   domain.SubtitlePort
	runlog domain.RunLogPort

	cfg Config
	log logger.Logger
	now func() time.Time
}

// New constructs a pipeline service. judge, subs and runlog may be nil;
// each missing collaborator degrades its own stage only
func New(ports domain.Ports, judge domain.JudgePort, subs domain.SubtitlePort, runlog domain.RunLogPort, cfg Config) *Service {
	return &Service{
		ports:  ports,
		judge:  judge,
		subs:   subs,
		runlog: runlog,
		cfg:    cfg.withDefaults(),
		log:    *logger.Named("pipeline"),
		now:    time.Now,
	}
}

// Run implements domain.RunnerPort
func (s *Service) Run(ctx context.Context, in domain.Input) (domain.Result, error) {
	res := domain.Result{
		RunID:            uuid.NewString(),
		ServiceID:        in.ServiceID,
		DryRun:           in.DryRun,
		StartedAt:        s.now().UTC(),
		RankDistribution: make(map[string]int),
	}
	ctx = logger.WithRun(ctx, res.RunID, in.ServiceID)
	log := logger.C(ctx)

	fail := func(stage string, err error) {
		res.Errors = append(res.Errors, stage+": "+err.Error())
		log.Error().Err(err).Str("stage", stage).Msg("pipeline stage failed")
	}
	finish := func() (domain.Result, error) {
		res.FinishedAt = s.now().UTC()
		s.appendRunLog(ctx, &res)
		log.Info().
			Int("fetched", res.TotalFetched).
			Int("zero_passed", res.ZeroOrderPassed).
			Int("first_order", res.FirstOrderProcessed).
			Int("ranked", res.AiRankedCount).
			Int("imported", res.ImportedCount).
			Int("errors", len(res.Errors)).
			Bool("dry_run", res.DryRun).
			Msg("pipeline run finished")
		return res, nil
	}

	// candidate rows
	rows, err := s.fetchAll(ctx, in)
	if err != nil {
		fail("fetch", err)
		return finish()
	}
	res.TotalFetched = len(rows)

	// location rules; a rule-store failure passes everything through
	set, err := s.ports.Rules.Rules(ctx, in.ServiceID)
	if err != nil {
		fail("rules", err)
	}
	passed, excluded := applyLocationRules(rows, set)
	res.IncludedCount = len(passed)
	res.ExcludedCount = len(excluded)
	for _, ex := range excluded {
		log.Debug().Str("row", ex.Row.ID).Str("reason", ex.Reason).Msg("row excluded by location rule")
	}

	// service context; absence degrades to keyword-only behavior
	var sc *catalogdom.ServiceContext
	if got, found, err := s.ports.Catalog.Context(ctx, in.ServiceID); err != nil {
		fail("catalog", err)
	} else if found {
		sc = &got
	}

	kw, err := s.ports.Keywords.Keywords(ctx, in.ServiceID, sc)
	if err != nil {
		fail("keywords", err)
	}
	matcher := match.New(kw)

	// zero-order triage, judgment variant preferred when possible
	zeroLimit := in.ZeroLimit
	if zeroLimit == 0 {
		zeroLimit = s.cfg.ZeroLimit
	}
	deduped := dedupeRows(in.ServiceID, passed)

	var survivors []domain.ZeroOrder
	if sc != nil && s.judge != nil && s.judge.Configured() {
		survivors, err = s.zeroOrderJudge(ctx, deduped, *sc, zeroLimit, &res.Errors)
		if err != nil {
			fail("zero-order-judge", err)
			survivors = zeroOrderKeyword(deduped, matcher, kw.MetaBias, zeroLimit)
		}
	} else {
		survivors = zeroOrderKeyword(deduped, matcher, kw.MetaBias, zeroLimit)
	}
	res.ZeroOrderPassed = len(survivors)

	// hard cap before evidence extraction
	foLimit := in.FirstOrderLimit
	if foLimit <= 0 {
		foLimit = s.cfg.FirstOrderLimit
	}
	if len(survivors) > foLimit {
		survivors = survivors[:foLimit]
	}

	fos := s.attachEvidence(ctx, survivors, matcher, &res.Errors)
	res.FirstOrderProcessed = len(fos)

	// final judgment; skipped wholesale when no judge is configured
	var ranked []domain.Ranked
	if s.judge != nil && s.judge.Configured() {
		ranked = s.rankAll(ctx, fos, sc, &res.Errors)
		res.AiRankedCount = len(ranked)
		for _, r := range ranked {
			res.RankDistribution[r.Rank]++
		}
	} else {
		ranked = make([]domain.Ranked, 0, len(fos))
		for _, fo := range fos {
			ranked = append(ranked, domain.Ranked{FirstOrder: fo, Priority: "B"})
		}
	}

	// normalize, dedup, drop the bottom tier from the write
	normalized := normalize(in.ServiceID, ranked)
	writable := normalized[:0:0]
	for _, row := range normalized {
		if row.Priority == "C" {
			res.CRankExcluded++
			continue
		}
		writable = append(writable, row)
	}
	res.Rows = writable

	if in.DryRun || len(writable) == 0 {
		return finish()
	}
	ids, err := s.ports.Topics.UpsertBatch(ctx, writable)
	if err != nil {
		fail("write", err)
		return finish()
	}
	res.ImportedCount = len(ids)

	return finish()
}

// fetchAll pages through the candidate reader for the whole window
func (s *Service) fetchAll(ctx context.Context, in domain.Input) ([]minutesdom.Row, error) {
	var (
		out   []minutesdom.Row
		after minutesdom.AfterKey
	)
	for {
		rows, next, err := s.ports.Minutes.List(ctx, minutesdom.ListInput{
			Since: in.Since,
			Until: in.Until,
			After: after,
			Limit: s.cfg.PageSize,
		})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return out, nil
		}
		out = append(out, rows...)
		after = next
	}
}

// appendRunLog reports the run to the analytics sink when one is wired.
// Failure to log a run never counts against the run itself
func (s *Service) appendRunLog(ctx context.Context, res *domain.Result) {
	if s.runlog == nil {
		return
	}
	if err := s.runlog.Append(ctx, *res); err != nil {
		s.log.Warn().Err(err).Str("run_id", res.RunID).Msg("run log append failed")
	}
}
