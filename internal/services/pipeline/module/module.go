// Package module wires the lead pipeline from its collaborators
package module

import (
	"net/http"

	"leadscout/internal/adapters/llm"
	"leadscout/internal/adapters/subtitles"
	"leadscout/internal/modkit"
	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/services/pipeline/domain"
	"leadscout/internal/services/pipeline/repo"
	"leadscout/internal/services/pipeline/service"
)

// Ports exposed by the pipeline module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new pipeline module. The cross-module ports come in via
// modkit.WithPorts; the judgment and subtitle clients are built here from
// SERVICE_LLM_* and SERVICE_SUBTITLES_* config and stay optional
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("pipeline"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("pipeline module: expected WithPorts(pipeline/domain.Ports)")
	}
	if ports.Minutes == nil || ports.Rules == nil || ports.Catalog == nil ||
		ports.Keywords == nil || ports.Topics == nil {
		panic("pipeline module: Ports missing a collaborator")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.ZeroBatch != 0 {
		cfg.ZeroBatch = overrides.ZeroBatch
	}
	if overrides.RankWorkers != 0 {
		cfg.RankWorkers = overrides.RankWorkers
	}
	if overrides.FirstOrderLimit != 0 {
		cfg.FirstOrderLimit = overrides.FirstOrderLimit
	}
	if overrides.ZeroLimit != 0 {
		cfg.ZeroLimit = overrides.ZeroLimit
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}

	judge := NewJudge(deps)
	subs := NewSubtitles(deps)

	var runlog domain.RunLogPort
	if deps.CH != nil {
		runlog = repo.NewRunLog(deps.CH)
	}

	svc := service.New(ports, judge, subs, runlog, service.Config{
		ZeroBatch:       cfg.ZeroBatch,
		RankWorkers:     cfg.RankWorkers,
		FirstOrderLimit: cfg.FirstOrderLimit,
		ZeroLimit:       cfg.ZeroLimit,
		PageSize:        cfg.PageSize,
		PadSec:          cfg.PadSec,
		SnippetMax:      cfg.SnippetMax,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// NewJudge builds the judgment client from SERVICE_LLM_* config.
// An empty base URL or key yields an unconfigured client, which downgrades
// triage to the keyword variant and skips ranking
func NewJudge(deps modkit.Deps) *llm.Client {
	lf := deps.Cfg.Prefix("SERVICE_LLM_")
	var temp *float64
	if t := lf.MayFloat64("TEMPERATURE", -1); t >= 0 {
		temp = &t
	}
	return llm.NewClient(llm.Options{
		BaseURL:     lf.MayString("BASE_URL", ""),
		APIKey:      lf.MayString("API_KEY", ""),
		Model:       lf.MayString("MODEL", ""),
		Temperature: temp,
		MaxRetries:  lf.MayInt("MAX_RETRIES", 0),
	})
}

// NewSubtitles builds the subtitle client from SERVICE_SUBTITLES_* config
func NewSubtitles(deps modkit.Deps) *subtitles.Client {
	sf := deps.Cfg.Prefix("SERVICE_SUBTITLES_")
	return subtitles.NewClient(subtitles.Options{
		BaseURL: sf.MayString("BASE_URL", ""),
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "pipeline" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
