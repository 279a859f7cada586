// Package service builds per-service keyword sets, optionally via the
// judgment service, with a TTL cache so one set survives across pipeline
// invocations without re-paying the generation call
package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"leadscout/internal/adapters/llm"
	"leadscout/internal/core/match"
	"leadscout/internal/platform/logger"
	catalogdom "leadscout/internal/services/catalog/domain"
	"leadscout/internal/services/keywords/domain"
)

const defaultTTL = 15 * time.Minute

// defaultKeywords is the static fallback used when no service context is
// available or generation fails. Tuned for municipal procurement language
var defaultKeywords = match.Keywords{
	Must:   []string{"導入", "検討", "委託"},
	Should: []string{"課題", "予算", "効率化", "DX", "デジタル化", "民間活用"},
	Not:    []string{"廃止", "反対", "中止"},
}

// Config for the keyword builder
type Config struct {
	// TTL bounds how long a generated set is reused; <=0 means 15 minutes
	TTL time.Duration
}

type entry struct {
	kw match.Keywords
	at time.Time
}

// Service implements domain.BuilderPort
type Service struct {
	judge domain.JudgePort
	cfg   Config
	log   logger.Logger

	mu    sync.Mutex
	cache map[string]entry
	now   func() time.Time
}

// New constructs a keyword builder. judge may be nil; the builder then
// always answers with the static defaults
func New(judge domain.JudgePort, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &Service{
		judge: judge,
		cfg:   cfg,
		log:   *logger.Named("keywords"),
		cache: make(map[string]entry),
		now:   time.Now,
	}
}

// Keywords implements domain.BuilderPort
func (s *Service) Keywords(ctx context.Context, serviceID string, sc *catalogdom.ServiceContext) (match.Keywords, error) {
	s.mu.Lock()
	if e, ok := s.cache[serviceID]; ok && s.now().Sub(e.at) < s.cfg.TTL {
		s.mu.Unlock()
		return e.kw, nil
	}
	s.mu.Unlock()

	kw := s.build(ctx, sc)

	s.mu.Lock()
	s.cache[serviceID] = entry{kw: kw, at: s.now()}
	s.mu.Unlock()
	return kw, nil
}

// build generates a set from the service context or falls back to defaults.
// Generation failure is a degraded case, never an error for the caller
func (s *Service) build(ctx context.Context, sc *catalogdom.ServiceContext) match.Keywords {
	if sc == nil || s.judge == nil || !s.judge.Configured() {
		return defaultKeywords
	}

	content, err := s.judge.Judge(ctx, keywordSystemPrompt, keywordUserPrompt(*sc))
	if err != nil {
		s.log.Warn().Err(err).Str("service", sc.ID).Msg("keyword generation failed using defaults")
		return defaultKeywords
	}

	var out match.Keywords
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &out); err != nil {
		s.log.Warn().Err(err).Str("service", sc.ID).Msg("keyword generation returned malformed json using defaults")
		return defaultKeywords
	}
	if out.Empty() {
		s.log.Warn().Str("service", sc.ID).Msg("keyword generation returned empty set using defaults")
		return defaultKeywords
	}
	return out
}

const keywordSystemPrompt = `You extract sales-lead trigger keywords from a commercial service description.
Respond with bare JSON only, shaped {"must": [], "should": [], "not": [], "meta_bias": 0}.
must: 2-4 terms whose presence in a council minute strongly signals demand for the service.
should: 4-8 weaker supporting terms.
not: 2-4 terms that disqualify a minute (the topic being cancelled, opposed, or already solved).
meta_bias: usually 0; a small integer shifting every score when the domain is unusually broad or narrow.
Use the language of the service description.`

// keywordUserPrompt renders the catalog row into the generation request
func keywordUserPrompt(sc catalogdom.ServiceContext) string {
	var b strings.Builder
	b.WriteString("Service name: " + sc.Name + "\n")
	if sc.Description != "" {
		b.WriteString("Description: " + sc.Description + "\n")
	}
	if sc.TargetProblems != "" {
		b.WriteString("Problems it solves: " + sc.TargetProblems + "\n")
	}
	if sc.TargetKeywords != "" {
		b.WriteString("Seed keywords from the sales team: " + sc.TargetKeywords + "\n")
	}
	return b.String()
}
