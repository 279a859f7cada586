package service

import (
	"context"
	"sort"

	"leadscout/internal/core/match"
	"leadscout/internal/core/subtitle"
	"leadscout/internal/services/pipeline/domain"
)

// subtitleCache memoizes parsed tracks per run keyed by group id so rows
// sharing a meeting video pay for one fetch. Misses cache too: a group
// without a track is asked for exactly once
type subtitleCache struct {
	segs  map[string][]subtitle.Segment
	found map[string]bool
}

func newSubtitleCache() *subtitleCache {
	return &subtitleCache{
		segs:  make(map[string][]subtitle.Segment),
		found: make(map[string]bool),
	}
}

// attachEvidence turns zero-order survivors into first-order results.
// Rows without a group id, without a published track, or with an
// unconfigured subtitle source pass through with no snippets; a fetch error
// degrades the same way and is reported, never dropping the row
func (s *Service) attachEvidence(
	ctx context.Context,
	survivors []domain.ZeroOrder,
	m *match.Matcher,
	errs *[]string,
) []domain.FirstOrder {
	cache := newSubtitleCache()
	out := make([]domain.FirstOrder, 0, len(survivors))

	for _, zo := range survivors {
		fo := domain.FirstOrder{Row: zo.Row, ZeroScore: zo.Score}

		if zo.Row.GroupID != "" && s.subs != nil && s.subs.Configured() {
			segs, found, err := s.trackFor(ctx, cache, zo.Row.GroupID)
			if err != nil {
				*errs = append(*errs, "subtitle fetch "+zo.Row.GroupID+": "+err.Error())
				s.log.Warn().Err(err).Str("group_id", zo.Row.GroupID).Msg("subtitle fetch failed passing row without evidence")
			} else if found {
				fo.HasSubtitle = true
				window := subtitle.Window(segs, zo.Row.StartSec, zo.Row.EndSec, s.cfg.PadSec)
				fo.Snippets = selectSnippets(window, m, s.cfg.SnippetMax)
			}
		}

		out = append(out, fo)
	}
	return out
}

// trackFor fetches and parses one group's track through the per-run cache
func (s *Service) trackFor(ctx context.Context, cache *subtitleCache, groupID string) ([]subtitle.Segment, bool, error) {
	if found, ok := cache.found[groupID]; ok {
		return cache.segs[groupID], found, nil
	}

	text, found, err := s.subs.TextByGroupID(ctx, groupID)
	if err != nil {
		return nil, false, err
	}

	var segs []subtitle.Segment
	if found {
		segs = subtitle.Parse(text)
		if len(segs) == 0 {
			// a track of nothing but malformed cues is no track
			found = false
		}
	}
	cache.segs[groupID] = segs
	cache.found[groupID] = found
	return segs, found, nil
}

// selectSnippets keeps up to max segments containing at least one configured
// keyword, ranked by distinct matched keywords descending; ties keep
// subtitle order. Only the selected snippets survive, never the full window
func selectSnippets(window []subtitle.Segment, m *match.Matcher, max int) []domain.Snippet {
	type scored struct {
		seg     subtitle.Segment
		matched []string
	}

	hits := make([]scored, 0, len(window))
	for _, seg := range window {
		if matched := m.Evidence(seg.Text); len(matched) > 0 {
			hits = append(hits, scored{seg: seg, matched: matched})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return len(hits[i].matched) > len(hits[j].matched) })
	if max > 0 && len(hits) > max {
		hits = hits[:max]
	}

	out := make([]domain.Snippet, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.Snippet{
			Text:     h.seg.Text,
			StartSec: h.seg.StartSec,
			EndSec:   h.seg.EndSec,
			Matched:  h.matched,
		})
	}
	return out
}
