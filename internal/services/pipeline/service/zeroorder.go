package service

import (
	"sort"

	"leadscout/internal/core/match"
	"leadscout/internal/core/rowkey"
	minutesdom "leadscout/internal/services/minutes/domain"
	"leadscout/internal/services/pipeline/domain"
)

// dedupeRows collapses rows sharing one canonical key, first occurrence wins.
// Runs before triage so a lead duplicated by the ingester is scored once
func dedupeRows(tenant string, rows []minutesdom.Row) []minutesdom.Row {
	seen := make(map[string]struct{}, len(rows))
	out := make([]minutesdom.Row, 0, len(rows))
	for _, r := range rows {
		k := rowkey.Compute(r.KeyParts(tenant))
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// zeroOrderKeyword is the pure triage variant: presence counts over
// title+summary, the fixed score formula, the disjunctive pass threshold.
// Survivors come back sorted by score descending; limit 0 returns all
func zeroOrderKeyword(rows []minutesdom.Row, m *match.Matcher, metaBias, limit int) []domain.ZeroOrder {
	out := make([]domain.ZeroOrder, 0, len(rows))
	for _, r := range rows {
		c := m.Counts(r.MatchText())
		score := match.Score(c, metaBias)
		if !match.Pass(c, score) {
			continue
		}
		out = append(out, domain.ZeroOrder{
			Row:         r,
			MustCount:   c.Must,
			ShouldCount: c.Should,
			NotCount:    c.Not,
			MetaScore:   metaBias,
			Score:       score,
			Passed:      true,
		})
	}
	return sortAndCap(out, limit)
}

// sortAndCap orders survivors by score descending, ties in input order,
// and applies the cap (0 = uncapped)
func sortAndCap(xs []domain.ZeroOrder, limit int) []domain.ZeroOrder {
	sort.SliceStable(xs, func(i, j int) bool { return xs[i].Score > xs[j].Score })
	if limit > 0 && len(xs) > limit {
		xs = xs[:limit]
	}
	return xs
}
