package service

import (
	"fmt"
	"sort"
	"strings"

	"leadscout/internal/core/rowkey"
	"leadscout/internal/core/subtitle"
	"leadscout/internal/services/pipeline/domain"
	topicsdom "leadscout/internal/services/topics/domain"
)

// normalize renders ranked survivors into storage-ready rows and collapses
// duplicates on the canonical row key. Input order is score order, so the
// first occurrence of a key is the strongest and wins
func normalize(tenant string, ranked []domain.Ranked) []topicsdom.Row {
	seen := make(map[string]struct{}, len(ranked))
	out := make([]topicsdom.Row, 0, len(ranked))

	for _, r := range ranked {
		key := rowkey.Compute(r.Row.KeyParts(tenant))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		text, rng := renderSnippets(r.Snippets)
		out = append(out, topicsdom.Row{
			ServiceID:     tenant,
			CompanyRowKey: key,
			Region:        r.Row.Region,
			Locality:      r.Row.Locality,
			MeetingDate:   r.Row.MeetingDate,
			Title:         r.Row.Title,
			Summary:       r.Row.Summary,
			Questioner:    r.Row.Questioner,
			Answerer:      r.Row.Answerer,
			SourceURL:     r.Row.SourceURL,
			GroupID:       r.Row.GroupID,
			StartSec:      r.Row.StartSec,
			EndSec:        r.Row.EndSec,
			ExternalID:    r.Row.ExternalID,
			Category:      r.Row.Category,
			Stance:        r.Row.Stance,
			ExcerptText:   text,
			ExcerptRange:  rng,
			HasSubtitle:   r.HasSubtitle,
			ZeroScore:     r.ZeroScore,
			Rank:          r.Rank,
			Priority:      r.Priority,
			AiScore:       r.AiScore,
			AiReasoning:   r.Reasoning,
		})
	}
	return out
}

// renderSnippets renders evidence time-sorted, one block per snippet, and
// summarizes the covered span. Empty evidence renders empty
func renderSnippets(snippets []domain.Snippet) (text, excerptRange string) {
	if len(snippets) == 0 {
		return "", ""
	}

	sorted := append([]domain.Snippet(nil), snippets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartSec < sorted[j].StartSec })

	blocks := make([]string, 0, len(sorted))
	for _, sn := range sorted {
		blocks = append(blocks, fmt.Sprintf("[%s] %s (matched: %s)",
			subtitle.Timestamp(sn.StartSec), sn.Text, strings.Join(sn.Matched, ", ")))
	}

	unit := "snippets"
	if len(sorted) == 1 {
		unit = "snippet"
	}
	excerptRange = fmt.Sprintf("%s-%s (%d %s)",
		subtitle.Timestamp(sorted[0].StartSec),
		subtitle.Timestamp(sorted[len(sorted)-1].EndSec),
		len(sorted), unit)

	return strings.Join(blocks, "\n\n"), excerptRange
}
