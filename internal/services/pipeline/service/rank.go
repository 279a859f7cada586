package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"leadscout/internal/adapters/llm"
	catalogdom "leadscout/internal/services/catalog/domain"
	"leadscout/internal/services/pipeline/domain"
)

const rankSystemPrompt = `You rank council-minute excerpts as sales leads for a commercial service.
Judge the excerpt plus its transcript evidence and respond with bare JSON:
{"rank": "S"|"A"|"B"|"C", "score": 0-12, "reasoning": "...", "key_points": {"positive": [], "negative": []}}
S: explicit procurement intent. A: concrete interest or budget discussion.
B: relevant problem acknowledged, no movement. C: off-topic or already solved.`

// rankAnswer is the judgment payload for one lead
type rankAnswer struct {
	Rank      string `json:"rank"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
	KeyPoints struct {
		Positive []string `json:"positive"`
		Negative []string `json:"negative"`
	} `json:"key_points"`
}

// rankAll judges every first-order result with bounded concurrency and
// merges answers back by original index, so output order never depends on
// completion order. A failed judgment lands on the middle tier instead of
// dropping or promoting the lead
func (s *Service) rankAll(
	ctx context.Context,
	fos []domain.FirstOrder,
	sc *catalogdom.ServiceContext,
	errs *[]string,
) []domain.Ranked {
	out := make([]domain.Ranked, len(fos))

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	sem := make(chan struct{}, s.cfg.RankWorkers)

	for i := range fos {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()

			r, err := s.rankOne(ctx, fos[i], sc)
			mu.Lock()
			if err != nil {
				*errs = append(*errs, "rank "+fos[i].Row.ID+": "+err.Error())
				r = fallbackRank(fos[i])
			}
			out[i] = r
			done++
			if done%10 == 0 || done == len(fos) {
				s.log.Info().Int("done", done).Int("total", len(fos)).Msg("ranking progress")
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	return out
}

// rankOne sends one judgment request and validates the answer
func (s *Service) rankOne(ctx context.Context, fo domain.FirstOrder, sc *catalogdom.ServiceContext) (domain.Ranked, error) {
	content, err := s.judge.Judge(ctx, rankSystemPrompt, rankUserPrompt(fo, sc))
	if err != nil {
		return domain.Ranked{}, err
	}

	var a rankAnswer
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &a); err != nil {
		return domain.Ranked{}, fmt.Errorf("malformed judgment: %w", err)
	}
	a.Rank = strings.ToUpper(strings.TrimSpace(a.Rank))
	switch a.Rank {
	case "S", "A", "B", "C":
	default:
		return domain.Ranked{}, fmt.Errorf("judgment rank %q outside S/A/B/C", a.Rank)
	}
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 12 {
		a.Score = 12
	}

	return domain.Ranked{
		FirstOrder: fo,
		Rank:       a.Rank,
		Priority:   domain.PriorityFor(a.Rank),
		AiScore:    a.Score,
		Reasoning:  a.Reasoning,
		Positive:   a.KeyPoints.Positive,
		Negative:   a.KeyPoints.Negative,
	}, nil
}

// fallbackRank is the deliberate fail-safe for one failed judgment
func fallbackRank(fo domain.FirstOrder) domain.Ranked {
	return domain.Ranked{
		FirstOrder: fo,
		Rank:       "B",
		Priority:   "B",
		AiScore:    zeroDefaultScore,
		Reasoning:  "judgment error, default applied",
	}
}

// rankUserPrompt renders the lead and its evidence for judgment
func rankUserPrompt(fo domain.FirstOrder, sc *catalogdom.ServiceContext) string {
	var b strings.Builder
	if sc != nil {
		b.WriteString("Service: " + sc.Name + "\n")
		if sc.Description != "" {
			b.WriteString("Description: " + sc.Description + "\n")
		}
		if sc.TargetProblems != "" {
			b.WriteString("Target problems: " + sc.TargetProblems + "\n")
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Municipality: %s %s\n", fo.Row.Region, fo.Row.Locality)
	b.WriteString("Title: " + fo.Row.Title + "\n")
	if fo.Row.Summary != "" {
		b.WriteString("Summary: " + fo.Row.Summary + "\n")
	}
	fmt.Fprintf(&b, "Triage score: %d\n", fo.ZeroScore)

	if len(fo.Snippets) == 0 {
		b.WriteString("Transcript evidence: none available\n")
		return b.String()
	}
	b.WriteString("Transcript evidence:\n")
	for _, sn := range fo.Snippets {
		b.WriteString("- " + sn.Text + "\n")
	}
	return b.String()
}
