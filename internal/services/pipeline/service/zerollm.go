package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"leadscout/internal/adapters/llm"
	catalogdom "leadscout/internal/services/catalog/domain"
	minutesdom "leadscout/internal/services/minutes/domain"
	"leadscout/internal/services/pipeline/domain"
)

// zeroAnswer is one per-row verdict inside a batch response
type zeroAnswer struct {
	ID     int   `json:"id"`
	Q1     *bool `json:"q1"`
	Q2     *bool `json:"q2"`
	Q3     *bool `json:"q3"`
	Score  int   `json:"score"`
	Passed *bool `json:"passed"`
}

const (
	// zeroDefaultScore is stamped whenever a judgment is missing or the
	// request failed; candidates are never dropped over a judging gap
	zeroDefaultScore = 5

	zeroSystemPrompt = `You triage council-minute excerpts as sales leads for a commercial service.
For each numbered row answer three yes/no questions:
q1: is the excerpt in the service's problem domain?
q2: does it touch the service's keywords or target problems?
q3: does it carry any actionable signal, even tentative (budget talk, a study, a pilot, an RFI)?
Respond with a bare JSON array, one object per row:
[{"id": <row number>, "q1": bool, "q2": bool, "q3": bool, "score": 0-10, "passed": bool}]
Lean toward inclusion: when unsure, answer yes.`
)

// zeroOrderJudge is the judgment-backed triage variant. Rows go to the
// judgment service in batches; a malformed or missing per-row answer and a
// failed batch request both default to pass with a mid score, so this stage
// can only ever keep more than the keyword variant would. The returned error
// is only ever the context's; every other failure degrades in place
func (s *Service) zeroOrderJudge(
	ctx context.Context,
	rows []minutesdom.Row,
	sc catalogdom.ServiceContext,
	limit int,
	errs *[]string,
) ([]domain.ZeroOrder, error) {
	out := make([]domain.ZeroOrder, 0, len(rows))

	for at := 0; at < len(rows); at += s.cfg.ZeroBatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := at + s.cfg.ZeroBatch
		if hi > len(rows) {
			hi = len(rows)
		}
		batch := rows[at:hi]

		answers, err := s.judgeBatch(ctx, batch, sc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			*errs = append(*errs, "zero-order judge batch: "+err.Error())
			s.log.Warn().Err(err).Int("batch_start", at).Msg("zero-order batch failed defaulting to pass")
			answers = nil
		}

		for i, r := range batch {
			zo := domain.ZeroOrder{Row: r, Score: zeroDefaultScore, Passed: true}
			// an answer carrying none of the three verdicts is a parsing
			// gap, not an explicit no; it keeps the default pass
			if a, ok := answers[i]; ok && answered(a) {
				yes := 0
				any := false
				for _, q := range []*bool{a.Q1, a.Q2, a.Q3} {
					if q != nil && *q {
						yes++
						any = true
					}
				}
				zo.Score = yes*3 + 1
				zo.Passed = any
			}
			if zo.Passed {
				out = append(out, zo)
			}
		}
	}

	return sortAndCap(out, limit), nil
}

// answered reports whether at least one verdict field was present
func answered(a zeroAnswer) bool { return a.Q1 != nil || a.Q2 != nil || a.Q3 != nil }

// judgeBatch sends one batch and indexes the parsed answers by row position.
// Unparseable content is an error for the whole batch; a parseable array
// with gaps just leaves those positions missing
func (s *Service) judgeBatch(
	ctx context.Context,
	batch []minutesdom.Row,
	sc catalogdom.ServiceContext,
) (map[int]zeroAnswer, error) {
	content, err := s.judge.Judge(ctx, zeroSystemPrompt, zeroUserPrompt(batch, sc))
	if err != nil {
		return nil, err
	}

	var raw []zeroAnswer
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &raw); err != nil {
		return nil, fmt.Errorf("malformed batch response: %w", err)
	}

	answers := make(map[int]zeroAnswer, len(raw))
	for _, a := range raw {
		if a.ID < 0 || a.ID >= len(batch) {
			continue
		}
		answers[a.ID] = a
	}
	return answers, nil
}

// zeroUserPrompt renders the service block and the numbered rows
func zeroUserPrompt(batch []minutesdom.Row, sc catalogdom.ServiceContext) string {
	var b strings.Builder
	b.WriteString("Service: " + sc.Name + "\n")
	if sc.Description != "" {
		b.WriteString("Description: " + sc.Description + "\n")
	}
	if sc.TargetProblems != "" {
		b.WriteString("Target problems: " + sc.TargetProblems + "\n")
	}
	if sc.TargetKeywords != "" {
		b.WriteString("Keywords: " + sc.TargetKeywords + "\n")
	}
	b.WriteString("\nRows:\n")
	for i, r := range batch {
		fmt.Fprintf(&b, "%d. [%s %s] %s", i, r.Region, r.Locality, r.Title)
		if r.Summary != "" {
			b.WriteString(" / " + r.Summary)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
