// Package match implements keyword triage over candidate transcript text.
// Matching is substring presence over jptext-folded text, not tokenized; a
// keyword counts once per text no matter how often it repeats
package match

import (
	"strings"

	"leadscout/internal/core/jptext"
)

// Keywords is a per-service three-tier keyword set with a numeric bias.
// Must keywords are strong positive signals, should keywords weak positives,
// not keywords disqualifiers. MetaBias shifts the score by a fixed amount
type Keywords struct {
	Must     []string `json:"must"`
	Should   []string `json:"should"`
	Not      []string `json:"not"`
	MetaBias int      `json:"meta_bias"`
}

// Empty reports whether the set carries no keywords at all
func (k Keywords) Empty() bool {
	return len(k.Must) == 0 && len(k.Should) == 0 && len(k.Not) == 0
}

// Counts holds distinct-keyword presence per tier for one text
type Counts struct {
	Must   int
	Should int
	Not    int
}

// Score applies the triage formula must*4 + should*2 - not*10 + meta
func Score(c Counts, meta int) int {
	return c.Must*4 + c.Should*2 - c.Not*10 + meta
}

// Pass applies the triage threshold: either one must-tier hit at score >= 8,
// or three should-tier hits at score >= 7. The asymmetric pair is deliberate
// tuning; keep both branches exactly as they are
func Pass(c Counts, score int) bool {
	return (c.Must >= 1 && score >= 8) || (c.Should >= 3 && score >= 7)
}

// term pairs a keyword's raw spelling with its folded matching form
type term struct {
	raw    string
	folded string
}

// Matcher is a compiled keyword set. Keywords are folded once at
// construction; the zero value matches nothing. Safe for concurrent use
type Matcher struct {
	must     []term
	should   []term
	not      []term
	evidence []term // must ∪ should, deduped, configuration order
}

// New compiles kw. Blank keywords are dropped and duplicates within a tier
// collapse to one term
func New(kw Keywords) *Matcher {
	m := &Matcher{
		must:   compile(kw.Must),
		should: compile(kw.Should),
		not:    compile(kw.Not),
	}

	seen := make(map[string]struct{}, len(m.must)+len(m.should))
	for _, t := range m.must {
		seen[t.folded] = struct{}{}
		m.evidence = append(m.evidence, t)
	}
	for _, t := range m.should {
		if _, dup := seen[t.folded]; dup {
			continue
		}
		seen[t.folded] = struct{}{}
		m.evidence = append(m.evidence, t)
	}
	return m
}

func compile(raw []string) []term {
	out := make([]term, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		f := jptext.Fold(r)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, term{raw: strings.TrimSpace(r), folded: f})
	}
	return out
}

// Counts reports per-tier keyword presence in text
func (m *Matcher) Counts(text string) Counts {
	folded := jptext.Fold(text)
	return Counts{
		Must:   hits(folded, m.must),
		Should: hits(folded, m.should),
		Not:    hits(folded, m.not),
	}
}

// Evidence returns the distinct must/should keywords present in text, raw
// spelling, in configuration order
func (m *Matcher) Evidence(text string) []string {
	folded := jptext.Fold(text)
	var out []string
	for _, t := range m.evidence {
		if strings.Contains(folded, t.folded) {
			out = append(out, t.raw)
		}
	}
	return out
}

func hits(folded string, terms []term) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(folded, t.folded) {
			n++
		}
	}
	return n
}
