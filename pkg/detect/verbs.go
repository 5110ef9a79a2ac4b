package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// SeparableVerbDetector joins a detached particle with its finite verb:
// "Ich rufe dich morgen an".
type SeparableVerbDetector struct {
	points
}

// NewSeparableVerbDetector returns a SeparableVerbDetector backed by the catalog.
func NewSeparableVerbDetector(c *taxonomy.Catalog) *SeparableVerbDetector {
	return &SeparableVerbDetector{points{c}}
}

func (d *SeparableVerbDetector) Name() string { return "separable-verb" }

func (d *SeparableVerbDetector) Category() taxonomy.Category { return taxonomy.CategorySeparableVerb }

func (d *SeparableVerbDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for j, p := range s.Tokens {
		if !isSeparablePrefix(p) {
			continue
		}
		i := findInClause(s, j, Backward, annotation.Token.IsFinite, nil)
		if i < 0 {
			continue
		}
		v := s.Tokens[i]
		details := SeparableDetails{
			Verb:       v.Text,
			Prefix:     p.Text,
			Infinitive: p.LowerText() + v.LowerLemma(),
		}
		r, ok := d.result("separable-verbs", Span(s, i, j), 0.90, details)
		if ok {
			out = append(out, r.WithPositions(TokenSpan(v), TokenSpan(p)))
		}
	}
	return out
}

// ReflexiveVerbDetector pairs a reflexive pronoun with the verb of its clause.
type ReflexiveVerbDetector struct {
	points
}

// NewReflexiveVerbDetector returns a ReflexiveVerbDetector backed by the catalog.
func NewReflexiveVerbDetector(c *taxonomy.Catalog) *ReflexiveVerbDetector {
	return &ReflexiveVerbDetector{points{c}}
}

func (d *ReflexiveVerbDetector) Name() string { return "reflexive-verb" }

func (d *ReflexiveVerbDetector) Category() taxonomy.Category { return taxonomy.CategoryReflexiveVerb }

func (d *ReflexiveVerbDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for j, p := range s.Tokens {
		if !p.Is(annotation.POSPronoun) {
			continue
		}
		if p.Feature(annotation.FeatReflex) != "Yes" && p.LowerText() != "sich" {
			continue
		}
		i := findInClause(s, j, Backward, annotation.Token.IsVerbal, nil)
		if i < 0 {
			i = findInClause(s, j, Forward, annotation.Token.IsVerbal, nil)
		}
		if i < 0 {
			continue
		}
		v := s.Tokens[i]
		details := ReflexiveDetails{Verb: v.Lemma, Pronoun: p.Text}
		first, second := TokenSpan(v), TokenSpan(p)
		if j < i {
			first, second = second, first
		}
		r, ok := d.result("reflexive-verbs", first.Union(second), 0.80, details)
		if ok {
			out = append(out, r.WithPositions(first, second))
		}
	}
	return out
}
