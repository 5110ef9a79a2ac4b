package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// SubordinateClauseDetector finds clauses introduced by a subordinating
// conjunction and classifies them by conjunction.
type SubordinateClauseDetector struct {
	points
}

// NewSubordinateClauseDetector returns a SubordinateClauseDetector backed by the catalog.
func NewSubordinateClauseDetector(c *taxonomy.Catalog) *SubordinateClauseDetector {
	return &SubordinateClauseDetector{points{c}}
}

func (d *SubordinateClauseDetector) Name() string { return "subordinate-clause" }

func (d *SubordinateClauseDetector) Category() taxonomy.Category {
	return taxonomy.CategoryConjunction
}

func (d *SubordinateClauseDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !isSubordinator(t) || i+1 >= len(s.Tokens) {
			continue
		}
		v := finalVerb(s, i+1, ClauseEnd(s, i))
		if v < 0 {
			continue
		}
		clauseType, ok := clauseTypes[t.LowerText()]
		if !ok {
			clauseType = "other"
		}
		details := ClauseDetails{
			Conjunction: t.Text,
			ClauseType:  clauseType,
			FinalVerb:   s.Tokens[v].Text,
		}
		if r, ok := d.result("subordinate-clause", Span(s, i, v), 0.85, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// isSubordinator accepts SCONJ tokens and known conjunctions the annotator
// tagged as something other than a preposition, coordinator, adverb or
// pronoun ("seit" the preposition, "da" the adverb).
func isSubordinator(t annotation.Token) bool {
	if t.Is(annotation.POSSConj) {
		return true
	}
	if _, ok := clauseTypes[t.LowerText()]; !ok {
		return false
	}
	return !t.Is(annotation.POSAdposition, annotation.POSCConj, annotation.POSAdverb, annotation.POSPronoun)
}

// finalVerb returns the clause-final finite verb between from and to,
// skipping verbs that belong to an embedded relative clause. Without a
// finite verb the last verbal token is used ("um ... zu gehen").
func finalVerb(s annotation.Sentence, from, to int) int {
	last := -1
	for j := to; j >= from; j-- {
		t := s.Tokens[j]
		if !t.IsVerbal() || relativeClauseDeps[t.Dep] {
			continue
		}
		if t.IsFinite() {
			return j
		}
		if last < 0 {
			last = j
		}
	}
	return last
}

// VerbSecondDetector checks main-clause verb-second order.
type VerbSecondDetector struct {
	points
}

// NewVerbSecondDetector returns a VerbSecondDetector backed by the catalog.
func NewVerbSecondDetector(c *taxonomy.Catalog) *VerbSecondDetector {
	return &VerbSecondDetector{points{c}}
}

func (d *VerbSecondDetector) Name() string { return "verb-second" }

func (d *VerbSecondDetector) Category() taxonomy.Category { return taxonomy.CategoryWordOrder }

func (d *VerbSecondDetector) Detect(s annotation.Sentence) []Result {
	f := -1
	for i, t := range s.Tokens {
		if t.IsFinite() {
			f = i
			break
		}
	}
	if f <= 0 {
		return nil
	}
	first := s.Tokens[0]
	if first.Is(annotation.POSSConj) {
		return nil
	}
	confidence := 0.80
	if f > 1 {
		// A longer prefield must start like a fronted constituent.
		if !first.Is(annotation.POSAdverb, annotation.POSPronoun, annotation.POSNoun, annotation.POSDeterminer, annotation.POSProperNoun) {
			return nil
		}
		confidence = 0.75
	}
	verb := s.Tokens[f]
	details := WordOrderDetails{
		Verb:       verb.Text,
		Position:   f,
		Fronted:    textOf(s, 0, f-1),
		FrontedPOS: first.POS,
	}
	r, ok := d.result("verb-second", TokenSpan(verb), confidence, details)
	if !ok {
		return nil
	}
	return []Result{r}
}
