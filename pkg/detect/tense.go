package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// compoundTense describes a tense built from a finite auxiliary and a
// non-finite main verb somewhere in the same clause.
type compoundTense struct {
	id    string
	tense string
	// auxiliary reports whether the token is a matching finite auxiliary.
	auxiliary func(annotation.Token) bool
	// main reports whether the token completes the construction for aux.
	main func(aux, t annotation.Token) bool
}

func (c compoundTense) detect(p points, s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !c.auxiliary(t) {
			continue
		}
		match := func(m annotation.Token) bool { return c.main(t, m) }
		j := findInClause(s, i, Forward, match, annotation.Token.IsFinite)
		if j < 0 {
			// Verb-final order: "weil er gegangen ist".
			j = findInClause(s, i, Backward, match, annotation.Token.IsFinite)
		}
		if j < 0 {
			continue
		}
		m := s.Tokens[j]
		details := TenseDetails{Tense: c.tense, Verb: m.Lemma, Auxiliary: t.Text}
		if m.IsInfinitive() {
			details.Infinitive = m.Text
		} else {
			details.Participle = m.Text
		}
		if r, ok := p.result(c.id, Span(s, i, j), 0.90, details); ok {
			out = append(out, r)
		}
	}
	return out
}

func perfectAuxiliary(haben, sein map[string]bool) func(annotation.Token) bool {
	return func(t annotation.Token) bool {
		if !t.IsVerbal() || t.IsInfinitive() || t.IsParticiple() {
			return false
		}
		switch t.LowerLemma() {
		case "haben":
			return haben[t.LowerText()]
		case "sein":
			return sein[t.LowerText()]
		}
		return false
	}
}

// perfectParticiple accepts any participle after haben, but only verbs of
// motion or change of state after sein; the rest is a statal passive.
func perfectParticiple(aux, t annotation.Token) bool {
	if !t.IsParticiple() {
		return false
	}
	if aux.LowerLemma() == "sein" {
		return seinPerfectVerbs[t.LowerLemma()]
	}
	return true
}

var (
	perfect = compoundTense{
		id:        "perfect-tense",
		tense:     "perfect",
		auxiliary: perfectAuxiliary(habenPresent, seinPresent),
		main:      perfectParticiple,
	}
	pluperfect = compoundTense{
		id:        "pluperfect",
		tense:     "pluperfect",
		auxiliary: perfectAuxiliary(habenPast, seinPast),
		main:      perfectParticiple,
	}
	future = compoundTense{
		id:    "future-i",
		tense: "future",
		auxiliary: func(t annotation.Token) bool {
			return isWerden(t) && werdenPresent[t.LowerText()]
		},
		main: func(_, t annotation.Token) bool { return t.IsInfinitive() },
	}
)

// PerfectDetector finds the present perfect (haben/sein + participle).
type PerfectDetector struct{ points }

// NewPerfectDetector returns a PerfectDetector backed by the catalog.
func NewPerfectDetector(c *taxonomy.Catalog) *PerfectDetector {
	return &PerfectDetector{points{c}}
}

func (d *PerfectDetector) Name() string { return "perfect-tense" }

func (d *PerfectDetector) Category() taxonomy.Category { return taxonomy.CategoryTense }

func (d *PerfectDetector) Detect(s annotation.Sentence) []Result {
	return perfect.detect(d.points, s)
}

// PluperfectDetector finds the past perfect (hatte/war + participle).
type PluperfectDetector struct{ points }

// NewPluperfectDetector returns a PluperfectDetector backed by the catalog.
func NewPluperfectDetector(c *taxonomy.Catalog) *PluperfectDetector {
	return &PluperfectDetector{points{c}}
}

func (d *PluperfectDetector) Name() string { return "pluperfect" }

func (d *PluperfectDetector) Category() taxonomy.Category { return taxonomy.CategoryTense }

func (d *PluperfectDetector) Detect(s annotation.Sentence) []Result {
	return pluperfect.detect(d.points, s)
}

// FutureDetector finds Futur I (present werden + infinitive).
type FutureDetector struct{ points }

// NewFutureDetector returns a FutureDetector backed by the catalog.
func NewFutureDetector(c *taxonomy.Catalog) *FutureDetector {
	return &FutureDetector{points{c}}
}

func (d *FutureDetector) Name() string { return "future-tense" }

func (d *FutureDetector) Category() taxonomy.Category { return taxonomy.CategoryTense }

func (d *FutureDetector) Detect(s annotation.Sentence) []Result {
	return future.detect(d.points, s)
}

// simpleTense reports finite verbs carrying the given Tense feature. An
// auxiliary that heads a compound construction in its clause is left to the
// compound detectors.
func simpleTense(p points, s annotation.Sentence, id, tense, feature string) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !t.IsFinite() || t.Feature(annotation.FeatTense) != feature {
			continue
		}
		if t.Feature(annotation.FeatMood) == "Sub" {
			continue
		}
		if isTenseAuxiliary(t) && headsCompound(s, i) {
			continue
		}
		details := TenseDetails{Tense: tense, Verb: t.Text}
		if r, ok := p.result(id, TokenSpan(t), 0.85, details); ok {
			out = append(out, r)
		}
	}
	return out
}

func isTenseAuxiliary(t annotation.Token) bool {
	switch t.LowerLemma() {
	case "haben", "sein", "werden":
		return true
	}
	return false
}

func headsCompound(s annotation.Sentence, i int) bool {
	nonFinite := func(t annotation.Token) bool { return t.IsParticiple() || t.IsInfinitive() }
	return findInClause(s, i, Forward, nonFinite, nil) >= 0 ||
		findInClause(s, i, Backward, nonFinite, nil) >= 0
}

// PresentDetector finds finite verbs in the present tense.
type PresentDetector struct{ points }

// NewPresentDetector returns a PresentDetector backed by the catalog.
func NewPresentDetector(c *taxonomy.Catalog) *PresentDetector {
	return &PresentDetector{points{c}}
}

func (d *PresentDetector) Name() string { return "present-tense" }

func (d *PresentDetector) Category() taxonomy.Category { return taxonomy.CategoryTense }

func (d *PresentDetector) Detect(s annotation.Sentence) []Result {
	return simpleTense(d.points, s, "present-tense", "present", "Pres")
}

// SimplePastDetector finds finite verbs in the Präteritum.
type SimplePastDetector struct{ points }

// NewSimplePastDetector returns a SimplePastDetector backed by the catalog.
func NewSimplePastDetector(c *taxonomy.Catalog) *SimplePastDetector {
	return &SimplePastDetector{points{c}}
}

func (d *SimplePastDetector) Name() string { return "simple-past" }

func (d *SimplePastDetector) Category() taxonomy.Category { return taxonomy.CategoryTense }

func (d *SimplePastDetector) Detect(s annotation.Sentence) []Result {
	return simpleTense(d.points, s, "simple-past", "past", "Past")
}
