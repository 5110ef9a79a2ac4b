package detect

import (
	"sort"
	"strings"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// functionalVerb is one Funktionsverbgefüge: a light verb whose meaning
// comes from the noun (and preposition) it combines with.
type functionalVerb struct {
	verb    string
	prep    string // empty for verb + bare noun
	noun    string
	meaning string
}

var functionalVerbs = []functionalVerb{
	{"stellen", "in", "frage", "bezweifeln"},
	{"stehen", "in", "frage", "unsicher sein"},
	{"kommen", "in", "frage", "möglich sein"},
	{"stellen", "zur", "verfügung", "bereitstellen"},
	{"stehen", "zur", "verfügung", "verfügbar sein"},
	{"kommen", "zur", "sprache", "besprochen werden"},
	{"bringen", "zur", "sprache", "ansprechen"},
	{"kommen", "zum", "ausdruck", "ausgedrückt werden"},
	{"bringen", "zum", "ausdruck", "ausdrücken"},
	{"treten", "in", "kraft", "gültig werden"},
	{"setzen", "in", "kraft", "gültig machen"},
	{"setzen", "außer", "kraft", "aufheben"},
	{"ziehen", "in", "betracht", "erwägen"},
	{"kommen", "in", "betracht", "möglich sein"},
	{"setzen", "unter", "druck", "bedrängen"},
	{"stehen", "unter", "druck", "bedrängt sein"},
	{"nehmen", "in", "anspruch", "beanspruchen"},
	{"bringen", "in", "ordnung", "ordnen"},
	{"bringen", "zum", "abschluss", "abschließen"},
	{"kommen", "zum", "abschluss", "abgeschlossen werden"},
	{"setzen", "in", "gang", "starten"},
	{"kommen", "in", "gang", "beginnen"},
	{"treffen", "", "entscheidung", "entscheiden"},
	{"nehmen", "", "stellung", "sich äußern"},
	{"nehmen", "", "rücksicht", "berücksichtigen"},
	{"nehmen", "", "abschied", "sich verabschieden"},
	{"nehmen", "", "platz", "sich setzen"},
	{"nehmen", "", "einfluss", "beeinflussen"},
	{"geben", "", "bescheid", "informieren"},
	{"leisten", "", "hilfe", "helfen"},
	{"üben", "", "kritik", "kritisieren"},
	{"finden", "", "anwendung", "angewendet werden"},
	{"stellen", "", "antrag", "beantragen"},
}

var functionalByVerb = func() map[string][]functionalVerb {
	m := make(map[string][]functionalVerb)
	for _, f := range functionalVerbs {
		m[f.verb] = append(m[f.verb], f)
	}
	return m
}()

// FunctionalVerbDetector finds functional verb constructions such as
// "in Frage stellen". Results carry the verb, preposition and noun as
// separate sub-spans.
type FunctionalVerbDetector struct {
	points
}

// NewFunctionalVerbDetector returns a FunctionalVerbDetector backed by the catalog.
func NewFunctionalVerbDetector(c *taxonomy.Catalog) *FunctionalVerbDetector {
	return &FunctionalVerbDetector{points{c}}
}

func (d *FunctionalVerbDetector) Name() string { return "functional-verb" }

func (d *FunctionalVerbDetector) Category() taxonomy.Category { return taxonomy.CategoryVerbForm }

func (d *FunctionalVerbDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !t.IsVerbal() {
			continue
		}
		for _, f := range functionalByVerb[t.LowerLemma()] {
			idx, ok := matchFunctional(s, i, f)
			if !ok {
				continue
			}
			details := FunctionalVerbDetails{
				Construction: strings.TrimSpace(f.prep + " " + s.Tokens[idx[len(idx)-1]].Lemma + " " + f.verb),
				Verb:         t.Text,
				Noun:         s.Tokens[idx[len(idx)-1]].Text,
				Meaning:      f.meaning,
			}
			if f.prep != "" {
				details.Preposition = s.Tokens[idx[1]].Text
			}
			spans := make([]Position, 0, len(idx))
			for _, j := range idx {
				spans = append(spans, TokenSpan(s.Tokens[j]))
			}
			sort.Slice(spans, func(a, b int) bool { return spans[a].Start < spans[b].Start })
			span := spans[0].Union(spans[len(spans)-1])
			if r, ok := d.result("functional-verb-construction", span, 0.88, details); ok {
				out = append(out, r.WithPositions(spans...))
			}
			break
		}
	}
	return out
}

// matchFunctional looks for the noun (and preposition) of f in the clause
// of verb i. It returns the token indices as verb, [preposition,] noun.
func matchFunctional(s annotation.Sentence, i int, f functionalVerb) ([]int, bool) {
	lo, hi := ClauseStart(s, i), ClauseEnd(s, i)
	for n := lo; n <= hi; n++ {
		if n == i || !s.Tokens[n].Is(annotation.POSNoun) || s.Tokens[n].LowerLemma() != f.noun {
			continue
		}
		if f.prep == "" {
			// "Stellung nehmen", not "die Stellung nehmen".
			if n > 0 && s.Tokens[n-1].Is(annotation.POSDeterminer) {
				continue
			}
			return []int{i, n}, true
		}
		p := -1
		for j := n - 1; j >= lo && j >= n-3; j-- {
			if s.Tokens[j].LowerText() == f.prep {
				p = j
				break
			}
		}
		if p < 0 {
			continue
		}
		if !contractedPrepositions[f.prep] && hasDeterminer(s, p+1, n) {
			continue
		}
		return []int{i, p, n}, true
	}
	return nil, false
}

func hasDeterminer(s annotation.Sentence, from, to int) bool {
	for j := from; j < to; j++ {
		if s.Tokens[j].Is(annotation.POSDeterminer) {
			return true
		}
	}
	return false
}
