package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// SubjunctiveDetector finds Konjunktiv II, both the synthetic forms
// ("hätte", "wäre") and the würde + infinitive periphrasis.
type SubjunctiveDetector struct {
	points
}

// NewSubjunctiveDetector returns a SubjunctiveDetector backed by the catalog.
func NewSubjunctiveDetector(c *taxonomy.Catalog) *SubjunctiveDetector {
	return &SubjunctiveDetector{points{c}}
}

func (d *SubjunctiveDetector) Name() string { return "subjunctive" }

func (d *SubjunctiveDetector) Category() taxonomy.Category { return taxonomy.CategoryMood }

func (d *SubjunctiveDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !t.IsVerbal() {
			continue
		}
		if wuerdeForms[t.LowerText()] {
			j := findInClause(s, i, Forward, annotation.Token.IsInfinitive, annotation.Token.IsFinite)
			if j < 0 {
				j = findInClause(s, i, Backward, annotation.Token.IsInfinitive, annotation.Token.IsFinite)
			}
			if j >= 0 {
				details := MoodDetails{Mood: "conditional", Verb: t.Text, Infinitive: s.Tokens[j].Text}
				if r, ok := d.result("wuerde-conditional", Span(s, i, j), 0.90, details); ok {
					out = append(out, r)
				}
				continue
			}
		}
		if !isSubjunctiveII(t) {
			continue
		}
		details := MoodDetails{Mood: "subjunctive2", Verb: t.Text}
		if r, ok := d.result("subjunctive-ii", TokenSpan(t), 0.85, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// isSubjunctiveII accepts Mood=Sub outside the present (which would be
// Konjunktiv I) and the common synthetic forms when Mood is missing.
func isSubjunctiveII(t annotation.Token) bool {
	if t.Feature(annotation.FeatMood) == "Sub" {
		return t.Feature(annotation.FeatTense) != "Pres"
	}
	if t.HasFeature(annotation.FeatMood) {
		return false
	}
	return subjunctiveIIForms[t.LowerText()]
}
