package detect

import (
	"strings"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

var casePoints = map[string]struct {
	id         string
	confidence float64
}{
	"Nom": {"nominative-case", 0.95},
	"Acc": {"accusative-case", 0.95},
	"Dat": {"dative-case", 0.95},
	"Gen": {"genitive-case", 0.90},
}

// CaseDetector reports the grammatical case of nominal tokens.
type CaseDetector struct {
	points
}

// NewCaseDetector returns a CaseDetector backed by the catalog.
func NewCaseDetector(c *taxonomy.Catalog) *CaseDetector {
	return &CaseDetector{points{c}}
}

func (d *CaseDetector) Name() string { return "case" }

func (d *CaseDetector) Category() taxonomy.Category { return taxonomy.CategoryCase }

func (d *CaseDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !caseEligible(s, i) {
			continue
		}
		c := t.Feature(annotation.FeatCase)
		p, ok := casePoints[c]
		if !ok {
			continue
		}
		details := CaseDetails{
			Case:  c,
			Token: t.Text,
			Lemma: t.Lemma,
			POS:   t.POS,
		}
		if c == "Dat" {
			details.DativeContext, details.Trigger, details.ContextConfidence = classifyDative(s, i)
		}
		if r, ok := d.result(p.id, TokenSpan(t), p.confidence, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// caseEligible applies the named-entity guard: a proper noun is only
// considered when no neighbouring token is a proper noun as well.
func caseEligible(s annotation.Sentence, i int) bool {
	t := s.Tokens[i]
	if t.Is(annotation.POSNoun, annotation.POSDeterminer, annotation.POSAdjective, annotation.POSPronoun) {
		return true
	}
	if !t.Is(annotation.POSProperNoun) {
		return false
	}
	if i > 0 && s.Tokens[i-1].Is(annotation.POSProperNoun) {
		return false
	}
	if i+1 < len(s.Tokens) && s.Tokens[i+1].Is(annotation.POSProperNoun) {
		return false
	}
	return true
}

// classifyDative labels why token i is in the dative. Without any evidence
// the label defaults to indirect-object.
func classifyDative(s annotation.Sentence, i int) (context, trigger string, confidence float64) {
	t := s.Tokens[i]
	if isTemporal(t) {
		return DativeTemporal, t.Text, 0.9
	}
	for j := i - 1; j >= 0 && j >= i-3; j-- {
		if isTemporal(s.Tokens[j]) && s.Tokens[j].Is(annotation.POSNumeral, annotation.POSAdjective) {
			return DativeTemporal, s.Tokens[j].Text, 0.85
		}
	}
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if p := s.Tokens[j]; p.Is(annotation.POSAdposition) && dativePrepositions[p.LowerText()] {
			return DativePrepositional, p.Text, 0.9
		}
	}
	if j := NearestPOS(s, i, Backward, 3, annotation.POSVerb, annotation.POSAux); j >= 0 {
		v := s.Tokens[j]
		if dativeVerbs[v.LowerLemma()] {
			return DativeIndirectObject, v.Text, 0.9
		}
		return DativeIndirectObject, v.Text, 0.7
	}
	return DativeIndirectObject, "", 0.5
}

// isTemporal reports whether the token is a date or time expression.
func isTemporal(t annotation.Token) bool {
	if t.Is(annotation.POSNumeral) || t.Feature(annotation.FeatNumType) == "Ord" {
		return true
	}
	if strings.HasSuffix(t.Text, ".") && len(t.Text) > 1 && isDigits(strings.TrimSuffix(t.Text, ".")) {
		return true
	}
	return t.Is(annotation.POSNoun, annotation.POSProperNoun) && temporalNouns[t.LowerLemma()]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
