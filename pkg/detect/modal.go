package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// ModalDetector finds modal verbs and the infinitive they govern.
type ModalDetector struct {
	points
}

// NewModalDetector returns a ModalDetector backed by the catalog.
func NewModalDetector(c *taxonomy.Catalog) *ModalDetector {
	return &ModalDetector{points{c}}
}

func (d *ModalDetector) Name() string { return "modal-verb" }

func (d *ModalDetector) Category() taxonomy.Category { return taxonomy.CategoryModalVerb }

func (d *ModalDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !isModal(t) {
			continue
		}
		details := ModalDetails{ModalVerb: t.Text, Lemma: t.Lemma}
		j := modalInfinitive(s, i, Forward)
		details.Direction = "forward"
		if j < 0 {
			// Verb-final order: "weil ich arbeiten muss".
			j = modalInfinitive(s, i, Backward)
			details.Direction = "backward"
		}
		if j >= 0 {
			details.Infinitive = withPrefix(s, j)
			if r, ok := d.result("modal-verbs", Span(s, i, j), 0.90, details); ok {
				out = append(out, r)
			}
			continue
		}
		// "Kannst du?" A bare modal only counts in a question.
		if !s.HasQuestionMark() {
			continue
		}
		details.Direction = ""
		details.Standalone = true
		if r, ok := d.result("modal-verbs", TokenSpan(t), 0.75, details); ok {
			out = append(out, r)
		}
	}
	return out
}

func isModal(t annotation.Token) bool {
	if !t.IsVerbal() {
		return false
	}
	return modalLemmas[t.LowerLemma()] || modalForms[t.LowerText()]
}

// modalInfinitive searches from the modal at i for the governed infinitive.
// Forward, the search ends at the next finite verb or sentence-internal
// terminator; backward, at the clause start.
func modalInfinitive(s annotation.Sentence, i int, dir Direction) int {
	if dir == Backward {
		return findInClause(s, i, Backward, isModalInfinitive, annotation.Token.IsFinite)
	}
	for j := i + 1; j < len(s.Tokens); j++ {
		t := s.Tokens[j]
		if isModalInfinitive(t) {
			return j
		}
		if t.IsFinite() || isTerminator(t) {
			return -1
		}
	}
	return -1
}

func isModalInfinitive(t annotation.Token) bool {
	return t.Is(annotation.POSVerb, annotation.POSAux) && t.IsInfinitive()
}

func isTerminator(t annotation.Token) bool {
	if !t.IsPunct() {
		return false
	}
	switch t.Text {
	case ".", "?", "!", ";", ":":
		return true
	}
	return false
}

// withPrefix reattaches a detached particle written directly before the
// infinitive ("an rufen" becomes "anrufen").
func withPrefix(s annotation.Sentence, j int) string {
	inf := s.Tokens[j].Text
	if j > 0 && isSeparablePrefix(s.Tokens[j-1]) {
		return s.Tokens[j-1].LowerText() + inf
	}
	return inf
}
