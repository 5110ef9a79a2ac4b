package detect

import (
	"strings"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// passiveType reads the construction's tense from the surface form of
// "werden". The annotator's Tense feature on the auxiliary is not trusted.
func passiveType(aux annotation.Token) string {
	form := aux.LowerText()
	switch {
	case werdenPast[form]:
		return "past"
	case werdenPresent[form]:
		return "present"
	case strings.HasPrefix(form, "würde"):
		return "subjunctive"
	}
	return annotation.Unknown
}

func isWerden(t annotation.Token) bool {
	return t.IsVerbal() && t.LowerLemma() == "werden"
}

func isSein(t annotation.Token) bool {
	return t.IsVerbal() && t.LowerLemma() == "sein"
}

// passiveParticiple reports whether token i directly follows a werden
// auxiliary as a full-verb participle.
func passiveParticiple(s annotation.Sentence, i int) bool {
	if i >= len(s.Tokens) {
		return false
	}
	t := s.Tokens[i]
	return t.Is(annotation.POSVerb) && t.IsParticiple()
}

// PassiveDetector finds the werden passive (Vorgangspassiv).
type PassiveDetector struct {
	points
}

// NewPassiveDetector returns a PassiveDetector backed by the catalog.
func NewPassiveDetector(c *taxonomy.Catalog) *PassiveDetector {
	return &PassiveDetector{points{c}}
}

func (d *PassiveDetector) Name() string { return "passive" }

func (d *PassiveDetector) Category() taxonomy.Category { return taxonomy.CategoryPassive }

func (d *PassiveDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !isWerden(t) || !passiveParticiple(s, i+1) {
			continue
		}
		part := s.Tokens[i+1]
		details := PassiveDetails{
			PassiveType: passiveType(t),
			Auxiliary:   t.Text,
			Participle:  part.Text,
		}
		if r, ok := d.result("passive-voice", Span(s, i, i+1), 0.90, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// AgentPassiveDetector finds werden passives that name the agent with
// "von" or "durch".
type AgentPassiveDetector struct {
	points
}

// NewAgentPassiveDetector returns an AgentPassiveDetector backed by the catalog.
func NewAgentPassiveDetector(c *taxonomy.Catalog) *AgentPassiveDetector {
	return &AgentPassiveDetector{points{c}}
}

func (d *AgentPassiveDetector) Name() string { return "passive-agent" }

func (d *AgentPassiveDetector) Category() taxonomy.Category { return taxonomy.CategoryPassive }

func (d *AgentPassiveDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !isWerden(t) {
			continue
		}
		var part, prep, agent int
		if passiveParticiple(s, i+1) {
			// Das Buch wird gelesen von vielen Leuten.
			part = i + 1
			prep, agent = findAgent(s, part+1, min(part+6, len(s.Tokens)-1))
		} else {
			// Das Buch wird von vielen Leuten gelesen.
			part = findInClause(s, i, Forward, func(t annotation.Token) bool {
				return t.Is(annotation.POSVerb) && t.IsParticiple()
			}, annotation.Token.IsFinite)
			if part < 0 {
				continue
			}
			prep, agent = findAgent(s, i+1, part-1)
		}
		if agent < 0 {
			continue
		}
		details := PassiveDetails{
			PassiveType:      passiveType(t),
			Auxiliary:        t.Text,
			Participle:       s.Tokens[part].Text,
			AgentPreposition: s.Tokens[prep].Text,
			Agent:            s.Tokens[agent].Text,
		}
		span := Span(s, i, max(part, agent))
		if r, ok := d.result("passive-with-agent", span, 0.92, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// findAgent looks for von/durch between from and to (inclusive), followed
// within 4 tokens by a noun. Determiners are skipped and punctuation ends
// the phrase.
func findAgent(s annotation.Sentence, from, to int) (prep, agent int) {
	for j := from; j <= to && j < len(s.Tokens); j++ {
		p := s.Tokens[j]
		if !p.Is(annotation.POSAdposition) {
			continue
		}
		switch p.LowerLemma() {
		case "von", "durch":
		default:
			if p.LowerText() != "vom" {
				continue
			}
		}
		for k := j + 1; k <= j+4 && k < len(s.Tokens); k++ {
			n := s.Tokens[k]
			if n.IsPunct() {
				break
			}
			if n.Is(annotation.POSNoun, annotation.POSProperNoun) {
				return j, k
			}
		}
	}
	return -1, -1
}

// StatalPassiveDetector finds sein + participle describing a resulting
// state (Zustandspassiv).
type StatalPassiveDetector struct {
	points
}

// NewStatalPassiveDetector returns a StatalPassiveDetector backed by the catalog.
func NewStatalPassiveDetector(c *taxonomy.Catalog) *StatalPassiveDetector {
	return &StatalPassiveDetector{points{c}}
}

func (d *StatalPassiveDetector) Name() string { return "statal-passive" }

func (d *StatalPassiveDetector) Category() taxonomy.Category { return taxonomy.CategoryPassive }

func (d *StatalPassiveDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !isSein(t) {
			continue
		}
		j := findInClause(s, i, Forward, isStatalParticiple, annotation.Token.IsFinite)
		if j < 0 || seinPerfectVerbs[s.Tokens[j].LowerLemma()] {
			continue
		}
		// "ist gelesen worden" is the perfect of the werden passive.
		if j+1 < len(s.Tokens) && s.Tokens[j+1].LowerText() == "worden" {
			continue
		}
		details := PassiveDetails{
			PassiveType: "statal",
			Auxiliary:   t.Text,
			Participle:  s.Tokens[j].Text,
		}
		if r, ok := d.result("statal-passive", Span(s, i, j), 0.80, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// Annotators often tag the participle of a statal passive as an adjective.
func isStatalParticiple(t annotation.Token) bool {
	if t.IsParticiple() {
		return true
	}
	return t.Is(annotation.POSAdjective) && t.Feature(annotation.FeatVerbForm) == "Part"
}
