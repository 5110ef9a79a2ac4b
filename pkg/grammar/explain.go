package grammar

import (
	"fmt"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

var caseNames = map[string]string{
	"Nom": "nominative",
	"Acc": "accusative",
	"Dat": "dative",
	"Gen": "genitive",
}

var tenseExplanations = map[string]string{
	"present":    "The present tense describes what happens now, regularly, or in the near future.",
	"past":       "The simple past (Präteritum) narrates past events, mostly in writing.",
	"perfect":    "The present perfect combines haben or sein with a past participle and is the usual spoken past.",
	"pluperfect": "The past perfect (hatte/war + participle) describes what had happened before another past event.",
	"future":     "Futur I (werden + infinitive) expresses future plans, predictions or assumptions.",
}

var moodExplanations = map[string]string{
	"subjunctive2": "Konjunktiv II expresses wishes, unreal conditions and polite requests.",
	"conditional":  "würde + infinitive is the everyday form of Konjunktiv II for hypothetical actions.",
}

var passiveExplanations = map[string]string{
	"present":     "Present passive (wird + participle): the focus is on what is being done, not on who does it.",
	"past":        "Past passive (wurde + participle): the focus is on what was done, not on who did it.",
	"subjunctive": "Subjunctive passive (würde + participle) describes a hypothetical action done to the subject.",
	"statal":      "Statal passive (sein + participle) describes the state resulting from an action.",
}

const (
	unknownTense   = "This verb form expresses a tense."
	unknownMood    = "This verb form expresses a mood other than the indicative."
	unknownPassive = "This is a passive construction: the subject receives the action."
)

// explain regenerates the explanation of every result from its details.
// Results from untyped sources keep their own explanation.
func explain(s annotation.Sentence, rs []detect.Result) []detect.Result {
	out := make([]detect.Result, len(rs))
	for i, r := range rs {
		out[i] = explainOne(s, r)
	}
	return out
}

func explainOne(s annotation.Sentence, r detect.Result) detect.Result {
	if _, generic := r.Details.(detect.GenericDetails); generic || r.Details == nil {
		return r
	}
	switch r.Category() {
	case taxonomy.CategoryCase:
		return explainCase(s, r)
	case taxonomy.CategoryTense:
		d, _ := r.Details.(detect.TenseDetails)
		return r.WithExplanation(lookup(tenseExplanations, d.Tense, unknownTense))
	case taxonomy.CategoryMood:
		d, _ := r.Details.(detect.MoodDetails)
		return r.WithExplanation(lookup(moodExplanations, d.Mood, unknownMood))
	case taxonomy.CategoryVoice, taxonomy.CategoryPassive:
		d, _ := r.Details.(detect.PassiveDetails)
		text := lookup(passiveExplanations, d.PassiveType, unknownPassive)
		if d.Agent != "" {
			text += fmt.Sprintf(" The agent is introduced by %q: %s.", d.AgentPreposition, d.Agent)
		}
		return r.WithExplanation(text)
	}
	return r
}

func lookup(table map[string]string, key, unknown string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return unknown
}

// explainCase phrases the explanation around the nearest preposition or
// verb up to three tokens before the word. A dative with a catalog variant
// for its context uses that variant instead.
func explainCase(s annotation.Sentence, r detect.Result) detect.Result {
	d, ok := r.Details.(detect.CaseDetails)
	if !ok {
		return r
	}
	if r.GrammarPointID == "dative-case" && d.DativeContext != "" {
		if v, ok := r.GrammarPoint.ContextVariants[d.DativeContext]; ok && v != "" {
			return r.WithExplanation(v)
		}
	}
	name, ok := caseNames[d.Case]
	if !ok {
		return r
	}
	if d.Case == "Nom" {
		return r.WithExplanation(fmt.Sprintf("%q is in the nominative case: it names the subject.", d.Token))
	}
	i := s.TokenAt(r.Position.Start)
	if i < 0 {
		return r.WithExplanation(fmt.Sprintf("%q is in the %s case.", d.Token, name))
	}
	j := detect.NearestPOS(s, i, detect.Backward, 3, annotation.POSAdposition, annotation.POSVerb, annotation.POSAux)
	switch {
	case j < 0:
		return r.WithExplanation(fmt.Sprintf("%q is in the %s case.", d.Token, name))
	case s.Tokens[j].Is(annotation.POSAdposition):
		return r.WithExplanation(fmt.Sprintf("%q is in the %s case because the preposition %q requires it.", d.Token, name, s.Tokens[j].Text))
	default:
		return r.WithExplanation(fmt.Sprintf("%q is in the %s case as an object of the verb %q.", d.Token, name, s.Tokens[j].Text))
	}
}
