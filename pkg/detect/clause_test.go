package detect

import (
	"testing"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubordinateClause(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Ich", "ich", pron, "").
		Word("bleibe", "bleiben", verb, "VerbForm=Fin").
		Word("zu", "zu", adp, "").
		Word("Hause", "Haus", noun, "").
		Punct(",").
		Word("weil", "weil", sconj, "").
		Word("es", "es", pron, "").
		Word("stark", "stark", adv, "").
		Word("regnet", "regnen", verb, "VerbForm=Fin").
		Punct(".").
		Sentence()

	rs := NewSubordinateClauseDetector(catalog()).Detect(s)
	require.Len(t, rs, 1)
	assert.Equal(t, "weil es stark regnet", text(s, rs[0]))
	d := rs[0].Details.(ClauseDetails)
	assert.Equal(t, "causal", d.ClauseType)
	assert.Equal(t, "regnet", d.FinalVerb)
}

func TestSubordinateClauseTypes(t *testing.T) {
	for conj, want := range map[string]string{
		"wenn":    "conditional",
		"obwohl":  "concessive",
		"nachdem": "temporal",
		"dass":    "completive",
		"ob":      "interrogative",
		"damit":   "purpose",
		"indem":   "other",
	} {
		t.Run(conj, func(t *testing.T) {
			s := annotation.NewBuilder().
				Word(conj, conj, sconj, "").
				Word("er", "er", pron, "").
				Word("kommt", "kommen", verb, "VerbForm=Fin").
				Sentence()
			rs := NewSubordinateClauseDetector(catalog()).Detect(s)
			require.Len(t, rs, 1)
			assert.Equal(t, want, rs[0].Details.(ClauseDetails).ClauseType)
		})
	}
}

func TestSubordinateClauseFinalVerb(t *testing.T) {
	s := annotation.NewBuilder().
		Word("dass", "dass", sconj, "").
		Word("er", "er", pron, "").
		Word("lachen", "lachen", verb, "VerbForm=Inf").
		Word("kann", "können", aux, "VerbForm=Fin").
		Sentence()
	rs := NewSubordinateClauseDetector(catalog()).Detect(s)
	require.Len(t, rs, 1)
	assert.Equal(t, "kann", rs[0].Details.(ClauseDetails).FinalVerb)

	relative := annotation.NewBuilder().
		Word("dass", "dass", sconj, "").
		Word("der", "der", det, "").
		Word("Mann", "Mann", noun, "").
		Word("kommt", "kommen", verb, "VerbForm=Fin").
		Add(annotation.Token{Text: "lacht", Lemma: "lachen", POS: verb, Dep: "acl:relcl", Morph: annotation.Morph{"VerbForm": "Fin"}}).
		Sentence()
	rs = NewSubordinateClauseDetector(catalog()).Detect(relative)
	require.Len(t, rs, 1)
	assert.Equal(t, "kommt", rs[0].Details.(ClauseDetails).FinalVerb)
}

func TestSubordinatorAmbiguousWords(t *testing.T) {
	adverb := annotation.NewBuilder().
		Word("Da", "da", adv, "").
		Word("ist", "sein", aux, "VerbForm=Fin").
		Word("er", "er", pron, "").
		Sentence()
	assert.Empty(t, NewSubordinateClauseDetector(catalog()).Detect(adverb))

	// Some annotators tag "während" as a preposition in its clause use.
	preposition := annotation.NewBuilder().
		Word("während", "während", adp, "").
		Word("des", "der", det, "").
		Word("Essens", "Essen", noun, "").
		Word("schweigt", "schweigen", verb, "VerbForm=Fin").
		Sentence()
	assert.Empty(t, NewSubordinateClauseDetector(catalog()).Detect(preposition))
}

func TestVerbSecond(t *testing.T) {
	tests := []struct {
		name       string
		sentence   annotation.Sentence
		verb       string
		fronted    string
		confidence float64
	}{
		{
			name: "adverb first",
			sentence: annotation.NewBuilder().
				Word("Heute", "heute", adv, "").
				Word("gehe", "gehen", verb, "VerbForm=Fin").
				Word("ich", "ich", pron, "").
				Sentence(),
			verb:       "gehe",
			fronted:    "Heute",
			confidence: 0.80,
		},
		{
			name: "noun phrase first",
			sentence: annotation.NewBuilder().
				Word("Der", "der", det, "").
				Word("alte", "alt", adj, "").
				Word("Mann", "Mann", noun, "").
				Word("schläft", "schlafen", verb, "VerbForm=Fin").
				Sentence(),
			verb:       "schläft",
			fronted:    "Der alte Mann",
			confidence: 0.75,
		},
		{
			name: "umlaut in prefield",
			sentence: annotation.NewBuilder().
				Word("Früher", "früher", adv, "").
				Word("spricht", "sprechen", verb, "VerbForm=Fin").
				Word("er", "er", pron, "").
				Punct(".").
				Sentence(),
			verb:       "spricht",
			fronted:    "Früher",
			confidence: 0.80,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewVerbSecondDetector(catalog()).Detect(tt.sentence)
			require.Len(t, rs, 1)
			assert.Equal(t, tt.verb, text(tt.sentence, rs[0]))
			assert.Equal(t, tt.fronted, rs[0].Details.(WordOrderDetails).Fronted)
			assert.Equal(t, tt.confidence, rs[0].Confidence)
		})
	}
}

func TestVerbSecondRejects(t *testing.T) {
	tests := map[string]annotation.Sentence{
		"verb first": annotation.NewBuilder().
			Word("Kommst", "kommen", verb, "VerbForm=Fin").
			Word("du", "du", pron, "").
			Sentence(),
		"subordinate clause": annotation.NewBuilder().
			Word("weil", "weil", sconj, "").
			Word("er", "er", pron, "").
			Word("kommt", "kommen", verb, "VerbForm=Fin").
			Sentence(),
		"prepositional phrase first": annotation.NewBuilder().
			Word("In", "in", adp, "").
			Word("Berlin", "Berlin", propn, "").
			Word("wohne", "wohnen", verb, "VerbForm=Fin").
			Word("ich", "ich", pron, "").
			Sentence(),
		"no finite verb": annotation.NewBuilder().
			Word("Guten", "gut", adj, "").
			Word("Morgen", "Morgen", noun, "").
			Sentence(),
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, NewVerbSecondDetector(catalog()).Detect(s))
		})
	}
}
