package detect

import (
	"testing"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookIsRead(auxiliary string) annotation.Sentence {
	return annotation.NewBuilder().
		Word("Das", "der", det, "").
		Word("Buch", "Buch", noun, "").
		Word(auxiliary, "werden", aux, "").
		Word("gelesen", "lesen", verb, "VerbForm=Part").
		Punct(".").
		Sentence()
}

func TestPassiveTypeFromSurfaceForm(t *testing.T) {
	tests := []struct {
		auxiliary string
		want      string
	}{
		{"wird", "present"},
		{"werden", "present"},
		{"wurde", "past"},
		{"wurden", "past"},
		{"würde", "subjunctive"},
		{"worden", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.auxiliary, func(t *testing.T) {
			s := bookIsRead(tt.auxiliary)
			rs := NewPassiveDetector(catalog()).Detect(s)
			require.Len(t, rs, 1)
			r := rs[0]
			assert.Equal(t, "passive-voice", r.GrammarPointID)
			assert.Equal(t, tt.auxiliary+" gelesen", text(s, r))
			d := r.Details.(PassiveDetails)
			assert.Equal(t, tt.want, d.PassiveType)
			assert.Equal(t, tt.auxiliary, d.Auxiliary)
			assert.Equal(t, "gelesen", d.Participle)
		})
	}
}

func TestPassiveIgnoresAuxiliaryWerdenMorphology(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Das", "der", det, "").
		Word("Haus", "Haus", noun, "").
		Word("wurde", "werden", aux, "Tense=Pres").
		Word("gebaut", "bauen", verb, "Tense=Perf").
		Sentence()

	rs := NewPassiveDetector(catalog()).Detect(s)
	require.Len(t, rs, 1)
	assert.Equal(t, "past", rs[0].Details.(PassiveDetails).PassiveType)
}

func TestPassiveRequiresAdjacentParticiple(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Er", "er", pron, "").
		Word("wird", "werden", aux, "").
		Word("Arzt", "Arzt", noun, "").
		Sentence()
	assert.Empty(t, NewPassiveDetector(catalog()).Detect(s))
}

func TestAgentPassive(t *testing.T) {
	t.Run("agent before participle", func(t *testing.T) {
		s := annotation.NewBuilder().
			Word("Das", "der", det, "").
			Word("Buch", "Buch", noun, "").
			Word("wird", "werden", aux, "").
			Word("von", "von", adp, "").
			Word("dem", "der", det, "").
			Word("Lehrer", "Lehrer", noun, "").
			Word("gelesen", "lesen", verb, "VerbForm=Part").
			Punct(".").
			Sentence()

		rs := NewAgentPassiveDetector(catalog()).Detect(s)
		require.Len(t, rs, 1)
		assert.Equal(t, "passive-with-agent", rs[0].GrammarPointID)
		assert.Equal(t, "wird von dem Lehrer gelesen", text(s, rs[0]))
		d := rs[0].Details.(PassiveDetails)
		assert.Equal(t, "von", d.AgentPreposition)
		assert.Equal(t, "Lehrer", d.Agent)
		assert.Equal(t, 0.92, rs[0].Confidence)

		assert.Empty(t, NewPassiveDetector(catalog()).Detect(s))
	})

	t.Run("agent after participle", func(t *testing.T) {
		s := annotation.NewBuilder().
			Word("Die", "der", det, "").
			Word("Stadt", "Stadt", noun, "").
			Word("wurde", "werden", aux, "").
			Word("zerstört", "zerstören", verb, "VerbForm=Part").
			Word("durch", "durch", adp, "").
			Word("ein", "ein", det, "").
			Word("Erdbeben", "Erdbeben", noun, "").
			Punct(".").
			Sentence()

		rs := NewAgentPassiveDetector(catalog()).Detect(s)
		require.Len(t, rs, 1)
		d := rs[0].Details.(PassiveDetails)
		assert.Equal(t, "past", d.PassiveType)
		assert.Equal(t, "durch", d.AgentPreposition)
		assert.Equal(t, "Erdbeben", d.Agent)
		assert.Equal(t, "wurde zerstört durch ein Erdbeben", text(s, rs[0]))
	})

	t.Run("no agent", func(t *testing.T) {
		assert.Empty(t, NewAgentPassiveDetector(catalog()).Detect(bookIsRead("wird")))
	})

	t.Run("punctuation ends the agent phrase", func(t *testing.T) {
		s := annotation.NewBuilder().
			Word("Es", "es", pron, "").
			Word("wurde", "werden", aux, "").
			Word("gebaut", "bauen", verb, "VerbForm=Part").
			Word("von", "von", adp, "").
			Punct(",").
			Word("Arbeitern", "Arbeiter", noun, "").
			Sentence()
		assert.Empty(t, NewAgentPassiveDetector(catalog()).Detect(s))
	})
}

func TestStatalPassive(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Die", "der", det, "").
		Word("Tür", "Tür", noun, "").
		Word("ist", "sein", aux, "").
		Word("geöffnet", "öffnen", verb, "VerbForm=Part").
		Punct(".").
		Sentence()

	rs := NewStatalPassiveDetector(catalog()).Detect(s)
	require.Len(t, rs, 1)
	assert.Equal(t, "statal-passive", rs[0].GrammarPointID)
	assert.Equal(t, "statal", rs[0].Details.(PassiveDetails).PassiveType)
	assert.Equal(t, "ist geöffnet", text(s, rs[0]))
}

func TestStatalPassiveSkipsPerfectAndPassivePerfect(t *testing.T) {
	gone := annotation.NewBuilder().
		Word("Er", "er", pron, "").
		Word("ist", "sein", aux, "").
		Word("gegangen", "gehen", verb, "VerbForm=Part").
		Sentence()
	assert.Empty(t, NewStatalPassiveDetector(catalog()).Detect(gone))

	passivePerfect := annotation.NewBuilder().
		Word("Es", "es", pron, "").
		Word("ist", "sein", aux, "").
		Word("gebaut", "bauen", verb, "VerbForm=Part").
		Word("worden", "werden", aux, "VerbForm=Part").
		Sentence()
	assert.Empty(t, NewStatalPassiveDetector(catalog()).Detect(passivePerfect))
}
