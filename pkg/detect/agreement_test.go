package detect

import (
	"testing"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nounPhrase(article, adjective, noun string) annotation.Sentence {
	return annotation.NewBuilder().
		Word("x", "x", det, article).
		Word("y", "y", adj, adjective).
		Word("z", "z", annotation.POSNoun, noun).
		Sentence()
}

func TestAgreement(t *testing.T) {
	tests := []struct {
		name       string
		sentence   annotation.Sentence
		correct    bool
		confidence float64
	}{
		{
			name: "singular",
			sentence: nounPhrase(
				"Case=Nom|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Masc|Number=Sing"),
			correct:    true,
			confidence: 0.85,
		},
		{
			name: "plural needs no gender",
			sentence: nounPhrase(
				"Case=Nom|Number=Plur",
				"Case=Nom|Gender=Masc|Number=Plur",
				"Case=Nom|Gender=Neut|Number=Plur"),
			correct:    true,
			confidence: 0.85,
		},
		{
			name: "gender mismatch",
			sentence: nounPhrase(
				"Case=Nom|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Fem|Number=Sing"),
			correct:    false,
			confidence: 0.60,
		},
		{
			name: "case mismatch",
			sentence: nounPhrase(
				"Case=Dat|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Masc|Number=Sing",
				"Case=Nom|Gender=Masc|Number=Sing"),
			correct:    false,
			confidence: 0.60,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewAgreementDetector(catalog()).Detect(tt.sentence)
			require.Len(t, rs, 1)
			assert.Equal(t, tt.correct, rs[0].Details.(AgreementDetails).Correct)
			assert.Equal(t, tt.confidence, rs[0].Confidence)
			assert.Equal(t, Position{Start: 0, End: 5}, rs[0].Position)
		})
	}
}

func TestAgreementNeedsFeaturesOnEveryToken(t *testing.T) {
	s := nounPhrase("Case=Nom|Number=Sing", "", "Case=Nom|Number=Sing")
	assert.Empty(t, NewAgreementDetector(catalog()).Detect(s))
}

func TestAgreementNeedsArticleAdjectiveNoun(t *testing.T) {
	s := annotation.NewBuilder().
		Word("der", "der", det, "Case=Nom").
		Word("Mann", "Mann", noun, "Case=Nom").
		Word("schläft", "schlafen", verb, "").
		Sentence()
	assert.Empty(t, NewAgreementDetector(catalog()).Detect(s))
}
