package grammar

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubDetector struct {
	name    string
	results []detect.Result
}

func (d stubDetector) Name() string                               { return d.name }
func (d stubDetector) Category() taxonomy.Category                { return taxonomy.CategoryTense }
func (d stubDetector) Detect(annotation.Sentence) []detect.Result { return d.results }

type stubFallback struct {
	calls   atomic.Int32
	results []detect.Result
}

func (f *stubFallback) Detect(context.Context, annotation.Sentence) []detect.Result {
	f.calls.Add(1)
	return f.results
}

func passiveSentence(auxiliary string) annotation.Sentence {
	return annotation.NewBuilder().
		Word("Das", "der", annotation.POSDeterminer, "").
		Word("Buch", "Buch", annotation.POSNoun, "").
		Word(auxiliary, "werden", annotation.POSAux, "").
		Word("gelesen", "lesen", annotation.POSVerb, "VerbForm=Part").
		Punct(".").
		Sentence()
}

func richSentence() annotation.Sentence {
	return annotation.NewBuilder().
		Word("Am", "an", annotation.POSAdposition, "").
		Word("Montag", "Montag", annotation.POSNoun, "Case=Dat|Gender=Masc|Number=Sing").
		Word("hat", "haben", annotation.POSAux, "Tense=Pres|VerbForm=Fin").
		Word("der", "der", annotation.POSDeterminer, "Case=Nom|Definite=Def|Gender=Masc|Number=Sing").
		Word("alte", "alt", annotation.POSAdjective, "Case=Nom|Gender=Masc|Number=Sing").
		Word("Mann", "Mann", annotation.POSNoun, "Case=Nom|Gender=Masc|Number=Sing").
		Word("dem", "der", annotation.POSDeterminer, "Case=Dat|Definite=Def|Gender=Neut|Number=Sing").
		Word("Kind", "Kind", annotation.POSNoun, "Case=Dat|Gender=Neut|Number=Sing").
		Word("ein", "ein", annotation.POSDeterminer, "Case=Acc|Definite=Ind|Gender=Neut|Number=Sing").
		Word("Buch", "Buch", annotation.POSNoun, "Case=Acc|Gender=Neut|Number=Sing").
		Word("gegeben", "geben", annotation.POSVerb, "VerbForm=Part").
		Punct(",").
		Word("weil", "weil", annotation.POSSConj, "").
		Word("es", "es", annotation.POSPronoun, "Case=Nom").
		Word("lesen", "lesen", annotation.POSVerb, "VerbForm=Inf").
		Word("will", "wollen", annotation.POSVerb, "Mood=Ind|Tense=Pres|VerbForm=Fin").
		Punct(".").
		Sentence()
}

func TestPassiveScenario(t *testing.T) {
	for aux, want := range map[string]string{"wird": "present", "wurde": "past"} {
		t.Run(aux, func(t *testing.T) {
			res := New(taxonomy.Default()).Analyze(passiveSentence(aux))
			require.Len(t, res.GrammarPoints, 1)
			r := res.GrammarPoints[0]
			assert.Equal(t, taxonomy.CategoryPassive, r.Category())
			assert.Equal(t, taxonomy.B1, r.Level())
			d := r.Details.(detect.PassiveDetails)
			assert.Equal(t, want, d.PassiveType)
			assert.Equal(t, aux, d.Auxiliary)
			assert.Equal(t, "gelesen", d.Participle)
		})
	}
}

func TestModalScenario(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Ich", "ich", annotation.POSPronoun, "").
		Word("muss", "müssen", annotation.POSVerb, "").
		Word("arbeiten", "arbeiten", annotation.POSVerb, "VerbForm=Inf").
		Punct(".").
		Sentence()

	res := New(taxonomy.Default()).Analyze(s)
	require.Len(t, res.GrammarPoints, 1)
	r := res.GrammarPoints[0]
	assert.Equal(t, "modal-verbs", r.GrammarPointID)
	covered, ok := s.Slice(r.Position.Start, r.Position.End)
	require.True(t, ok)
	assert.Equal(t, "muss arbeiten", covered)
	d := r.Details.(detect.ModalDetails)
	assert.Equal(t, "muss", d.ModalVerb)
	assert.Equal(t, "arbeiten", d.Infinitive)
}

func TestNamedEntityScenario(t *testing.T) {
	s := annotation.NewBuilder().
		Word("Er", "er", annotation.POSPronoun, "").
		Word("wohnt", "wohnen", annotation.POSVerb, "").
		Word("in", "in", annotation.POSAdposition, "").
		Word("Sankt", "Sankt", annotation.POSProperNoun, "").
		Word("Peter", "Peter", annotation.POSProperNoun, "").
		Word("Ording", "Ording", annotation.POSProperNoun, "Case=Dat").
		Punct(".").
		Sentence()

	res := New(taxonomy.Default()).Analyze(s)
	assert.Empty(t, res.ByCategory[taxonomy.CategoryCase])
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	e := New(taxonomy.Default())
	s := richSentence()
	first := e.Analyze(s)
	second := e.Analyze(s)
	assert.NotEmpty(t, first.GrammarPoints)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Analyze not idempotent (-first +second):\n%s", diff)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	s := richSentence()
	seq := New(taxonomy.Default()).Analyze(s)
	par := NewBuilder(taxonomy.Default()).WithDefaults().WithParallel(true).Build().Analyze(s)
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Fatalf("parallel fan-out changed the result (-seq +par):\n%s", diff)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	res := New(taxonomy.Default()).Analyze(richSentence())
	for i, r := range res.GrammarPoints {
		assert.GreaterOrEqual(t, r.Confidence, DefaultThreshold)
		assert.LessOrEqual(t, r.Position.Start, r.Position.End)
		if i > 0 {
			assert.LessOrEqual(t, res.GrammarPoints[i-1].Position.Start, r.Position.Start)
		}
	}
	total := 0
	for _, rs := range res.ByLevel {
		total += len(rs)
	}
	assert.Equal(t, res.Summary.TotalPoints, total)
	assert.Equal(t, len(res.GrammarPoints), res.Summary.TotalPoints)
}

func TestFeatureTieBreakThroughEngine(t *testing.T) {
	e := NewBuilder(taxonomy.Default()).
		RegisterDetector(stubDetector{name: "a", results: []detect.Result{
			cand(t, "definite-article", 0, 4, 0.80),
			cand(t, "modal-verbs", 10, 14, 0.90),
		}}).
		RegisterDetector(stubDetector{name: "b", results: []detect.Result{
			cand(t, "present-tense", 0, 4, 0.80),
		}}).
		Build()

	res := e.Analyze(annotation.Sentence{Text: "Der Hund kann laufen."})
	assert.Equal(t, []string{"present-tense", "modal-verbs"}, pointIDs(res.GrammarPoints))
}

func TestMergeThroughEngine(t *testing.T) {
	e := NewBuilder(taxonomy.Default()).
		Register(stubDetector{name: "a", results: []detect.Result{
			cand(t, "dative-case", 5, 9, 0.90),
			cand(t, "dative-case", 0, 4, 0.90),
		}}).
		Build()

	res := e.Analyze(annotation.Sentence{Text: "dem Kinde"})
	require.Len(t, res.GrammarPoints, 1)
	r := res.GrammarPoints[0]
	assert.Equal(t, detect.Position{Start: 0, End: 9}, r.Position)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 2, raw["details"].(map[string]any)["mergedTokens"])
}

func TestBuilderIsolation(t *testing.T) {
	b := NewBuilder(taxonomy.Default()).RegisterDetector(stubDetector{name: "a"})
	e := b.Build()
	b.RegisterDetector(stubDetector{name: "b"})

	require.Len(t, e.Detectors(), 1)
	ds := e.Detectors()
	ds[0] = stubDetector{name: "changed"}
	assert.Equal(t, "a", e.Detectors()[0].Name())
	assert.Len(t, New(taxonomy.Default()).Detectors(), 19)
}

func aiResult(start, end int, confidence float64) detect.Result {
	gp := taxonomy.GrammarPoint{
		ID:       "ai-genitive-preposition",
		Category: taxonomy.CategoryPreposition,
		Level:    taxonomy.B2,
		Name:     "Genitive preposition",
	}
	return detect.NewResult(gp, detect.Position{Start: start, End: end}, confidence, detect.GenericDetails{"source": "ai"})
}

func TestAnalyzeWithFallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fb := &stubFallback{results: []detect.Result{aiResult(0, 3, 0.85), aiResult(22, 25, 0.5)}}
	e := NewBuilder(taxonomy.Default()).
		WithDefaults().
		WithFallback(fb).
		WithLogger(zap.New(core).Sugar()).
		Build()

	s := passiveSentence("wird")
	res := e.AnalyzeWithFallback(context.Background(), s)
	assert.Equal(t, int32(1), fb.calls.Load())
	assert.Equal(t, []string{"ai-genitive-preposition", "passive-voice"}, pointIDs(res.GrammarPoints))
	assert.Equal(t, 1, res.Summary.Categories[taxonomy.CategoryPreposition])
	assert.Equal(t, 1, logs.FilterMessage("fallback engaged").Len())
}

func TestAnalyzeWithFallbackSkippedWhenRulesSuffice(t *testing.T) {
	fb := &stubFallback{results: []detect.Result{aiResult(0, 3, 0.85)}}
	e := NewBuilder(taxonomy.Default()).WithDefaults().WithFallback(fb).Build()

	s := richSentence()
	res := e.AnalyzeWithFallback(context.Background(), s)
	assert.Equal(t, int32(0), fb.calls.Load())
	if diff := cmp.Diff(e.Analyze(s), res); diff != "" {
		t.Fatalf("unexpected difference (-Analyze +AnalyzeWithFallback):\n%s", diff)
	}
}

func TestAnalyzeWithFallbackEmptyFallback(t *testing.T) {
	fb := &stubFallback{}
	e := NewBuilder(taxonomy.Default()).WithDefaults().WithFallback(fb).Build()
	s := passiveSentence("wurde")

	res := e.AnalyzeWithFallback(context.Background(), s)
	assert.Equal(t, int32(1), fb.calls.Load())
	assert.Len(t, res.GrammarPoints, 1)
}

func TestAnalyzeWithFallbackDisabledByZeroMinPoints(t *testing.T) {
	fb := &stubFallback{results: []detect.Result{aiResult(0, 3, 0.85)}}
	e := NewBuilder(taxonomy.Default()).
		WithDefaults().
		WithFallback(fb).
		WithFallbackMinPoints(0).
		Build()

	res := e.AnalyzeWithFallback(context.Background(), annotation.Sentence{Text: "Ja."})
	assert.Equal(t, int32(0), fb.calls.Load())
	assert.Empty(t, res.GrammarPoints)
}

func TestResultJSONShape(t *testing.T) {
	res := New(taxonomy.Default()).Analyze(passiveSentence("wird"))
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Das Buch wird gelesen.", raw["sentence"])
	assert.Len(t, raw["grammarPoints"], 1)
	byLevel := raw["byLevel"].(map[string]any)
	for _, l := range []string{"A1", "A2", "B1", "B2", "C1", "C2"} {
		assert.Contains(t, byLevel, l)
	}
	summary := raw["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["totalPoints"])
	assert.EqualValues(t, 1, summary["levels"].(map[string]any)["B1"])

	empty, err := json.Marshal(New(taxonomy.Default()).Analyze(annotation.Sentence{}))
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"grammarPoints":[]`)
}
