package db

import (
	"database/sql"
	"testing"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/grammar"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	require.NoError(t, InitDB(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func analyzePassive(t *testing.T, aux string) grammar.GrammarAnalysisResult {
	t.Helper()
	s := annotation.NewBuilder().
		Word("Das", "der", annotation.POSDeterminer, "").
		Word("Buch", "Buch", annotation.POSNoun, "").
		Word(aux, "werden", annotation.POSAux, "").
		Word("gelesen", "lesen", annotation.POSVerb, "VerbForm=Part").
		Punct(".").
		Sentence()
	res := grammar.New(taxonomy.Default()).Analyze(s)
	require.Len(t, res.GrammarPoints, 1)
	return res
}

func TestCreateOrGetSource(t *testing.T) {
	db := setupTestDB(t)
	id1, err := CreateOrGetSource(db, "website_article", "", "", "example.de", "https://example.de/a", "")
	require.NoError(t, err)
	id2, err := CreateOrGetSource(db, "website_article", "", "", "example.de", "https://example.de/a", "")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	id3, err := CreateOrGetSource(db, "website_article", "", "", "example.de", "https://example.de/b", "")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	_, err = CreateOrGetSource(db, "  ", "", "", "", "", "")
	assert.Error(t, err)
}

func TestGetSource(t *testing.T) {
	db := setupTestDB(t)
	id, err := CreateOrGetSource(db, "file", "Lesetext", "Anna", "", "", `{"lang":"de"}`)
	require.NoError(t, err)

	src, err := GetSource(db, id)
	require.NoError(t, err)
	assert.Equal(t, "file", src.SourceType)
	assert.Equal(t, "Lesetext", src.Title)
	assert.Equal(t, "Anna", src.Author)
	assert.Equal(t, -1, src.LastProcessed)
	assert.False(t, src.AddedAt.IsZero())

	_, err = GetSource(db, id+100)
	assert.Error(t, err)
}

func TestSaveAnalysisAndQuery(t *testing.T) {
	db := setupTestDB(t)
	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)

	first := analyzePassive(t, "wird")
	second := analyzePassive(t, "wurde")

	id1, err := SaveAnalysis(db, sID, 0, first)
	require.NoError(t, err)
	id2, err := SaveAnalysis(db, sID, 1, second)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 36)

	points, err := GetPointsBySource(db, sID)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, 0, points[0].SentenceIndex)
	assert.Equal(t, first.Sentence, points[0].Sentence)
	assert.Equal(t, id1, points[0].AnalysisID)
	assert.Equal(t, 1, points[1].SentenceIndex)

	got := points[0].Result
	want := first.GrammarPoints[0]
	assert.Equal(t, want.GrammarPointID, got.GrammarPointID)
	assert.Equal(t, want.Position, got.Position)
	assert.InDelta(t, want.Confidence, got.Confidence, 1e-9)
	assert.Equal(t, want.Level(), points[0].Level)
	assert.Equal(t, want.Category(), points[0].Category)
	details, ok := got.Details.(detect.GenericDetails)
	require.True(t, ok)
	assert.Equal(t, "present", details["passiveType"])
}

func TestSaveAnalysisReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)

	res := analyzePassive(t, "wird")
	_, err = SaveAnalysis(db, sID, 0, res)
	require.NoError(t, err)
	id, err := SaveAnalysis(db, sID, 0, res)
	require.NoError(t, err)

	points, err := GetPointsBySource(db, sID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, id, points[0].AnalysisID)

	var sentences int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sentences`).Scan(&sentences))
	assert.Equal(t, 1, sentences)
}

func TestSaveAnalysisRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	res := analyzePassive(t, "wird")

	_, err := SaveAnalysis(db, 0, 0, res)
	assert.Error(t, err)

	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)
	_, err = SaveAnalysis(db, sID, -1, res)
	assert.Error(t, err)

	res.Sentence = " "
	_, err = SaveAnalysis(db, sID, 0, res)
	assert.Error(t, err)
}

func TestSaveAnalysisWithoutPoints(t *testing.T) {
	db := setupTestDB(t)
	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)

	empty := grammar.New(taxonomy.Default()).Analyze(annotation.NewBuilder().Word("Hallo", "hallo", "INTJ", "").Sentence())
	_, err = SaveAnalysis(db, sID, 0, empty)
	require.NoError(t, err)

	var analyses int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM analyses WHERE source_id = ?`, sID).Scan(&analyses))
	assert.Equal(t, 1, analyses)

	points, err := GetPointsBySource(db, sID)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestLevelAndCategoryCounts(t *testing.T) {
	db := setupTestDB(t)
	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)
	other, err := CreateOrGetSource(db, "file", "u", "", "", "", "")
	require.NoError(t, err)

	res := analyzePassive(t, "wird")
	for i := 0; i < 3; i++ {
		_, err := SaveAnalysis(db, sID, i, res)
		require.NoError(t, err)
	}
	_, err = SaveAnalysis(db, other, 0, res)
	require.NoError(t, err)

	levels, err := LevelCounts(db, sID)
	require.NoError(t, err)
	assert.Len(t, levels, len(taxonomy.Levels))
	lvl := res.GrammarPoints[0].Level()
	assert.Equal(t, 3, levels[lvl])
	total := 0
	for _, n := range levels {
		total += n
	}
	assert.Equal(t, 3, total)

	cats, err := CategoryCounts(db, sID)
	require.NoError(t, err)
	assert.Equal(t, map[taxonomy.Category]int{res.GrammarPoints[0].Category(): 3}, cats)
}

func TestSourceProgress(t *testing.T) {
	db := setupTestDB(t)
	sID, err := CreateOrGetSource(db, "file", "t", "", "", "", "")
	require.NoError(t, err)

	idx, err := GetSourceProgress(db, sID)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	require.NoError(t, UpdateSourceProgress(db, sID, 7))
	idx, err = GetSourceProgress(db, sID)
	require.NoError(t, err)
	assert.Equal(t, 7, idx)

	_, err = GetSourceProgress(db, sID+1)
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = CreateOrGetSource(conn, "file", "t", "", "", "", "")
	assert.NoError(t, err)
}
