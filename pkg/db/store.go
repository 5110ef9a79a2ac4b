package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/japaniel/grammatik/pkg/grammar"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetSource returns existing source id or inserts a new source and returns its id.
func CreateOrGetSource(db DBExecutor, sourceType, title, author, website, url, meta string) (int64, error) {
	trimmedSourceType := strings.TrimSpace(sourceType)
	if trimmedSourceType == "" {
		return 0, errors.New("sourceType must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(
			`SELECT id FROM sources WHERE url = ? AND title = ? AND author = ?`,
			url, title, author,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, errors.Wrap(err, "find source")
		}

		res, err := db.Exec(
			`INSERT INTO sources (source_type, title, author, website, url, meta) VALUES (?, ?, ?, ?, ?, ?)`,
			trimmedSourceType, title, author, website, url, meta,
		)
		if err != nil {
			// A concurrent writer inserted the same source; select it on the next attempt.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, errors.Wrap(err, "insert source")
		}
		return res.LastInsertId()
	}

	return 0, errors.Newf("could not create or get source after %d retries", maxRetries)
}

// GetSource loads a source by id.
func GetSource(db DBExecutor, sourceID int64) (Source, error) {
	var s Source
	err := db.QueryRow(
		`SELECT id, source_type, title, author, website, url, meta, added_at, last_processed_sentence
		 FROM sources WHERE id = ?`, sourceID,
	).Scan(&s.ID, &s.SourceType, &s.Title, &s.Author, &s.Website, &s.URL, &s.Meta, &s.AddedAt, &s.LastProcessed)
	if err != nil {
		return Source{}, errors.Wrapf(err, "get source %d", sourceID)
	}
	return s, nil
}

func getOrCreateSentence(db DBExecutor, text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, errors.New("sentence text must be non-empty")
	}
	var id int64
	if err := db.QueryRow(`SELECT id FROM sentences WHERE text = ?`, trimmed).Scan(&id); err == nil {
		return id, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO sentences (text) VALUES (?)`, trimmed); err != nil {
		return 0, err
	}
	if err := db.QueryRow(`SELECT id FROM sentences WHERE text = ?`, trimmed).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// SaveAnalysis stores the analysis of the sentence at index within a source
// and returns the new analysis id. A previous analysis of the same sentence
// is replaced.
func SaveAnalysis(db DBExecutor, sourceID int64, index int, res grammar.GrammarAnalysisResult) (string, error) {
	if sourceID <= 0 {
		return "", errors.New("sourceID must be positive")
	}
	if index < 0 {
		return "", errors.Newf("sentence index must not be negative, got %d", index)
	}

	sentenceID, err := getOrCreateSentence(db, res.Sentence)
	if err != nil {
		return "", errors.Wrap(err, "get/create sentence")
	}

	if _, err := db.Exec(
		`DELETE FROM analysis_points WHERE analysis_id IN
		 (SELECT id FROM analyses WHERE source_id = ? AND sentence_index = ?)`,
		sourceID, index,
	); err != nil {
		return "", errors.Wrap(err, "clear previous points")
	}
	if _, err := db.Exec(`DELETE FROM analyses WHERE source_id = ? AND sentence_index = ?`, sourceID, index); err != nil {
		return "", errors.Wrap(err, "clear previous analysis")
	}

	id := uuid.New().String()
	if _, err := db.Exec(
		`INSERT INTO analyses (id, source_id, sentence_id, sentence_index, total_points) VALUES (?, ?, ?, ?, ?)`,
		id, sourceID, sentenceID, index, res.Summary.TotalPoints,
	); err != nil {
		return "", errors.Wrap(err, "insert analysis")
	}

	for i, r := range res.GrammarPoints {
		payload, err := json.Marshal(r)
		if err != nil {
			return "", errors.Wrapf(err, "encode point %s", r.GrammarPointID)
		}
		if _, err := db.Exec(
			`INSERT INTO analysis_points
			 (analysis_id, ordinal, grammar_point_id, level, category, start_pos, end_pos, confidence, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.GrammarPointID, string(r.Level()), string(r.Category()),
			r.Position.Start, r.Position.End, r.Confidence, string(payload),
		); err != nil {
			return "", errors.Wrapf(err, "insert point %s", r.GrammarPointID)
		}
	}
	return id, nil
}

// GetPointsBySource returns every stored grammar point of a source in
// sentence order, then in analysis order.
func GetPointsBySource(db DBExecutor, sourceID int64) ([]StoredPoint, error) {
	rows, err := db.Query(
		`SELECT a.id, a.sentence_index, s.text, p.level, p.category, p.payload
		 FROM analysis_points p
		 JOIN analyses a ON a.id = p.analysis_id
		 JOIN sentences s ON s.id = a.sentence_id
		 WHERE a.source_id = ?
		 ORDER BY a.sentence_index, p.ordinal`, sourceID)
	if err != nil {
		return nil, errors.Wrap(err, "query points")
	}
	defer rows.Close()

	var out []StoredPoint
	for rows.Next() {
		var p StoredPoint
		var level, category, payload string
		if err := rows.Scan(&p.AnalysisID, &p.SentenceIndex, &p.Sentence, &level, &category, &payload); err != nil {
			return nil, errors.Wrap(err, "scan point")
		}
		p.Level = taxonomy.Level(level)
		p.Category = taxonomy.Category(category)
		if err := json.Unmarshal([]byte(payload), &p.Result); err != nil {
			return nil, errors.Wrapf(err, "decode point of analysis %s", p.AnalysisID)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LevelCounts returns the number of stored grammar points per level for a
// source. Every level is present.
func LevelCounts(db DBExecutor, sourceID int64) (map[taxonomy.Level]int, error) {
	counts := make(map[taxonomy.Level]int, len(taxonomy.Levels))
	for _, l := range taxonomy.Levels {
		counts[l] = 0
	}
	err := groupCount(db, "level", sourceID, func(key string, n int) {
		counts[taxonomy.Level(key)] = n
	})
	return counts, err
}

// CategoryCounts returns the number of stored grammar points per category
// for a source. Categories without points are omitted.
func CategoryCounts(db DBExecutor, sourceID int64) (map[taxonomy.Category]int, error) {
	counts := map[taxonomy.Category]int{}
	err := groupCount(db, "category", sourceID, func(key string, n int) {
		counts[taxonomy.Category(key)] = n
	})
	return counts, err
}

// groupCount runs a per-column aggregate. column is never user input.
func groupCount(db DBExecutor, column string, sourceID int64, add func(string, int)) error {
	rows, err := db.Query(
		`SELECT p.`+column+`, COUNT(*)
		 FROM analysis_points p JOIN analyses a ON a.id = p.analysis_id
		 WHERE a.source_id = ?
		 GROUP BY p.`+column, sourceID)
	if err != nil {
		return errors.Wrapf(err, "count by %s", column)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return errors.Wrapf(err, "scan %s count", column)
		}
		add(key, n)
	}
	return rows.Err()
}

// GetSourceProgress returns the last processed sentence index for a source.
func GetSourceProgress(db DBExecutor, sourceID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed_sentence FROM sources WHERE id = ?", sourceID).Scan(&index)
	if err != nil {
		return 0, errors.Wrapf(err, "get progress of source %d", sourceID)
	}
	return index, nil
}

// UpdateSourceProgress updates the last processed sentence index.
func UpdateSourceProgress(db DBExecutor, sourceID int64, index int) error {
	_, err := db.Exec("UPDATE sources SET last_processed_sentence = ? WHERE id = ?", index, sourceID)
	return errors.Wrap(err, "update progress")
}
