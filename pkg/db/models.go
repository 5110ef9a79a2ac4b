package db

import (
	"time"

	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// Source is a provenance record for an analyzed text.
type Source struct {
	ID         int64
	SourceType string
	Title      string
	Author     string
	Website    string
	URL        string
	Meta       string
	AddedAt    time.Time
	// LastProcessed is the index of the last stored sentence, -1 if none.
	LastProcessed int
}

// StoredPoint is a grammar point read back from an analysis.
type StoredPoint struct {
	AnalysisID    string
	SentenceIndex int
	Sentence      string
	Level         taxonomy.Level
	Category      taxonomy.Category
	Result        detect.Result
}
