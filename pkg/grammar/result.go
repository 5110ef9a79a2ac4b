package grammar

import (
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// GrammarAnalysisResult is the analysis of one sentence. Its JSON shape is
// consumed by rendering clients.
type GrammarAnalysisResult struct {
	Sentence      string                                `json:"sentence"`
	GrammarPoints []detect.Result                       `json:"grammarPoints"`
	ByLevel       map[taxonomy.Level][]detect.Result    `json:"byLevel"`
	ByCategory    map[taxonomy.Category][]detect.Result `json:"byCategory"`
	Summary       Summary                               `json:"summary"`
}

// Summary counts the grammar points of a result.
type Summary struct {
	TotalPoints int                       `json:"totalPoints"`
	Levels      map[taxonomy.Level]int    `json:"levels"`
	Categories  map[taxonomy.Category]int `json:"categories"`
}

// organize buckets the final results. Every level and every known category
// is present, possibly empty.
func organize(sentence string, rs []detect.Result) GrammarAnalysisResult {
	res := GrammarAnalysisResult{
		Sentence:      sentence,
		GrammarPoints: append(make([]detect.Result, 0, len(rs)), rs...),
		ByLevel:       make(map[taxonomy.Level][]detect.Result, len(taxonomy.Levels)),
		ByCategory:    make(map[taxonomy.Category][]detect.Result, len(taxonomy.Categories)),
		Summary: Summary{
			TotalPoints: len(rs),
			Levels:      make(map[taxonomy.Level]int, len(taxonomy.Levels)),
			Categories:  make(map[taxonomy.Category]int, len(taxonomy.Categories)),
		},
	}
	for _, l := range taxonomy.Levels {
		res.ByLevel[l] = []detect.Result{}
		res.Summary.Levels[l] = 0
	}
	for _, c := range taxonomy.Categories {
		res.ByCategory[c] = []detect.Result{}
		res.Summary.Categories[c] = 0
	}
	for _, r := range rs {
		res.ByLevel[r.Level()] = append(res.ByLevel[r.Level()], r)
		res.Summary.Levels[r.Level()]++
		res.ByCategory[r.Category()] = append(res.ByCategory[r.Category()], r)
		res.Summary.Categories[r.Category()]++
	}
	return res
}
