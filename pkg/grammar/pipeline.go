package grammar

import (
	"sort"

	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// Every stage returns a fresh slice and leaves its input untouched.

// filterConfidence keeps candidates at or above the threshold.
func filterConfidence(rs []detect.Result, threshold float64) []detect.Result {
	out := make([]detect.Result, 0, len(rs))
	for _, r := range rs {
		if r.Confidence >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// dedupOverlaps groups runs of candidates whose span overlaps the span of
// the previous member of the run and keeps the most confident of each run.
// Ties keep the earlier candidate. Overlap is checked against the last
// member only, so a run can chain through spans that do not overlap
// pairwise.
func dedupOverlaps(rs []detect.Result) []detect.Result {
	if len(rs) == 0 {
		return nil
	}
	out := make([]detect.Result, 0, len(rs))
	best, last := rs[0], rs[0]
	for _, r := range rs[1:] {
		if last.Position.Overlaps(r.Position) {
			if r.Confidence > best.Confidence {
				best = r
			}
		} else {
			out = append(out, best)
			best = r
		}
		last = r
	}
	return append(out, best)
}

var specificity = map[taxonomy.Category]int{
	taxonomy.CategoryTense:     10,
	taxonomy.CategoryVoice:     10,
	taxonomy.CategoryMood:      10,
	taxonomy.CategoryCase:      8,
	taxonomy.CategoryAgreement: 8,
	taxonomy.CategoryArticle:   5,
}

func categorySpecificity(c taxonomy.Category) int {
	if v, ok := specificity[c]; ok {
		return v
	}
	return 5
}

// dedupFeatures keeps one candidate per exact span: the most confident, or
// on equal confidence the one with the more specific category. Spans keep
// the order of their first appearance.
func dedupFeatures(rs []detect.Result) []detect.Result {
	out := make([]detect.Result, 0, len(rs))
	seen := make(map[detect.Position]int, len(rs))
	for _, r := range rs {
		i, ok := seen[r.Position]
		if !ok {
			seen[r.Position] = len(out)
			out = append(out, r)
			continue
		}
		cur := out[i]
		if r.Confidence > cur.Confidence ||
			(r.Confidence == cur.Confidence && categorySpecificity(r.Category()) > categorySpecificity(cur.Category())) {
			out[i] = r
		}
	}
	return out
}

// sortByStart orders candidates by span start, keeping the relative order
// of equal starts.
func sortByStart(rs []detect.Result) []detect.Result {
	out := append([]detect.Result(nil), rs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Start < out[j].Position.Start
	})
	return out
}

// mergeAdjacent folds consecutive candidates of the same grammar point whose
// spans touch, overlap or are one character apart.
func mergeAdjacent(rs []detect.Result) []detect.Result {
	out := make([]detect.Result, 0, len(rs))
	for _, r := range rs {
		if n := len(out); n > 0 {
			cur := out[n-1]
			if cur.GrammarPointID == r.GrammarPointID && cur.Position.End >= r.Position.Start-1 {
				out[n-1] = merge(cur, r)
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func merge(a, b detect.Result) detect.Result {
	m := a
	m.Position = a.Position.Union(b.Position)
	if b.Confidence > m.Confidence {
		m.Confidence = b.Confidence
	}
	m.MergedTokens = a.Folded() + b.Folded()
	if len(a.Positions) > 0 || len(b.Positions) > 0 {
		m.Positions = append(subSpans(a), subSpans(b)...)
	}
	return m
}

// subSpans returns r's discontinuous spans, or its main span when it has none.
func subSpans(r detect.Result) []detect.Position {
	if len(r.Positions) > 0 {
		return append([]detect.Position(nil), r.Positions...)
	}
	return []detect.Position{r.Position}
}
