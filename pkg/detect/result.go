package detect

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// Position is a character range into the sentence text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether the ranges touch or intersect.
func (p Position) Overlaps(o Position) bool {
	return !(p.End < o.Start || o.End < p.Start)
}

// Union returns the smallest range covering both.
func (p Position) Union(o Position) Position {
	out := p
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// Result is a candidate or final annotation of a sentence span. Pipeline
// stages never modify a Result in place; they build new values.
type Result struct {
	GrammarPointID string
	// GrammarPoint is a snapshot of the descriptor; later stages may replace
	// its explanation.
	GrammarPoint taxonomy.GrammarPoint
	Position     Position
	// Positions lists the sub-spans of discontinuous constructions.
	Positions  []Position
	Confidence float64
	Details    Details
	// MergedTokens counts candidates folded into this one by adjacent merging.
	// Zero means the result was never merged.
	MergedTokens int
}

// NewResult builds a result for a descriptor.
func NewResult(gp taxonomy.GrammarPoint, span Position, confidence float64, details Details) Result {
	return Result{
		GrammarPointID: gp.ID,
		GrammarPoint:   gp,
		Position:       span,
		Confidence:     confidence,
		Details:        details,
	}
}

// Category returns the descriptor category.
func (r Result) Category() taxonomy.Category { return r.GrammarPoint.Category }

// Level returns the descriptor level.
func (r Result) Level() taxonomy.Level { return r.GrammarPoint.Level }

// Explanation returns the explanation shown to learners.
func (r Result) Explanation() string { return r.GrammarPoint.Explanation }

// WithExplanation returns a copy with the explanation replaced.
func (r Result) WithExplanation(text string) Result {
	r.GrammarPoint.Explanation = text
	return r
}

// WithPositions returns a copy carrying the given sub-spans.
func (r Result) WithPositions(ps ...Position) Result {
	r.Positions = append([]Position(nil), ps...)
	return r
}

// Folded returns how many original candidates this result represents.
func (r Result) Folded() int {
	if r.MergedTokens < 1 {
		return 1
	}
	return r.MergedTokens
}

type resultJSON struct {
	GrammarPointID string                `json:"grammarPointId"`
	GrammarPoint   taxonomy.GrammarPoint `json:"grammarPoint"`
	Position       Position              `json:"position"`
	Positions      []Position            `json:"positions,omitempty"`
	Confidence     float64               `json:"confidence"`
	Details        map[string]any        `json:"details"`
}

// MarshalJSON flattens the typed details into the "details" object and adds
// mergedTokens when the result was merged.
func (r Result) MarshalJSON() ([]byte, error) {
	details, err := detailsMap(r.Details)
	if err != nil {
		return nil, errors.Wrapf(err, "encode details of %s", r.GrammarPointID)
	}
	if r.MergedTokens > 0 {
		details["mergedTokens"] = r.MergedTokens
	}
	return json.Marshal(resultJSON{
		GrammarPointID: r.GrammarPointID,
		GrammarPoint:   r.GrammarPoint,
		Position:       r.Position,
		Positions:      r.Positions,
		Confidence:     r.Confidence,
		Details:        details,
	})
}

// UnmarshalJSON decodes a stored result. Details come back as GenericDetails
// since the concrete detector family is not recorded.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode result")
	}
	*r = Result{
		GrammarPointID: raw.GrammarPointID,
		GrammarPoint:   raw.GrammarPoint,
		Position:       raw.Position,
		Positions:      raw.Positions,
		Confidence:     raw.Confidence,
	}
	if raw.Details != nil {
		if n, ok := raw.Details["mergedTokens"].(float64); ok {
			r.MergedTokens = int(n)
			delete(raw.Details, "mergedTokens")
		}
		r.Details = GenericDetails(raw.Details)
	}
	return nil
}

func detailsMap(d Details) (map[string]any, error) {
	out := map[string]any{}
	if d == nil {
		return out, nil
	}
	if g, ok := d.(GenericDetails); ok {
		for k, v := range g {
			out[k] = v
		}
		return out, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
