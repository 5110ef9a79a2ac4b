// Package detect contains the rule-based grammar detectors. Each detector is
// an independent, side-effect-free pattern matcher over one annotated
// sentence; detectors never see each other's output.
package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// Detector finds instances of one grammatical phenomenon. Detect must not
// fail: no match is an empty (nil) slice.
type Detector interface {
	Name() string
	Category() taxonomy.Category
	Detect(s annotation.Sentence) []Result
}

// Defaults returns the rule detectors in their standard registration order.
// Order matters: the orchestrator concatenates candidates in this order.
func Defaults(c *taxonomy.Catalog) []Detector {
	return []Detector{
		NewCaseDetector(c),
		NewPassiveDetector(c),
		NewAgentPassiveDetector(c),
		NewStatalPassiveDetector(c),
		NewPerfectDetector(c),
		NewPluperfectDetector(c),
		NewFutureDetector(c),
		NewPresentDetector(c),
		NewSimplePastDetector(c),
		NewSubjunctiveDetector(c),
		NewModalDetector(c),
		NewSeparableVerbDetector(c),
		NewReflexiveVerbDetector(c),
		NewFunctionalVerbDetector(c),
		NewSubordinateClauseDetector(c),
		NewVerbSecondDetector(c),
		NewAgreementDetector(c),
		NewArticleDetector(c),
		NewPrepositionDetector(c),
	}
}

// points gives detectors access to catalog descriptors by id.
type points struct {
	catalog *taxonomy.Catalog
}

// result builds a Result for the descriptor id. ok is false when the catalog
// does not define the id, in which case the detector emits nothing.
func (p points) result(id string, span Position, confidence float64, details Details) (Result, bool) {
	if p.catalog == nil {
		return Result{}, false
	}
	gp, ok := p.catalog.Get(id)
	if !ok {
		return Result{}, false
	}
	return NewResult(gp, span, confidence, details), true
}
