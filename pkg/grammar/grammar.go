// Package grammar runs the detectors over a sentence and reconciles their
// candidates into one ordered, non-redundant set of grammar points.
package grammar

import (
	"context"

	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultThreshold is the global acceptance threshold.
	DefaultThreshold = 0.70
	// DefaultFallbackMinPoints is the rule-based result count below which
	// AnalyzeWithFallback consults the fallback.
	DefaultFallbackMinPoints = 2
)

// Fallback is an asynchronous detector consulted when the rules find too
// little. Like Detector it never fails.
type Fallback interface {
	Detect(ctx context.Context, s annotation.Sentence) []detect.Result
}

// Engine is an immutable detector configuration. It is safe for concurrent use.
type Engine struct {
	catalog   *taxonomy.Catalog
	detectors []detect.Detector
	fallback  Fallback
	threshold float64
	minPoints int
	parallel  bool
	log       *zap.SugaredLogger
}

// Builder collects the configuration of an Engine. It is not safe for
// concurrent use; Build copies everything it holds.
type Builder struct {
	e Engine
}

// NewBuilder starts an Engine configuration without detectors.
func NewBuilder(c *taxonomy.Catalog) *Builder {
	return &Builder{e: Engine{
		catalog:   c,
		threshold: DefaultThreshold,
		minPoints: DefaultFallbackMinPoints,
		log:       zap.NewNop().Sugar(),
	}}
}

// New returns an Engine with the default rule detectors and no fallback.
func New(c *taxonomy.Catalog) *Engine {
	return NewBuilder(c).WithDefaults().Build()
}

// WithDefaults registers the standard rule detectors.
func (b *Builder) WithDefaults() *Builder {
	return b.Register(detect.Defaults(b.e.catalog)...)
}

// Register appends detectors in order.
func (b *Builder) Register(ds ...detect.Detector) *Builder {
	b.e.detectors = append(b.e.detectors, ds...)
	return b
}

// RegisterDetector appends one detector.
func (b *Builder) RegisterDetector(d detect.Detector) *Builder {
	return b.Register(d)
}

// WithFallback sets the detector used by AnalyzeWithFallback.
func (b *Builder) WithFallback(f Fallback) *Builder {
	b.e.fallback = f
	return b
}

// WithThreshold overrides the acceptance threshold. Non-positive values
// keep the default.
func (b *Builder) WithThreshold(t float64) *Builder {
	if t > 0 {
		b.e.threshold = t
	}
	return b
}

// WithFallbackMinPoints sets the result count at which the fallback is
// skipped. Zero disables the fallback; negative values are ignored.
func (b *Builder) WithFallbackMinPoints(n int) *Builder {
	if n >= 0 {
		b.e.minPoints = n
	}
	return b
}

// WithParallel runs the detectors concurrently. Candidate order is the same
// as for sequential runs.
func (b *Builder) WithParallel(on bool) *Builder {
	b.e.parallel = on
	return b
}

// WithLogger sets the engine logger.
func (b *Builder) WithLogger(l *zap.SugaredLogger) *Builder {
	if l != nil {
		b.e.log = l
	}
	return b
}

// Build returns the configured Engine.
func (b *Builder) Build() *Engine {
	e := b.e
	e.detectors = append([]detect.Detector(nil), b.e.detectors...)
	return &e
}

// Detectors returns the registered detectors in registration order.
func (e *Engine) Detectors() []detect.Detector {
	return append([]detect.Detector(nil), e.detectors...)
}

// Catalog returns the grammar point catalog the engine was built with.
func (e *Engine) Catalog() *taxonomy.Catalog { return e.catalog }

// Analyze runs every detector over s and reconciles the candidates. It is a
// pure function of s and the engine configuration.
func (e *Engine) Analyze(s annotation.Sentence) GrammarAnalysisResult {
	return e.reconcile(s, e.candidates(s))
}

// AnalyzeWithFallback is Analyze, plus the fallback when the rules yield
// fewer than the configured minimum of grammar points. Fallback candidates
// pass the same acceptance threshold and join the rule candidates before
// reconciliation is repeated.
func (e *Engine) AnalyzeWithFallback(ctx context.Context, s annotation.Sentence) GrammarAnalysisResult {
	candidates := e.candidates(s)
	res := e.reconcile(s, candidates)
	if e.fallback == nil || len(res.GrammarPoints) >= e.minPoints {
		return res
	}
	e.log.Debugw("fallback engaged", "rulePoints", len(res.GrammarPoints), "sentenceLength", len(s.Text))
	extra := filterConfidence(e.fallback.Detect(ctx, s), e.threshold)
	if len(extra) == 0 {
		return res
	}
	combined := make([]detect.Result, 0, len(candidates)+len(extra))
	combined = append(combined, candidates...)
	combined = append(combined, extra...)
	return e.reconcile(s, combined)
}

// candidates runs the fan-out and the confidence filter.
func (e *Engine) candidates(s annotation.Sentence) []detect.Result {
	var slots [][]detect.Result
	if e.parallel {
		slots = e.fanOutParallel(s)
	} else {
		slots = make([][]detect.Result, len(e.detectors))
		for i, d := range e.detectors {
			slots[i] = d.Detect(s)
		}
	}
	var all []detect.Result
	for _, rs := range slots {
		all = append(all, rs...)
	}
	return filterConfidence(all, e.threshold)
}

// fanOutParallel gives every detector its own slot so that concatenation
// keeps registration order.
func (e *Engine) fanOutParallel(s annotation.Sentence) [][]detect.Result {
	slots := make([][]detect.Result, len(e.detectors))
	var g errgroup.Group
	for i, d := range e.detectors {
		g.Go(func() error {
			slots[i] = d.Detect(s)
			return nil
		})
	}
	_ = g.Wait()
	return slots
}

// reconcile applies the stages after filtering.
func (e *Engine) reconcile(s annotation.Sentence, rs []detect.Result) GrammarAnalysisResult {
	rs = dedupOverlaps(rs)
	rs = dedupFeatures(rs)
	rs = sortByStart(rs)
	rs = mergeAdjacent(rs)
	rs = explain(s, rs)
	return organize(s.Text, rs)
}
