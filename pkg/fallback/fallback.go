// Package fallback asks a text-completion model for grammar points when the
// rule detectors find too little. Every failure degrades to no results.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/detect"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	"go.uber.org/zap"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxConfidence = 0.85
)

// ErrMalformedResponse marks completions that are not the expected JSON.
var ErrMalformedResponse = errors.New("malformed fallback response")

// Completer sends a system instruction and a prompt to a completion model
// and returns the raw text of its answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Candidate is one grammar point as proposed by the model.
type Candidate struct {
	Category    string          `json:"category"`
	Level       string          `json:"level"`
	Pattern     string          `json:"pattern"`
	Explanation string          `json:"explanation"`
	Position    detect.Position `json:"position"`
	Confidence  float64         `json:"confidence"`
}

// Detector turns model candidates into detection results.
type Detector struct {
	completer     Completer
	timeout       time.Duration
	maxConfidence float64
	log           *zap.SugaredLogger
}

// Option configures a Detector.
type Option func(*Detector)

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(f *Detector) { f.timeout = d }
}

// WithMaxConfidence caps the confidence of returned results.
func WithMaxConfidence(c float64) Option {
	return func(f *Detector) { f.maxConfidence = c }
}

// WithLogger sets the logger for degraded calls.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Detector) {
		if l != nil {
			f.log = l
		}
	}
}

// New returns a Detector that queries c.
func New(c Completer, opts ...Option) *Detector {
	d := &Detector{
		completer:     c,
		timeout:       DefaultTimeout,
		maxConfidence: DefaultMaxConfidence,
		log:           zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Detector) Name() string { return "ai-fallback" }

// Detect queries the model for s. It never fails: errors, timeouts and
// unusable answers are logged and yield nil.
func (d *Detector) Detect(ctx context.Context, s annotation.Sentence) []detect.Result {
	if d.completer == nil {
		return nil
	}
	text, err := d.complete(ctx, Prompt(s.Text))
	if err != nil {
		d.log.Warnw("fallback detection failed", "error", err, "sentenceLength", s.Len())
		return nil
	}
	candidates, err := ParseCandidates(text)
	if err != nil {
		d.log.Warnw("fallback detection failed", "error", err, "sentenceLength", s.Len())
		return nil
	}
	var out []detect.Result
	for _, c := range candidates {
		r, ok := d.toResult(s, c)
		if !ok {
			d.log.Debugw("dropping fallback candidate", "pattern", c.Pattern, "category", c.Category, "level", c.Level)
			continue
		}
		out = append(out, r)
	}
	return out
}

type completion struct {
	text string
	err  error
}

// complete runs the completer under the detector timeout. It returns once the
// deadline passes even if the completer does not observe ctx.
func (d *Detector) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		text, err := d.completer.Complete(ctx, systemInstruction, prompt)
		done <- completion{text, err}
	}()
	select {
	case c := <-done:
		return c.text, c.err
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for completion")
	}
}

func (d *Detector) toResult(s annotation.Sentence, c Candidate) (detect.Result, bool) {
	category := taxonomy.Category(strings.ToLower(strings.TrimSpace(c.Category)))
	level := taxonomy.Level(strings.ToUpper(strings.TrimSpace(c.Level)))
	if !category.Known() || !level.Valid() || strings.TrimSpace(c.Pattern) == "" {
		return detect.Result{}, false
	}
	if c.Position.Start < 0 || c.Position.Start > c.Position.End || c.Position.End > s.Len() {
		return detect.Result{}, false
	}
	confidence := c.Confidence
	if confidence > d.maxConfidence {
		confidence = d.maxConfidence
	}
	if confidence < 0 {
		confidence = 0
	}
	gp := taxonomy.GrammarPoint{
		ID:          "ai-" + slug(c.Pattern),
		Category:    category,
		Level:       level,
		Name:        c.Pattern,
		Explanation: c.Explanation,
	}
	details := detect.GenericDetails{
		"source":  "ai",
		"pattern": c.Pattern,
	}
	return detect.NewResult(gp, c.Position, confidence, details), true
}

var nonSlug = regexp.MustCompile(`[^a-z0-9äöüß]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ParseCandidates decodes a model answer: a JSON array of candidates,
// optionally wrapped in code fences or in {"grammarPoints": [...]}.
func ParseCandidates(text string) ([]Candidate, error) {
	text = StripCodeFences(text)
	if text == "" {
		return nil, errors.Mark(errors.New("empty response"), ErrMalformedResponse)
	}
	var list []Candidate
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		GrammarPoints []Candidate `json:"grammarPoints"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode candidates"), ErrMalformedResponse)
	}
	return wrapped.GrammarPoints, nil
}

// StripCodeFences removes a surrounding ``` or ```json fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

const systemInstruction = `You are a German grammar annotator for language learners.
Identify grammar points in the given German sentence and answer with JSON only.`

// Prompt renders the user prompt for one sentence.
func Prompt(sentence string) string {
	var cats []string
	for _, c := range taxonomy.Categories {
		cats = append(cats, string(c))
	}
	return fmt.Sprintf(`Sentence: %q

Return a JSON array. Each element must have exactly these fields:
  "category": one of %s
  "level": one of A1, A2, B1, B2, C1, C2
  "pattern": short name of the grammar point
  "explanation": one sentence in English for a learner
  "position": {"start": <int>, "end": <int>} character offsets into the sentence, end exclusive
  "confidence": number between 0 and 1
Return [] when nothing applies. No text outside the JSON.`, sentence, strings.Join(cats, ", "))
}
