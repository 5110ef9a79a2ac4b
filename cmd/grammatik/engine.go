package main

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/fallback"
	"github.com/japaniel/grammatik/pkg/grammar"
	"github.com/japaniel/grammatik/pkg/logging"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

func (a *app) catalog() (*taxonomy.Catalog, error) {
	if a.cfg.Taxonomy.Path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.LoadFile(a.cfg.Taxonomy.Path)
}

// engine builds the detection engine from the configuration. The AI
// fallback is attached only when enabled in the configuration.
func (a *app) engine() (*grammar.Engine, error) {
	c, err := a.catalog()
	if err != nil {
		return nil, err
	}
	b := grammar.NewBuilder(c).
		WithDefaults().
		WithThreshold(a.cfg.Analysis.Threshold).
		WithFallbackMinPoints(a.cfg.Analysis.FallbackMinPoints).
		WithParallel(a.cfg.Analysis.Parallel).
		WithLogger(logging.Named("engine"))

	if a.cfg.Fallback.Enabled {
		if a.cfg.Fallback.APIKey == "" {
			return nil, errors.WithHint(
				errors.New("fallback enabled without an API key"),
				"set GRAMMATIK_FALLBACK_API_KEY or disable fallback.enabled")
		}
		gemini := fallback.NewGemini(a.cfg.Fallback.APIKey, a.cfg.Fallback.Model)
		b = b.WithFallback(fallback.New(gemini,
			fallback.WithTimeout(a.cfg.Fallback.Timeout),
			fallback.WithMaxConfidence(a.cfg.Fallback.MaxConfidence),
			fallback.WithLogger(logging.Named("fallback")),
		))
	}
	return b.Build(), nil
}

// sentences loads annotated sentences from a JSON file ("-" for stdin) or,
// when text is given, from the annotator service.
func (a *app) sentences(ctx context.Context, stdin io.Reader, input, text string) ([]annotation.Sentence, error) {
	switch {
	case input != "" && text != "":
		return nil, errors.New("--input and --text are mutually exclusive")
	case input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		return annotation.ParseSentences(data)
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", input)
		}
		return annotation.ParseSentences(data)
	case text != "":
		return a.annotate(ctx, text)
	}
	return nil, errors.WithHint(errors.New("no sentences given"), "pass --input file.json or --text \"...\"")
}

func (a *app) annotate(ctx context.Context, text string) ([]annotation.Sentence, error) {
	client := annotation.NewClient(a.cfg.Annotator.URL, a.cfg.Annotator.Timeout)
	sentences, err := client.Annotate(ctx, text)
	if err != nil {
		return nil, errors.WithHintf(err, "is the annotator running at %s?", a.cfg.Annotator.URL)
	}
	return sentences, nil
}

// annotateDocument annotates long text in sentence-aligned pieces so no single
// request exceeds annotator.max_chars.
func (a *app) annotateDocument(ctx context.Context, text string) ([]annotation.Sentence, error) {
	var out []annotation.Sentence
	for _, chunk := range annotation.Chunks(text, a.cfg.Annotator.MaxChars) {
		sentences, err := a.annotate(ctx, chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, sentences...)
	}
	if len(out) == 0 {
		return nil, errors.New("document contains no sentences")
	}
	return out, nil
}
