package fallback

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNoAPIKey is returned by Gemini.Complete without credentials.
var ErrNoAPIKey = errors.New("gemini api key is empty")

// Gemini is a Completer backed by the Gemini API.
type Gemini struct {
	APIKey string
	Model  string
	// Attempts is the number of tries for transient failures; at least one.
	Attempts int
}

// NewGemini returns a Gemini completer for the given key and model.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		APIKey:   strings.TrimSpace(apiKey),
		Model:    strings.TrimSpace(model),
		Attempts: 2,
	}
}

// Complete asks the model for a JSON answer at temperature 0.
func (g *Gemini) Complete(ctx context.Context, system, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", ErrNoAPIKey
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", errors.Wrap(err, "gemini client")
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.Model)
	if m == nil {
		return "", errors.Newf("gemini: no model %q", g.Model)
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	attempts := g.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return "", errors.Wrap(ctx.Err(), "gemini generate")
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", errors.Mark(errors.New("gemini: empty response"), ErrMalformedResponse)
		}
		return txt, nil
	}
	return "", errors.Wrap(lastErr, "gemini generate")
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
