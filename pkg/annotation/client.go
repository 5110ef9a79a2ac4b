package annotation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrAnnotator marks failures reported by the external annotation service.
var ErrAnnotator = errors.New("annotator error")

// maxResponseSize caps the annotator response body.
const maxResponseSize = 16 * 1024 * 1024

// Annotator turns raw German text into annotated sentences.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Sentence, error)
}

// Client talks to an HTTP annotation service (spaCy/Stanza style) that accepts
// {"text": "...", "lang": "de"} and answers with sentences and tokens.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a Client with the given endpoint and request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Annotate sends text to the service and decodes the sentences it returns.
func (c *Client) Annotate(ctx context.Context, text string) ([]Sentence, error) {
	payload, err := json.Marshal(map[string]string{"text": text, "lang": "de"})
	if err != nil {
		return nil, errors.Wrap(err, "encode annotate request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build annotate request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "annotate via %s", c.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "read annotate response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrAnnotator, "status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	sentences, err := ParseSentences(body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "annotator returned malformed sentences"), ErrAnnotator)
	}
	return sentences, nil
}

// truncate shortens s to at most n bytes without splitting a character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
