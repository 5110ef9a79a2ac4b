package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-shiori/go-readability"
)

// maxBodySize caps fetched HTML so an untrusted URL cannot exhaust memory.
const maxBodySize = 10 * 1024 * 1024

// article is the readable content of a fetched page.
type article struct {
	Title    string
	Byline   string
	SiteName string
	Text     string
}

// fetchArticle downloads rawURL and extracts its main text.
func fetchArticle(ctx context.Context, rawURL string, timeout time.Duration) (article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return article{}, errors.WithHint(errors.Newf("invalid url %q", rawURL), "use an absolute http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return article{}, errors.Wrap(err, "create request")
	}
	// Some news sites reject requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return article{}, errors.Wrapf(err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return article{}, errors.Newf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return article{}, errors.Newf("content length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return article{}, errors.Wrap(err, "read response body")
	}
	if len(body) > maxBodySize {
		return article{}, errors.Newf("response body exceeds limit of %d bytes", maxBodySize)
	}

	parsed, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return article{}, errors.Wrap(err, "extract article")
	}
	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		return article{}, errors.Newf("no readable text at %s", rawURL)
	}
	return article{
		Title:    parsed.Title,
		Byline:   parsed.Byline,
		SiteName: parsed.SiteName,
		Text:     text,
	}, nil
}
