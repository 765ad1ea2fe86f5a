// Package fetch implements the external collaborator ingest_url needs
// to turn a URL into plain text (spec.md §1 lists this as explicitly
// out of the specified core's scope, treated as an external
// collaborator the coordinator depends on only through an interface).
// No HTML-parsing library appears anywhere in the example pack this
// module was grounded on, so this stays on net/http and regexp rather
// than reaching for an unrelated ecosystem package (see DESIGN.md).
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a fetched page is read, matching the
// entry body size cap (spec.md §3.1: body is 1..100 KiB).
const maxBodyBytes = 100 * 1024

var (
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptRe   = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe      = regexp.MustCompile(`(?s)<[^>]+>`)
	wsRe       = regexp.MustCompile(`\s+`)
)

// HTTPFetcher implements coordinator.URLFetcher over plain HTTP GET,
// extracting a page's <title> and a whitespace-collapsed, tag-stripped
// rendition of its body text.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher with a bounded request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves url and returns its title and a plain-text rendering
// of its body, truncated to maxBodyBytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (title, body string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes*4))
	if err != nil {
		return "", "", fmt.Errorf("read response body: %w", err)
	}
	html := string(raw)

	title = extractTitle(html)
	body = extractText(html)
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}
	return title, body, nil
}

func extractTitle(html string) string {
	m := titleTagRe.FindStringSubmatch(html)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(wsRe.ReplaceAllString(m[1], " "))
}

func extractText(html string) string {
	html = scriptRe.ReplaceAllString(html, " ")
	text := tagRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
}
