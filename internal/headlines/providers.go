package headlines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Provider fetches raw titles from one upstream strategy.
type Provider func(ctx context.Context) ([]string, error)

// FirstSuccess tries providers in order and returns the titles of the
// first one that yields at least one non-empty title. Later providers
// are not attempted once one succeeds.
func FirstSuccess(ctx context.Context, providers ...Provider) ([]string, error) {
	var lastErr error
	for _, p := range providers {
		titles, err := p(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(titles) > 0 {
			return titles, nil
		}
		lastErr = errors.New("provider returned no titles")
	}
	if lastErr == nil {
		lastErr = errors.New("no providers configured")
	}
	return nil, lastErr
}

// URLProvider builds a Provider for one endpoint. The body is decoded
// by shape rather than by endpoint type: an RSS-to-JSON converter
// response, a raw RSS/Atom document, or the plain text of a
// read-through extraction proxy.
func URLProvider(client *http.Client, url string) Provider {
	return func(ctx context.Context) ([]string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("headline request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("headline request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("headline bad status: %s", resp.Status)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
		if err != nil {
			return nil, fmt.Errorf("headline read: %w", err)
		}

		return ParseTitles(body)
	}
}

// ParseTitles extracts item titles from a response body, trying the
// JSON items shape first, then RSS/Atom, then plain text lines.
func ParseTitles(body []byte) ([]string, error) {
	if titles := parseJSONTitles(body); len(titles) > 0 {
		return titles, nil
	}
	if titles := parseFeedTitles(body); len(titles) > 0 {
		return titles, nil
	}
	if titles := parseTextTitles(body); len(titles) > 0 {
		return titles, nil
	}
	return nil, errors.New("no titles in response")
}

// parseJSONTitles handles the RSS-to-JSON converter shape
// {"items": [{"title": ...}, ...]}.
func parseJSONTitles(body []byte) []string {
	var payload struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	var titles []string
	for _, item := range payload.Items {
		if t := strings.TrimSpace(item.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// parseFeedTitles handles raw RSS/Atom documents.
func parseFeedTitles(body []byte) []string {
	parser := gofeed.NewParser()
	parser.UserAgent = "MenuBoard/1.0"

	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil
	}

	var titles []string
	for _, item := range feed.Items {
		if t := strings.TrimSpace(item.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// parseTextTitles handles the plain-text output of a read-through
// extraction proxy: one candidate title per line, markdown headings
// stripped, link and separator lines dropped.
func parseTextTitles(body []byte) []string {
	var titles []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#*- "))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			continue
		}
		if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "=") {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
