package headlines

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
)

const bullet = "   •   "

// Set is one feed's worth of headlines for the current cycle. Failed
// feeds produce a Set with no titles, which renders as the
// "CATEGORY: UNAVAILABLE" placeholder.
type Set struct {
	Category string   `json:"category"`
	Titles   []string `json:"titles"`
}

// Feed is one configured headline source plus its ordered fallback
// endpoints.
type Feed struct {
	Category  string
	URL       string
	Fallbacks []string
}

type Fetcher struct {
	feeds    []Feed
	maxItems int
	client   *http.Client
}

func NewFetcher(feeds []Feed, maxItems int) *Fetcher {
	if maxItems <= 0 {
		maxItems = 8
	}
	return &Fetcher{
		feeds:    feeds,
		maxItems: maxItems,
		client:   newHTTPClient(),
	}
}

// FetchAll fetches every configured feed in parallel. Each feed's
// failure is isolated: a dead feed yields an empty Set and the rest are
// unaffected. Results keep the configured feed order.
func (f *Fetcher) FetchAll(ctx context.Context) []Set {
	sets := make([]Set, len(f.feeds))

	var wg sync.WaitGroup
	for i, feed := range f.feeds {
		wg.Add(1)
		go func(i int, feed Feed) {
			defer wg.Done()
			sets[i] = f.fetchOne(ctx, feed)
		}(i, feed)
	}
	wg.Wait()

	return sets
}

func (f *Fetcher) fetchOne(ctx context.Context, feed Feed) Set {
	set := Set{Category: strings.ToUpper(feed.Category)}

	providers := make([]Provider, 0, 1+len(feed.Fallbacks))
	providers = append(providers, URLProvider(f.client, feed.URL))
	for _, u := range feed.Fallbacks {
		providers = append(providers, URLProvider(f.client, u))
	}

	titles, err := FirstSuccess(ctx, providers...)
	if err != nil {
		log.Printf("Headline feed %s unavailable: %v", set.Category, err)
		return set
	}

	for _, t := range titles {
		if len(set.Titles) >= f.maxItems {
			break
		}
		if t = strings.TrimSpace(t); t != "" {
			set.Titles = append(set.Titles, t)
		}
	}

	return set
}

// Line renders a Set as one labelled ticker segment. Sports titles get
// a per-title sport emoji; other categories a fixed glyph.
func Line(s Set) string {
	if len(s.Titles) == 0 {
		return s.Category + ": UNAVAILABLE"
	}

	sports := s.Category == "SPORTS"
	glyph := CategoryGlyph(s.Category)

	entries := make([]string, 0, len(s.Titles))
	for _, t := range s.Titles {
		if sports {
			glyph = Classify(t)
		}
		entries = append(entries, glyph+" "+t)
	}

	return s.Category + ": " + strings.Join(entries, bullet)
}

// Lines renders every Set and joins them into the headline half of the
// ticker.
func Lines(sets []Set) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		parts = append(parts, Line(s))
	}
	return strings.Join(parts, bullet)
}
