package headlines

import (
	"context"
	"errors"
	"testing"
)

func TestFirstSuccessStopsAtFirstWinner(t *testing.T) {
	calls := []string{}
	fail := func(name string) Provider {
		return func(ctx context.Context) ([]string, error) {
			calls = append(calls, name)
			return nil, errors.New(name + " down")
		}
	}
	succeed := func(name string, titles ...string) Provider {
		return func(ctx context.Context) ([]string, error) {
			calls = append(calls, name)
			return titles, nil
		}
	}

	titles, err := FirstSuccess(context.Background(),
		fail("reader"),
		succeed("json-proxy", "Title One", "Title Two"),
		succeed("rss", "Should Not Be Fetched"),
	)
	if err != nil {
		t.Fatalf("FirstSuccess failed: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Title One" {
		t.Errorf("titles = %v", titles)
	}
	if len(calls) != 2 || calls[0] != "reader" || calls[1] != "json-proxy" {
		t.Errorf("calls = %v, third strategy must not be attempted", calls)
	}
}

func TestFirstSuccessSkipsEmptyResults(t *testing.T) {
	empty := func(ctx context.Context) ([]string, error) { return nil, nil }
	good := func(ctx context.Context) ([]string, error) { return []string{"A"}, nil }

	titles, err := FirstSuccess(context.Background(), empty, good)
	if err != nil {
		t.Fatalf("FirstSuccess failed: %v", err)
	}
	if len(titles) != 1 || titles[0] != "A" {
		t.Errorf("titles = %v", titles)
	}
}

func TestFirstSuccessAllFail(t *testing.T) {
	fail := func(ctx context.Context) ([]string, error) { return nil, errors.New("down") }

	if _, err := FirstSuccess(context.Background(), fail, fail); err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if _, err := FirstSuccess(context.Background()); err == nil {
		t.Fatal("expected error with no providers")
	}
}

func TestParseTitlesJSONShape(t *testing.T) {
	body := `{"items": [{"title": "First"}, {"title": ""}, {"title": "  Second  "}]}`
	titles, err := ParseTitles([]byte(body))
	if err != nil {
		t.Fatalf("ParseTitles failed: %v", err)
	}
	want := []string{"First", "Second"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v", titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestParseTitlesRSS(t *testing.T) {
	body := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>Game Recap</title><link>http://x/1</link></item>
<item><title>Trade News</title><link>http://x/2</link></item>
</channel></rss>`

	titles, err := ParseTitles([]byte(body))
	if err != nil {
		t.Fatalf("ParseTitles failed: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Game Recap" || titles[1] != "Trade News" {
		t.Errorf("titles = %v", titles)
	}
}

func TestParseTitlesPlainText(t *testing.T) {
	body := "# Today's Headlines\n\nLocal team wins big\nhttps://example.com/story\n\n- Second headline here\n"
	titles, err := ParseTitles([]byte(body))
	if err != nil {
		t.Fatalf("ParseTitles failed: %v", err)
	}

	for _, title := range titles {
		if title == "https://example.com/story" {
			t.Errorf("link line leaked into titles: %v", titles)
		}
	}
	found := false
	for _, title := range titles {
		if title == "Local team wins big" {
			found = true
		}
	}
	if !found {
		t.Errorf("titles = %v, missing plain headline", titles)
	}
}

func TestParseTitlesNothing(t *testing.T) {
	if _, err := ParseTitles([]byte("")); err == nil {
		t.Fatal("expected error for empty body")
	}
}
