package rssfeeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Econ Feed</title>
    <item>
      <title>نرخ تورم اعلام شد</title>
      <link>https://example.com/inflation</link>
      <pubDate>Mon, 10 Mar 2025 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>فوری: نرخ ارز جهش کرد</title>
      <link>https://example.com/fx</link>
      <pubDate>Mon, 10 Mar 2025 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No link entry</title>
    </item>
    <item>
      <title>Undated entry</title>
      <link>https://example.com/undated</link>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchLatest(t *testing.T) {
	server := feedServer(t, feedXML)

	items, err := FetchLatest(context.Background(), server.URL, DefaultLimit)
	if err != nil {
		t.Fatalf("FetchLatest() error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (link-less entry skipped)", len(items))
	}

	if items[0].Headline != "نرخ تورم اعلام شد" {
		t.Errorf("headline = %q", items[0].Headline)
	}
	if items[0].IsBreaking {
		t.Error("plain item flagged as breaking")
	}
	if items[0].PublishedAt == nil {
		t.Error("published date was not parsed")
	}
	if items[0].NewsID == "" || items[0].NewsID == items[1].NewsID {
		t.Error("news IDs must be non-empty and distinct")
	}

	if !items[1].IsBreaking {
		t.Error("item with فوری marker not flagged as breaking")
	}

	if items[2].PublishedAt != nil {
		t.Error("undated entry should have nil published time")
	}
}

func TestFetchLatestRespectsLimit(t *testing.T) {
	server := feedServer(t, feedXML)

	items, err := FetchLatest(context.Background(), server.URL, 1)
	if err != nil {
		t.Fatalf("FetchLatest() error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1", len(items))
	}
}

func TestFetchLatestBadFeed(t *testing.T) {
	server := feedServer(t, "this is not xml")

	_, err := FetchLatest(context.Background(), server.URL, DefaultLimit)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
	if fetchErr.FeedURL != server.URL {
		t.Errorf("FetchError.FeedURL = %s, want %s", fetchErr.FeedURL, server.URL)
	}
}

func TestFetchLatestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchLatest(context.Background(), server.URL, DefaultLimit)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
}

func TestPresetNamesStableOrder(t *testing.T) {
	first := PresetNames()
	second := PresetNames()

	if len(first) != len(FeedPresets) {
		t.Fatalf("got %d names, want %d", len(first), len(FeedPresets))
	}
	for i := 1; i < len(first); i++ {
		if first[i-1] >= first[i] {
			t.Fatalf("names not sorted: %v", first)
		}
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order differs between calls: %v vs %v", first, second)
		}
	}
}

func TestResolveFeedURL(t *testing.T) {
	if got := ResolveFeedURL("donya"); got != FeedPresets["donya"] {
		t.Errorf("preset not resolved: %s", got)
	}
	direct := "https://example.com/custom.xml"
	if got := ResolveFeedURL(direct); got != direct {
		t.Errorf("direct URL mangled: %s", got)
	}
}
