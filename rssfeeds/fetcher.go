package rssfeeds

import (
	"context"
	"strings"
	"time"

	"econtent/types"

	"github.com/mmcdole/gofeed"
)

// FetchError indicates an RSS feed could not be fetched or parsed
type FetchError struct {
	FeedURL string
	Err     error
}

func (e *FetchError) Error() string {
	return "failed to fetch RSS feed " + e.FeedURL + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// breakingMarkers flag a feed entry for priority assignment. Persian feeds
// tag urgent items with فوری; English-language feeds use "breaking".
var breakingMarkers = []string{"فوری", "breaking"}

// FetchLatest retrieves and parses an RSS/Atom feed, returning normalized
// news items. Entries without a link or title are skipped.
func FetchLatest(ctx context.Context, feedURL string, limit int) ([]*types.NewsItem, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &FetchError{FeedURL: feedURL, Err: err}
	}

	count := len(feed.Items)
	if limit > 0 && count > limit {
		count = limit
	}

	items := make([]*types.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		entry := feed.Items[i]
		if entry.Link == "" || entry.Title == "" {
			continue
		}

		// Published falls back to updated; a missing date stays nil so the
		// planner treats the item as oldest
		var publishedAt *time.Time
		if entry.PublishedParsed != nil {
			publishedAt = entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			publishedAt = entry.UpdatedParsed
		}

		items = append(items, &types.NewsItem{
			NewsID:      types.GenerateID(entry.Link),
			Headline:    entry.Title,
			IsBreaking:  isBreaking(entry),
			PublishedAt: publishedAt,
			SourceURL:   entry.Link,
		})
	}

	return items, nil
}

// isBreaking checks the entry title and categories for breaking-news markers
func isBreaking(entry *gofeed.Item) bool {
	if containsMarker(entry.Title) {
		return true
	}
	for _, category := range entry.Categories {
		if containsMarker(category) {
			return true
		}
	}
	return false
}

func containsMarker(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range breakingMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
