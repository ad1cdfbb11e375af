package rssfeeds

import "sort"

// DefaultLimit caps how many entries are taken from each feed
const DefaultLimit = 20

// FeedPresets maps friendly names to Persian economic RSS feed URLs
var FeedPresets = map[string]string{
	"donya":   "https://donya-e-eqtesad.com/feed",
	"eghtes":  "https://www.eghtesadonline.com/rss",
	"tejarat": "https://www.tejaratnews.ir/feed",
	"isna":    "https://www.isna.ir/rss/tp/34",
	"mehr":    "https://www.mehrnews.com/rss/tp/26",
}

// PresetNames returns the preset identifiers in sorted order so callers
// iterating the presets see the same feed order every run
func PresetNames() []string {
	names := make([]string, 0, len(FeedPresets))
	for name := range FeedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveFeedURL resolves a feed identifier to a URL
// If the input is a preset name, returns the corresponding URL
// Otherwise, returns the input as-is (assuming it's a direct URL)
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}
