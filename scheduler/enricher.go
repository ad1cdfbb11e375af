package scheduler

import (
	"context"
	"fmt"

	"econtent/generation"
	"econtent/rssfeeds"
	"econtent/types"
)

// ArticleEnricher pulls the full article behind a news item and summarizes
// it so generation works from real content instead of the bare headline.
type ArticleEnricher struct {
	summarizer *generation.Summarizer
}

// NewArticleEnricher creates an enricher backed by the given summarizer
func NewArticleEnricher(summarizer *generation.Summarizer) *ArticleEnricher {
	return &ArticleEnricher{summarizer: summarizer}
}

// Enrich extracts and summarizes the article at the item's source URL
func (e *ArticleEnricher) Enrich(ctx context.Context, item *types.NewsItem) (string, []string, error) {
	if item.SourceURL == "" {
		return "", nil, fmt.Errorf("news item %s has no source URL", item.NewsID)
	}

	text, err := rssfeeds.ExtractText(item.SourceURL)
	if err != nil {
		return "", nil, err
	}

	summary, err := e.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", nil, err
	}

	keyFacts := summary.KeyFacts
	if len(keyFacts) == 0 {
		keyFacts = []string{summary.Summary}
	}
	return summary.Summary, keyFacts, nil
}
