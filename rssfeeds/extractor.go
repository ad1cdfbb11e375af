package rssfeeds

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const extractorTimeout = 30 * time.Second

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractText fetches an article URL and extracts its readable text content,
// used to enrich generation input beyond the bare headline.
func ExtractText(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("article URL is empty")
	}

	article, err := readability.FromURL(url, extractorTimeout)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	text := whitespaceRe.ReplaceAllString(article.TextContent, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty article content extracted from %s", url)
	}

	return text, nil
}
