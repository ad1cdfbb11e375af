package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"econtent/types"
)

const summaryPreamble = "You are a Persian news editor. Return only valid JSON."

const summaryPromptTemplate = `Summarize the Persian news text below.

Requirements:
- Write a concise summary of 2-3 sentences.
- Extract 3-6 key points as short phrases.
- Extract 3-6 bullet key facts as complete short sentences.
- Keep output brief and faithful to the source.

Return JSON with exactly these keys:
summary: string
key_points: array of strings
key_facts: array of strings

Text:
%s`

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
	spacesRe     = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// Summarizer condenses Persian article text into a summary with key facts
type Summarizer struct {
	client        *Client
	model         string
	maxTokens     int
	maxInputChars int
}

// NewSummarizer creates a summarizer using the given client
func NewSummarizer(client *Client, model string) *Summarizer {
	return &Summarizer{
		client:        client,
		model:         model,
		maxTokens:     400,
		maxInputChars: 8000,
	}
}

// CleanText strips HTML tags, zero-width joiners and excess whitespace
func CleanText(raw string) string {
	text := htmlTagRe.ReplaceAllString(raw, " ")
	text = strings.ReplaceAll(text, "‌", " ")
	text = spacesRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Summarize cleans the raw article text and asks the model for a summary
// with key points and key facts
func (g *Summarizer) Summarize(ctx context.Context, rawText string) (*types.NewsSummary, error) {
	cleaned := CleanText(rawText)
	if cleaned == "" {
		return nil, generationErr("input", "no content to summarize")
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, truncate(cleaned, g.maxInputChars))

	raw, err := g.client.chatJSON(ctx, g.model, summaryPreamble, prompt, g.maxTokens, 0.2)
	if err != nil {
		return nil, err
	}

	return parseSummary(cleaned, raw)
}

func parseSummary(cleaned, raw string) (*types.NewsSummary, error) {
	var payload struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
		KeyFacts  []string `json:"key_facts"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &GenerationError{Stage: "output", Err: fmt.Errorf("model returned invalid JSON: %w", err)}
	}

	if strings.TrimSpace(payload.Summary) == "" {
		return nil, generationErr("output", "model response missing summary")
	}

	summary := &types.NewsSummary{
		CleanedText: cleaned,
		Summary:     strings.TrimSpace(payload.Summary),
		KeyPoints:   trimNonEmpty(payload.KeyPoints),
		KeyFacts:    trimNonEmpty(payload.KeyFacts),
	}
	return summary, nil
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
