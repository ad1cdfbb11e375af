package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"econtent/types"
)

const contentPreamble = "You are a professional Persian economic editor. Return only valid JSON."

const contentPromptTemplate = `Create Telegram-ready economic content from the inputs below.

Constraints:
- Persian language only
- Neutral, factual tone
- Avoid clickbait or sales language
- Keep each section concise

Content type options: short, analytical, educational, table-number

Return JSON with exactly these keys:
lead: string (1-2 lines)
body: string
analysis: string (why this matters)
cta: string (soft, neutral CTA)

Inputs:
Headline: %s
Summary: %s
Key facts: %s
Content type: %s`

// ContentGenerator produces Telegram-ready economic posts
type ContentGenerator struct {
	client        *Client
	model         string
	maxTokens     int
	maxInputChars int
}

// NewContentGenerator creates a content generator using the given client.
// An empty model falls back to DefaultModel.
func NewContentGenerator(client *Client, model string) *ContentGenerator {
	return &ContentGenerator{
		client:        client,
		model:         model,
		maxTokens:     500,
		maxInputChars: 6000,
	}
}

// Generate turns a headline, summary and key facts into a four-part post.
// All inputs must be non-empty; the model output must contain all four
// sections or a GenerationError is returned.
func (g *ContentGenerator) Generate(ctx context.Context, headline, summary string, keyFacts []string, postType types.PostType) (*types.TelegramContent, error) {
	if strings.TrimSpace(headline) == "" {
		return nil, generationErr("input", "headline is required")
	}
	if strings.TrimSpace(summary) == "" {
		return nil, generationErr("input", "summary is required")
	}

	facts := make([]string, 0, len(keyFacts))
	for _, fact := range keyFacts {
		if trimmed := strings.TrimSpace(fact); trimmed != "" {
			facts = append(facts, trimmed)
		}
	}
	if len(facts) == 0 {
		return nil, generationErr("input", "key facts are required")
	}
	if !postType.Valid() {
		return nil, generationErr("input", fmt.Sprintf("unknown content type %q", postType))
	}

	prompt := fmt.Sprintf(contentPromptTemplate,
		truncate(strings.TrimSpace(headline), g.maxInputChars),
		truncate(strings.TrimSpace(summary), g.maxInputChars),
		truncate(strings.Join(facts, " | "), g.maxInputChars),
		postType,
	)

	raw, err := g.client.chatJSON(ctx, g.model, contentPreamble, prompt, g.maxTokens, 0.3)
	if err != nil {
		return nil, err
	}

	return parseContent(raw)
}

// parseContent validates the model output and maps it to TelegramContent
func parseContent(raw string) (*types.TelegramContent, error) {
	var payload struct {
		Lead     string `json:"lead"`
		Body     string `json:"body"`
		Analysis string `json:"analysis"`
		CTA      string `json:"cta"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &GenerationError{Stage: "output", Err: fmt.Errorf("model returned invalid JSON: %w", err)}
	}

	content := &types.TelegramContent{
		Lead:     strings.TrimSpace(payload.Lead),
		Body:     strings.TrimSpace(payload.Body),
		Analysis: strings.TrimSpace(payload.Analysis),
		CTA:      strings.TrimSpace(payload.CTA),
	}
	if content.Lead == "" || content.Body == "" || content.Analysis == "" || content.CTA == "" {
		return nil, generationErr("output", "model response missing required fields")
	}
	return content, nil
}
