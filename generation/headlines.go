package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"econtent/types"
)

const headlinePreamble = "You are a professional Persian financial editor. Return only valid JSON."

const headlinePromptTemplate = `Generate 3 Persian headline variants for the summarized economic news below.

Constraints:
- Telegram-optimized
- Max 90 characters each
- No clickbait, no exaggeration
- Keep accurate and neutral tone
- Output Persian text only

Headline types:
1) Problem-oriented
2) Number-driven
3) Question-based

Return JSON with exactly these keys:
problem_headline: string
number_headline: string
question_headline: string

Summary:
%s`

// HeadlineGenerator produces alternative Persian headlines for a summary
type HeadlineGenerator struct {
	client        *Client
	model         string
	maxTokens     int
	maxInputChars int
}

// NewHeadlineGenerator creates a headline generator using the given client
func NewHeadlineGenerator(client *Client, model string) *HeadlineGenerator {
	return &HeadlineGenerator{
		client:        client,
		model:         model,
		maxTokens:     200,
		maxInputChars: 4000,
	}
}

// Generate returns three headline variants for the summarized text
func (g *HeadlineGenerator) Generate(ctx context.Context, summarizedText string) (*types.HeadlineVariants, error) {
	cleaned := strings.TrimSpace(summarizedText)
	if cleaned == "" {
		return nil, generationErr("input", "no summary provided")
	}

	prompt := fmt.Sprintf(headlinePromptTemplate, truncate(cleaned, g.maxInputChars))

	raw, err := g.client.chatJSON(ctx, g.model, headlinePreamble, prompt, g.maxTokens, 0.3)
	if err != nil {
		return nil, err
	}

	return parseHeadlines(raw)
}

func parseHeadlines(raw string) (*types.HeadlineVariants, error) {
	var payload struct {
		Problem  string `json:"problem_headline"`
		Number   string `json:"number_headline"`
		Question string `json:"question_headline"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &GenerationError{Stage: "output", Err: fmt.Errorf("model returned invalid JSON: %w", err)}
	}

	variants := &types.HeadlineVariants{
		ProblemHeadline:  strings.TrimSpace(payload.Problem),
		NumberHeadline:   strings.TrimSpace(payload.Number),
		QuestionHeadline: strings.TrimSpace(payload.Question),
	}
	if variants.ProblemHeadline == "" || variants.NumberHeadline == "" || variants.QuestionHeadline == "" {
		return nil, generationErr("output", "model response missing required fields")
	}
	return variants, nil
}
