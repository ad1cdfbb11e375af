package generation

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// DefaultModel is used when no model is configured
const DefaultModel = "command-r-plus-08-2024"

// GenerationError indicates an LLM call failed or returned invalid output
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return "content generation failed (" + e.Stage + "): " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationErr(stage, msg string) *GenerationError {
	return &GenerationError{Stage: stage, Err: errors.New(msg)}
}

// Client wraps the Cohere SDK with the JSON-only chat call the generators use
type Client struct {
	api *cohereclient.Client
}

// NewClient creates a Cohere-backed client. The HTTP client forces HTTP/1.1
// to avoid HTTP/2 protocol errors against the Cohere endpoint.
func NewClient(apiKey string) *Client {
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	api := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Client{api: api}
}

// chatJSON sends a single-turn chat request constrained to a JSON object
// response and returns the raw response text.
func (c *Client) chatJSON(ctx context.Context, model, preamble, prompt string, maxTokens int, temperature float64) (string, error) {
	if model == "" {
		model = DefaultModel
	}

	resp, err := c.api.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		Preamble:    &preamble,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		ResponseFormat: &cohere.ResponseFormat{
			Type:       "json_object",
			JsonObject: &cohere.JsonResponseFormat{},
		},
	})
	if err != nil {
		return "", &GenerationError{Stage: "request", Err: err}
	}
	if resp == nil || resp.Text == "" {
		return "", generationErr("request", "model returned empty response")
	}
	return resp.Text, nil
}

// truncate limits input text to maxChars, trimming trailing whitespace
func truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	for len(cut) > 0 && (cut[len(cut)-1]&0xC0) == 0x80 {
		cut = cut[:len(cut)-1] // do not split a UTF-8 sequence
	}
	return cut
}
