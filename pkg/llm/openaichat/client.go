// Package openaichat provides an llm.Client implementation backed by an
// OpenAI-compatible chat completion API.
package openaichat

import (
	"context"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"imagemod/pkg/llm"
	"imagemod/pkg/serrors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Options configure the chat completion client.
type Options struct {
	// APIKey authenticates against the provider.
	APIKey string
	// BaseURL overrides the API endpoint, allowing OpenAI-compatible
	// providers. Empty means the official endpoint.
	BaseURL string
	// Model is the model name sent with every request.
	Model string
	// MaxTokens caps the completion length. The pipeline only needs a
	// one-token verdict, so small values are fine.
	MaxTokens int
	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible chat completion API and fulfills the
// llm.Client interface. It is safe for concurrent use.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// Complete sends a single non-streaming chat completion and returns the raw
// reply text. Any transport or provider error is wrapped as ErrUnavailable so
// callers can apply their degradation policy.
func (c *Client) Complete(ctx context.Context, instruction, content string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", serrors.Wrap(serrors.ErrUnavailable, err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", serrors.With(serrors.ErrUnavailable, "chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Ensure Client conforms to the llm.Client interface at compile time.
var _ llm.Client = (*Client)(nil)

// New constructs a Client from the provided options.
func New(options Options) *Client {
	cfg := openai.DefaultConfig(options.APIKey)
	if options.BaseURL != "" {
		cfg.BaseURL = options.BaseURL
	}
	if options.HTTPClient != nil {
		cfg.HTTPClient = options.HTTPClient
	}

	model := options.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8
	}

	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}
