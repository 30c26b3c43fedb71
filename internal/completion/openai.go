// Package completion turns a single transcript into a spoken-style reply
// using an OpenAI chat-completion model. No conversation history is kept;
// every transcript is a fresh exchange.
package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type Provider struct {
	client   *openai.Client
	apiKey   string
	model    string
	location string
	now      func() time.Time
}

type ProviderOption func(*Provider)

// WithBaseURL points the provider at an alternate API endpoint, for tests
// and OpenAI-compatible gateways.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		cfg := openai.DefaultConfig(p.apiKey)
		cfg.BaseURL = baseURL
		p.client = openai.NewClientWithConfig(cfg)
	}
}

// WithClock overrides the persona clock, for tests.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

func NewProvider(apiKey, model, location string, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:   openai.NewClient(apiKey),
		apiKey:   apiKey,
		model:    model,
		location: location,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Complete issues one chat completion for the transcript and returns the
// first choice, trimmed. An empty completion is an error, never an empty
// reply.
func (p *Provider) Complete(ctx context.Context, transcript string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(p.now(), p.location)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("chat completion returned an empty reply")
	}

	return reply, nil
}
