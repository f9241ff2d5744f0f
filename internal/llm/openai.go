package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
// The same type serves the hosted OpenAI engine and a local Ollama server.
type OpenAIClient struct {
	client    *openai.Client
	provider  string
	model     string
	maxTokens int
}

// NewOpenAIClient creates a client for api.openai.com.
func NewOpenAIClient(apiKey string, model string, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		client:    openai.NewClient(apiKey),
		provider:  "openai",
		model:     model,
		maxTokens: maxTokens,
	}
}

// NewOllamaClient creates a client for a local Ollama server. Ollama ignores
// the bearer token but go-openai always sends one.
func NewOllamaClient(baseURL string, model string, maxTokens int) *OpenAIClient {
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		provider:  "ollama",
		model:     model,
		maxTokens: maxTokens,
	}
}

func (o *OpenAIClient) ProviderName() string { return o.provider }
func (o *OpenAIClient) ModelName() string     { return o.model }

func (o *OpenAIClient) Complete(ctx context.Context, system string, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   o.maxTokens,
		Temperature: 1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s API call: %v", ErrBackend, o.provider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", ErrBackend, o.provider)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: %s returned an empty reply", ErrBackend, o.provider)
	}
	return content, nil
}
