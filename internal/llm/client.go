// Package llm provides a small, provider-agnostic completion interface.
// Exactly one backend is selected by configuration; there is no fallback.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/methuz/Wordcraft/internal/config"
)

var (
	// ErrConfiguration is returned by New for an unknown engine or a
	// missing credential. Callers must not proceed after it.
	ErrConfiguration = errors.New("invalid LLM configuration")

	// ErrBackend wraps transport, auth and empty-reply failures.
	ErrBackend = errors.New("LLM backend error")
)

// Client sends one system instruction and one user message and returns the
// model's free-text reply.
type Client interface {
	Complete(ctx context.Context, system string, user string) (string, error)
	ProviderName() string
	ModelName() string
}

// New builds the client for cfg.Engine. It validates credentials up front
// so that nothing touches the network on a bad configuration.
func New(cfg config.LLMConfig) (Client, error) {
	switch cfg.Engine {
	case config.EngineOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("%w: OPEN_API_KEY is required for the openai engine", ErrConfiguration)
		}
		return NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.MaxTokens), nil
	case config.EngineOllama:
		if cfg.Ollama.Model == "" {
			return nil, fmt.Errorf("%w: ollama model name is empty", ErrConfiguration)
		}
		return NewOllamaClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.MaxTokens), nil
	case config.EngineAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is required for the anthropic engine", ErrConfiguration)
		}
		return NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.MaxTokens), nil
	case "":
		return nil, fmt.Errorf("%w: no engine configured", ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: unsupported engine %q", ErrConfiguration, cfg.Engine)
	}
}
